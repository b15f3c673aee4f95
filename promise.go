// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cesk

// PromiseValue is the settled payload carried by a Fulfilled or Rejected
// promise: the resolution value plus the Environment it closes over, so a
// handler invoked later (possibly by a queue drain far from the original
// resolve site) still sees the value's free variables resolved in their
// original scope. spec.md marks this environment-carrying choice as the
// resolved form of an open question left by the source material.
type PromiseValue struct {
	Value Expression
	Env   Environment
}

// PromiseStatus is the closed three-state tag of a promise's lifecycle.
type PromiseStatus int

const (
	// StatusAbsent means the address has never been promisified; it is
	// not a zero value stored anywhere, only the "not present in
	// PromiseState" case.
	StatusAbsent PromiseStatus = iota
	StatusPending
	StatusFulfilled
	StatusRejected
)

// PromiseCell is one entry of the PromiseState map: a status tag plus,
// once settled, the settled PromiseValue.
type PromiseCell struct {
	Status PromiseStatus
	Value  PromiseValue // valid only when Status is Fulfilled or Rejected
}

// Reaction is one entry of a FulfillReactions or RejectReactions sequence:
// a handler expression (closed over Env) and the address of the child
// promise OnResolve/OnReject allocated for it.
type Reaction struct {
	Handler Expression
	Env     Environment
	Child   Address
}

// LinkEntry is one pending propagation popped from the LinkQueue: the
// settled value of a parent promise and the address of the child promise
// its resolution/rejection must be replayed onto.
type LinkEntry struct {
	Value    PromiseValue
	Rejected bool
	Target   Address
}

// ReactionEntry is one pending reaction popped from the ReactionQueue: the
// settled value of a promise, the handler to apply it to, and the child
// promise address the handler's result must resolve.
type ReactionEntry struct {
	Value    PromiseValue
	Rejected bool
	Handler  Expression
	HandlerEnv Environment
	Child    Address
}

// PromiseTables bundles every promise-related map spec.md §3 lists under
// one value so State can carry, copy and compare them as a unit. Every
// field is treated as immutable; every mutator below returns a new
// PromiseTables.
type PromiseTables struct {
	State           map[Address]PromiseCell
	FulfillReacts   map[Address][]Reaction
	RejectReacts    map[Address][]Reaction
	Links           map[Address][]Address
	LinkQueue       []LinkEntry
	ReactionQueue   []ReactionEntry
}

// NewPromiseTables returns an empty set of promise tables.
func NewPromiseTables() PromiseTables {
	return PromiseTables{
		State:         map[Address]PromiseCell{},
		FulfillReacts: map[Address][]Reaction{},
		RejectReacts:  map[Address][]Reaction{},
		Links:         map[Address][]Address{},
	}
}

func (t PromiseTables) clone() PromiseTables {
	out := PromiseTables{
		State:         make(map[Address]PromiseCell, len(t.State)),
		FulfillReacts: make(map[Address][]Reaction, len(t.FulfillReacts)),
		RejectReacts:  make(map[Address][]Reaction, len(t.RejectReacts)),
		Links:         make(map[Address][]Address, len(t.Links)),
		LinkQueue:     append([]LinkEntry(nil), t.LinkQueue...),
		ReactionQueue: append([]ReactionEntry(nil), t.ReactionQueue...),
	}
	for k, v := range t.State {
		out.State[k] = v
	}
	for k, v := range t.FulfillReacts {
		out.FulfillReacts[k] = append([]Reaction(nil), v...)
	}
	for k, v := range t.RejectReacts {
		out.RejectReacts[k] = append([]Reaction(nil), v...)
	}
	for k, v := range t.Links {
		out.Links[k] = append([]Address(nil), v...)
	}
	return out
}

// Promisify sets a's status to Pending if a has never been promisified.
// Re-promisifying an already-promisified address is a no-op, per spec.md
// §4.3.
func (t PromiseTables) Promisify(a Address) PromiseTables {
	if _, ok := t.State[a]; ok {
		return t
	}
	out := t.clone()
	out.State[a] = PromiseCell{Status: StatusPending}
	return out
}

// Settle moves a from Pending to Fulfilled or Rejected with val, draining
// a's reaction tables and link table into the two queues in their
// original order, per spec.md §4.3's Resolve/Reject rules. Settling a
// promise that is not Pending (including one that was never
// promisified) is a no-op and the caller should have already produced an
// Abort for the "never promisified" case before calling Settle.
func (t PromiseTables) Settle(a Address, val PromiseValue, rejected bool) PromiseTables {
	cell, ok := t.State[a]
	if !ok || cell.Status != StatusPending {
		return t
	}
	out := t.clone()
	status := StatusFulfilled
	if rejected {
		status = StatusRejected
	}
	out.State[a] = PromiseCell{Status: status, Value: val}

	for _, child := range out.Links[a] {
		out.LinkQueue = append(out.LinkQueue, LinkEntry{Value: val, Rejected: rejected, Target: child})
	}
	delete(out.Links, a)

	var reactions []Reaction
	if rejected {
		reactions = out.RejectReacts[a]
	} else {
		reactions = out.FulfillReacts[a]
	}
	for _, r := range reactions {
		out.ReactionQueue = append(out.ReactionQueue, ReactionEntry{
			Value: val, Rejected: rejected, Handler: r.Handler, HandlerEnv: r.Env, Child: r.Child,
		})
	}
	delete(out.FulfillReacts, a)
	delete(out.RejectReacts, a)

	return out
}

// RegisterReaction adds a reaction for the fulfill (rejected=false) or
// reject (rejected=true) table of a, used only while a is Pending; the
// Fulfilled/Rejected cases are handled directly in step.go by enqueueing
// onto ReactionQueue without ever touching the tables, per spec.md §4.3.
func (t PromiseTables) RegisterReaction(a Address, r Reaction, rejected bool) PromiseTables {
	out := t.clone()
	if rejected {
		out.RejectReacts[a] = append(out.RejectReacts[a], r)
	} else {
		out.FulfillReacts[a] = append(out.FulfillReacts[a], r)
	}
	return out
}

// Link appends child to parent's PromiseLinks sequence.
func (t PromiseTables) Link(parent, child Address) PromiseTables {
	out := t.clone()
	out.Links[parent] = append(out.Links[parent], child)
	return out
}

// PopLink removes and returns the head of the LinkQueue.
func (t PromiseTables) PopLink() (LinkEntry, PromiseTables) {
	head := t.LinkQueue[0]
	out := t.clone()
	out.LinkQueue = append([]LinkEntry(nil), t.LinkQueue[1:]...)
	return head, out
}

// PopReaction removes and returns the head of the ReactionQueue.
func (t PromiseTables) PopReaction() (ReactionEntry, PromiseTables) {
	head := t.ReactionQueue[0]
	out := t.clone()
	out.ReactionQueue = append([]ReactionEntry(nil), t.ReactionQueue[1:]...)
	return head, out
}

// EnqueueReaction appends a reaction directly onto the ReactionQueue,
// used by the Fulfilled/Rejected branches of OnResolve/OnReject in
// step.go where the promise is already settled and there is no table to
// register into.
func (t PromiseTables) EnqueueReaction(e ReactionEntry) PromiseTables {
	out := t.clone()
	out.ReactionQueue = append(out.ReactionQueue, e)
	return out
}

func (t PromiseTables) snapshot() PromiseTables {
	return t.clone()
}
