// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cesk

// Step computes the successors of s under continuation k (already fetched
// from s.Store at s.KontPtr by the caller — Reachable resolves every
// StoredKont at s.KontPtr itself, since under abstraction that address may
// hold more than one). alloc supplies the abstraction hooks of spec.md
// §4.1; the rules below are otherwise identical between the concrete and
// abstract instantiations.
//
// Step never mutates s; every returned Outcome wraps a freshly constructed
// State. At most one rule matches a given Expr/Kontinuation pair; a single
// call returns more than one Outcome only when a variable lookup or a
// Deref finds more than one Storable at an address (one Outcome each, per
// spec.md §4.3's "for each" phrasing). Reachable adds the other source of
// multiplicity by calling Step once per StoredKont found at s.KontPtr.
func Step(s State, k Kontinuation, alloc Allocator) []Outcome {
	// The two queue-drain rules take priority over the ordinary
	// expression/continuation dispatch below and over each other's
	// opposite case, per spec.md §4.3: E-Link-Loop fires whenever
	// LinkQueue has pending work, regardless of whether the current
	// expression is already a value — a settled promise's propagation to
	// its linked children must not wait for the machine to get stuck or
	// for some unrelated expression to finish reducing. E-Reaction-Loop
	// fires whenever the current expression is a value and ReactionQueue
	// has pending work. Neither cares what the current continuation is —
	// both inject new work ahead of it.
	if len(s.Proms.LinkQueue) > 0 {
		return drainLinkQueue(s, s.Expr)
	}
	if IsValue(s.Expr) && len(s.Proms.ReactionQueue) > 0 {
		return drainReactionQueue(s, alloc)
	}

	switch e := s.Expr.(type) {

	case Var:
		return stepVar(s, e, alloc)

	case App:
		return stepApp(s, e, k, alloc)

	case Ref:
		return stepRef(s, e, k, alloc)

	case Deref:
		return stepDeref(s, e, k, alloc)

	case Seq:
		return stepSeq(s, e, k, alloc)

	case Promisify:
		return stepPromisify(s, e, k, alloc)

	case Resolve:
		return stepResolveOrReject(s, e.Promise, e.Value, k, alloc, false)

	case Reject:
		return stepRejectExpr(s, e, k, alloc)

	case OnResolve:
		return stepOnResolveOrReject(s, e.Promise, e.Handler, k, alloc, false)

	case OnReject:
		return stepOnRejectExpr(s, e, k, alloc)

	case Link:
		return stepLink(s, e, k, alloc)
	}

	// Expr is a value (Abs, Cst, Ptr). With the ReactionQueue drain already
	// handled above, a value only steps by reducing the current
	// Kontinuation, which is not dispatched on Expr's shape, so it falls
	// through to the shared tail.
	return stepValue(s, s.Expr, k, alloc)
}

// stepVar implements spec.md §4.3's Variable rule.
func stepVar(s State, e Var, alloc Allocator) []Outcome {
	a, ok := s.Env.Lookup(e.Name)
	if !ok {
		return []Outcome{Abort{Reason: ReasonUnboundVariable, State: s}}
	}
	cell := s.Store.Lookup(a)
	var out []Outcome
	for _, st := range cell {
		sv, ok := st.(StoredValue)
		if !ok {
			out = append(out, Abort{Reason: ReasonTypeError, State: s})
			continue
		}
		next := s
		next.Expr = sv.Value
		next.Env = sv.Env
		next.Time = alloc.Tick(s, nil)
		out = append(out, Next{State: next})
	}
	if len(out) == 0 {
		return []Outcome{Abort{Reason: ReasonTypeError, State: s}}
	}
	return out
}

// stepApp implements spec.md §4.3's Application-evaluation rule: App(e1,e2)
// allocates a KApp1 and begins evaluating e1.
func stepApp(s State, e App, k Kontinuation, alloc Allocator) []Outcome {
	a := alloc.Alloc(s, k)
	next := s
	next.Store = s.Store.WeakUpdate(a, StoredKont{Kont: KApp1{Arg: e.Arg, Env: s.Env, Parent: s.KontPtr}})
	next.Expr = e.Fn
	next.KontPtr = a
	next.Time = alloc.Tick(s, k)
	return []Outcome{Next{State: next}}
}

// stepRef implements spec.md §4.3's Ref rule: evaluate the operand under a
// fresh KRef.
func stepRef(s State, e Ref, k Kontinuation, alloc Allocator) []Outcome {
	a := alloc.Alloc(s, k)
	next := s
	next.Store = s.Store.WeakUpdate(a, StoredKont{Kont: KRef{Parent: s.KontPtr}})
	next.Expr = e.Operand
	next.KontPtr = a
	next.Time = alloc.Tick(s, k)
	return []Outcome{Next{State: next}}
}

// stepDeref implements spec.md §4.3's Deref rule.
func stepDeref(s State, e Deref, k Kontinuation, alloc Allocator) []Outcome {
	a := alloc.Alloc(s, k)
	next := s
	next.Store = s.Store.WeakUpdate(a, StoredKont{Kont: KDeref{Parent: s.KontPtr}})
	next.Expr = e.Operand
	next.KontPtr = a
	next.Time = alloc.Tick(s, k)
	return []Outcome{Next{State: next}}
}

// stepSeq implements spec.md §4.3's Seq rule.
func stepSeq(s State, e Seq, k Kontinuation, alloc Allocator) []Outcome {
	a := alloc.Alloc(s, k)
	next := s
	next.Store = s.Store.WeakUpdate(a, StoredKont{Kont: KSeq{Second: e.Second, Env: s.Env, Parent: s.KontPtr}})
	next.Expr = e.First
	next.KontPtr = a
	next.Time = alloc.Tick(s, k)
	return []Outcome{Next{State: next}}
}

// stepPromisify implements spec.md §4.3's Promisify rule: evaluate the
// operand under a fresh KPromisify.
func stepPromisify(s State, e Promisify, k Kontinuation, alloc Allocator) []Outcome {
	a := alloc.Alloc(s, k)
	next := s
	next.Store = s.Store.WeakUpdate(a, StoredKont{Kont: KPromisify{Parent: s.KontPtr}})
	next.Expr = e.Operand
	next.KontPtr = a
	next.Time = alloc.Tick(s, k)
	return []Outcome{Next{State: next}}
}

// stepRejectExpr and stepOnRejectExpr thread the Reject/OnReject AST nodes
// into the shared Resolve/OnResolve implementation (the two operations are
// symmetric by construction, per spec.md §9).
func stepRejectExpr(s State, e Reject, k Kontinuation, alloc Allocator) []Outcome {
	return stepResolveOrReject(s, e.Promise, e.Value, k, alloc, true)
}

func stepOnRejectExpr(s State, e OnReject, k Kontinuation, alloc Allocator) []Outcome {
	return stepOnResolveOrReject(s, e.Promise, e.Handler, k, alloc, true)
}

// stepResolveOrReject implements spec.md §4.3's Resolve and Reject rules
// (rejected selects which of the two). The promise operand is evaluated
// first under KResolve1/KReject1, then the value under KResolve2/KReject2.
func stepResolveOrReject(s State, promiseExpr, valueExpr Expression, k Kontinuation, alloc Allocator, rejected bool) []Outcome {
	a := alloc.Alloc(s, k)
	next := s
	var kont Kontinuation
	if rejected {
		kont = KReject1{Value: valueExpr, Env: s.Env, Parent: s.KontPtr}
	} else {
		kont = KResolve1{Value: valueExpr, Env: s.Env, Parent: s.KontPtr}
	}
	next.Store = s.Store.WeakUpdate(a, StoredKont{Kont: kont})
	next.Expr = promiseExpr
	next.KontPtr = a
	next.Time = alloc.Tick(s, k)
	return []Outcome{Next{State: next}}
}

// stepOnResolveOrReject implements spec.md §4.3's OnResolve and OnReject
// rules (rejected selects which table participates).
func stepOnResolveOrReject(s State, promiseExpr, handlerExpr Expression, k Kontinuation, alloc Allocator, rejected bool) []Outcome {
	a := alloc.Alloc(s, k)
	next := s
	var kont Kontinuation
	if rejected {
		kont = KOnReject1{Handler: handlerExpr, Env: s.Env, Parent: s.KontPtr}
	} else {
		kont = KOnResolve1{Handler: handlerExpr, Env: s.Env, Parent: s.KontPtr}
	}
	next.Store = s.Store.WeakUpdate(a, StoredKont{Kont: kont})
	next.Expr = promiseExpr
	next.KontPtr = a
	next.Time = alloc.Tick(s, k)
	return []Outcome{Next{State: next}}
}

// stepLink implements spec.md §4.3's Link rule: evaluate the parent promise
// operand, then the child.
func stepLink(s State, e Link, k Kontinuation, alloc Allocator) []Outcome {
	a := alloc.Alloc(s, k)
	next := s
	next.Store = s.Store.WeakUpdate(a, StoredKont{Kont: KLink1{Child: e.Child, Env: s.Env, Parent: s.KontPtr}})
	next.Expr = e.Parent
	next.KontPtr = a
	next.Time = alloc.Tick(s, k)
	return []Outcome{Next{State: next}}
}

// stepValue dispatches on the current Kontinuation once Expr is a value.
// This is the half of the step relation spec.md §4.3 keys off
// "(current expression is a value, current continuation is ...)" pairs,
// plus the Stuck fallback. The queue-drain rules run in Step before this
// dispatch is reached.
func stepValue(s State, v Expression, k Kontinuation, alloc Allocator) []Outcome {
	switch kk := k.(type) {

	case Empty:
		return stepEmptyOrStuck(s, v)

	case KApp1:
		return stepKApp1(s, v, kk, alloc)

	case KApp2:
		return stepKApp2(s, v, kk, alloc)

	case KRef:
		return stepKRef(s, v, kk, alloc)

	case KDeref:
		return stepKDeref(s, v, kk)

	case KSeq:
		return stepKSeq(s, kk)

	case KPromisify:
		return stepKPromisify(s, v, kk)

	case KResolve1:
		return stepKResolve1(s, v, kk, alloc)

	case KResolve2:
		return stepKResolve2(s, v, kk, false)

	case KReject1:
		return stepKReject1(s, v, kk, alloc)

	case KReject2:
		return stepKReject2(s, v, kk)

	case KOnResolve1:
		return stepKOnResolve1(s, v, kk, alloc)

	case KOnResolve2:
		return stepKOnResolve2(s, v, kk, alloc, false)

	case KOnReject1:
		return stepKOnReject1(s, v, kk, alloc)

	case KOnReject2:
		return stepKOnReject2(s, v, kk, alloc)

	case KLink1:
		return stepKLink1(s, v, kk, alloc)

	case KLink2:
		return stepKLink2(s, v, kk)
	}
	return stepEmptyOrStuck(s, v)
}

// stepEmptyOrStuck implements the Stuck rule of spec.md §4.3: Expr is a
// value, the current continuation is Empty (or unrecognized), and Step has
// already confirmed ReactionQueue is empty before dispatching here — so
// nothing more can happen.
func stepEmptyOrStuck(s State, v Expression) []Outcome {
	_ = v
	return []Outcome{Done{State: s}}
}

// drainReactionQueue implements spec.md §4.3's E-Reaction-Loop: pop the
// head of ReactionQueue and continue with a Resolve/Reject of the child
// promise applying the handler to the settled value. The value the machine
// held before the drain is discarded — the spec is explicit that its only
// role was keeping the machine alive until this queue could run. The
// handler is evaluated under its HandlerEnv; the settled value is first
// stored at a fresh address together with its own Env and reached through
// a Deref, so its free variables keep the scope it was settled in.
func drainReactionQueue(s State, alloc Allocator) []Outcome {
	head, proms := s.Proms.PopReaction()
	next := s
	next.Proms = proms
	a := alloc.Alloc(s, nil)
	next.Store = s.Store.WeakUpdate(a, StoredValue{Value: head.Value.Value, Env: head.Value.Env})
	next.Time = alloc.Tick(s, nil)
	app := App{Fn: head.Handler, Arg: Deref{Operand: Ptr{Addr: a}}}
	next.Env = head.HandlerEnv
	if head.Rejected {
		next.Expr = Reject{Promise: Ptr{Addr: head.Child}, Value: app}
	} else {
		next.Expr = Resolve{Promise: Ptr{Addr: head.Child}, Value: app}
	}
	return []Outcome{Next{State: next}}
}

// drainLinkQueue implements spec.md §4.3's E-Link-Loop: pop the head of
// LinkQueue and splice a Resolve/Reject of the target promise ahead of the
// current expression e0 (which may already be a value), via Seq, without
// disturbing the current continuation. The spliced Seq is evaluated under
// the settled value's Env.
func drainLinkQueue(s State, e0 Expression) []Outcome {
	head, proms := s.Proms.PopLink()
	next := s
	next.Proms = proms
	var propagate Expression
	if head.Rejected {
		propagate = Reject{Promise: Ptr{Addr: head.Target}, Value: head.Value.Value}
	} else {
		propagate = Resolve{Promise: Ptr{Addr: head.Target}, Value: head.Value.Value}
	}
	next.Env = head.Value.Env
	next.Expr = Seq{First: propagate, Second: e0}
	return []Outcome{Next{State: next}}
}

// stepKApp1 implements spec.md §4.3's KApp1-reduction rule: the function
// value is in hand, now evaluate the argument under KApp2.
func stepKApp1(s State, v1 Expression, k KApp1, alloc Allocator) []Outcome {
	a := alloc.Alloc(s, k)
	next := s
	next.Store = s.Store.WeakUpdate(a, StoredKont{Kont: KApp2{Fn: v1, Env: s.Env, Parent: k.Parent}})
	next.Expr = k.Arg
	next.Env = k.Env
	next.KontPtr = a
	next.Time = alloc.Tick(s, k)
	return []Outcome{Next{State: next}}
}

// stepKApp2 implements spec.md §4.3's KApp2-reduction rule, the β-step.
func stepKApp2(s State, v2 Expression, k KApp2, alloc Allocator) []Outcome {
	abs, ok := k.Fn.(Abs)
	if !ok {
		return []Outcome{Abort{Reason: ReasonTypeError, State: s}}
	}
	a := alloc.Alloc(s, k)
	next := s
	next.Store = s.Store.WeakUpdate(a, StoredValue{Value: v2, Env: s.Env})
	next.Expr = abs.Body
	next.Env = k.Env.Bind(abs.Param, a)
	next.KontPtr = k.Parent
	next.Time = alloc.Tick(s, k)
	return []Outcome{Next{State: next}}
}

// stepKRef implements the value half of spec.md §4.3's Ref rule: allocate
// a fresh cell for the value and continue with its address.
func stepKRef(s State, v Expression, k KRef, alloc Allocator) []Outcome {
	a := alloc.Alloc(s, k)
	next := s
	next.Store = s.Store.WeakUpdate(a, StoredValue{Value: v, Env: s.Env})
	next.Expr = Ptr{Addr: a}
	next.KontPtr = k.Parent
	next.Time = alloc.Tick(s, k)
	return []Outcome{Next{State: next}}
}

// stepKDeref implements the value half of spec.md §4.3's Deref rule.
func stepKDeref(s State, v Expression, k KDeref) []Outcome {
	ptr, ok := v.(Ptr)
	if !ok {
		return []Outcome{Abort{Reason: ReasonTypeError, State: s}}
	}
	cell := s.Store.Lookup(ptr.Addr)
	var out []Outcome
	for _, st := range cell {
		sv, ok := st.(StoredValue)
		if !ok {
			out = append(out, Abort{Reason: ReasonNonValueStorable, State: s})
			continue
		}
		next := s
		next.Expr = sv.Value
		next.Env = sv.Env
		next.KontPtr = k.Parent
		out = append(out, Next{State: next})
	}
	if len(out) == 0 {
		return []Outcome{Abort{Reason: ReasonTypeError, State: s}}
	}
	return out
}

// stepKSeq implements the value half of spec.md §4.3's Seq rule: discard
// the value of First, continue with Second under its captured Env.
func stepKSeq(s State, k KSeq) []Outcome {
	next := s
	next.Expr = k.Second
	next.Env = k.Env
	next.KontPtr = k.Parent
	return []Outcome{Next{State: next}}
}

// stepKPromisify implements the value half of spec.md §4.3's Promisify
// rule.
func stepKPromisify(s State, v Expression, k KPromisify) []Outcome {
	ptr, ok := v.(Ptr)
	if !ok {
		return []Outcome{Abort{Reason: ReasonTypeError, State: s}}
	}
	next := s
	next.Proms = s.Proms.Promisify(ptr.Addr)
	next.Expr = Cst{Value: "Undef"}
	next.KontPtr = k.Parent
	return []Outcome{Next{State: next}}
}

// stepKResolve1 implements the value half of spec.md §4.3's Resolve rule
// once the promise operand is a value: now evaluate the resolution value
// under KResolve2 (KReject1/KReject2 are the Reject-side mirror below).
func stepKResolve1(s State, promiseVal Expression, k KResolve1, alloc Allocator) []Outcome {
	a := alloc.Alloc(s, k)
	next := s
	next.Store = s.Store.WeakUpdate(a, StoredKont{Kont: KResolve2{Promise: promiseVal, Parent: k.Parent}})
	next.Expr = k.Value
	next.Env = k.Env
	next.KontPtr = a
	next.Time = alloc.Tick(s, k)
	return []Outcome{Next{State: next}}
}

func stepKReject1(s State, promiseVal Expression, k KReject1, alloc Allocator) []Outcome {
	a := alloc.Alloc(s, k)
	next := s
	next.Store = s.Store.WeakUpdate(a, StoredKont{Kont: KReject2{Promise: promiseVal, Parent: k.Parent}})
	next.Expr = k.Value
	next.Env = k.Env
	next.KontPtr = a
	next.Time = alloc.Tick(s, k)
	return []Outcome{Next{State: next}}
}

// stepKResolve2 implements spec.md §4.3's Resolve rule proper (Reject
// symmetric via rejected): both operands are values, settle the promise.
func stepKResolve2(s State, v Expression, k KResolve2, rejected bool) []Outcome {
	ptr, ok := k.Promise.(Ptr)
	if !ok {
		return []Outcome{Abort{Reason: ReasonTypeError, State: s}}
	}
	if _, known := s.Proms.State[ptr.Addr]; !known {
		return []Outcome{Abort{Reason: ReasonPromiseMisuse, State: s}}
	}
	next := s
	next.Proms = s.Proms.Settle(ptr.Addr, PromiseValue{Value: v, Env: s.Env}, rejected)
	next.Expr = Cst{Value: "Undef"}
	next.KontPtr = k.Parent
	return []Outcome{Next{State: next}}
}

func stepKReject2(s State, v Expression, k KReject2) []Outcome {
	return stepKResolve2(s, v, KResolve2{Promise: k.Promise, Parent: k.Parent}, true)
}

// stepKOnResolve1 implements the value half of spec.md §4.3's OnResolve
// rule once the promise operand is a value: the Kontinuation sum's
// KOnResolve1/KOnResolve2 pair evaluates OnResolve's two operands the same
// two-step way KApp1/KApp2 evaluate App's — promise operand first, handler
// operand second — so this rule only sets up KOnResolve2 and begins
// evaluating the handler; the three-way PromiseStatus branch happens only
// once the handler is also a value (stepKOnResolve2).
func stepKOnResolve1(s State, promiseVal Expression, k KOnResolve1, alloc Allocator) []Outcome {
	a := alloc.Alloc(s, k)
	next := s
	next.Store = s.Store.WeakUpdate(a, StoredKont{Kont: KOnResolve2{Promise: promiseVal, Parent: k.Parent}})
	next.Expr = k.Handler
	next.Env = k.Env
	next.KontPtr = a
	next.Time = alloc.Tick(s, k)
	return []Outcome{Next{State: next}}
}

func stepKOnReject1(s State, promiseVal Expression, k KOnReject1, alloc Allocator) []Outcome {
	a := alloc.Alloc(s, k)
	next := s
	next.Store = s.Store.WeakUpdate(a, StoredKont{Kont: KOnReject2{Promise: promiseVal, Parent: k.Parent}})
	next.Expr = k.Handler
	next.Env = k.Env
	next.KontPtr = a
	next.Time = alloc.Tick(s, k)
	return []Outcome{Next{State: next}}
}

// stepKOnResolve2 implements spec.md §4.3's OnResolve rule proper
// (OnReject symmetric via rejected): both the promise pointer and the
// handler are now values. handlerVal's closing environment is s.Env at
// this point — the environment active once the handler finished becoming
// a value, exactly how KApp1-reduction captures Fn's closing environment —
// so that Reaction.Env is available to correctly close over the handler's
// free variables when the reaction-queue drain later applies it.
func stepKOnResolve2(s State, handlerVal Expression, k KOnResolve2, alloc Allocator, rejected bool) []Outcome {
	ptr, ok := k.Promise.(Ptr)
	if !ok {
		return []Outcome{Abort{Reason: ReasonTypeError, State: s}}
	}
	cell, known := s.Proms.State[ptr.Addr]
	if !known {
		return []Outcome{Abort{Reason: ReasonPromiseMisuse, State: s}}
	}
	return onResolveLike(s, ptr.Addr, cell, handlerVal, s.Env, k.Parent, alloc, rejected)
}

func stepKOnReject2(s State, handlerVal Expression, k KOnReject2, alloc Allocator) []Outcome {
	return stepKOnResolve2(s, handlerVal, KOnResolve2{Promise: k.Promise, Parent: k.Parent}, alloc, true)
}

// onResolveLike implements the three PromiseStatus branches spec.md §4.3
// specifies identically for OnResolve and OnReject (rejected selects which
// table/queue-tag participates). The child promise address is allocated
// with a nil Kontinuation since it is not keyed by any continuation shape —
// only by the current configuration, per spec.md §4.1.
func onResolveLike(s State, promiseAddr Address, cell PromiseCell, handler Expression, handlerEnv Environment, parent Address, alloc Allocator, rejected bool) []Outcome {
	wantFulfilled := !rejected
	switch {
	case cell.Status == StatusPending:
		child := alloc.Alloc(s, nil)
		next := s
		next.Proms = s.Proms.Promisify(child)
		next.Proms = next.Proms.RegisterReaction(promiseAddr, Reaction{Handler: handler, Env: handlerEnv, Child: child}, rejected)
		next.Expr = Ptr{Addr: child}
		next.KontPtr = parent
		next.Time = alloc.Tick(s, nil)
		return []Outcome{Next{State: next}}

	case (cell.Status == StatusFulfilled) == wantFulfilled:
		child := alloc.Alloc(s, nil)
		next := s
		next.Proms = s.Proms.Promisify(child)
		next.Proms = next.Proms.EnqueueReaction(ReactionEntry{
			Value: cell.Value, Rejected: rejected, Handler: handler, HandlerEnv: handlerEnv, Child: child,
		})
		next.Expr = Ptr{Addr: child}
		next.KontPtr = parent
		next.Time = alloc.Tick(s, nil)
		return []Outcome{Next{State: next}}

	default:
		// The promise already settled the other way: result is Undef,
		// state unchanged, per spec.md §4.3.
		next := s
		next.Expr = Cst{Value: "Undef"}
		next.KontPtr = parent
		return []Outcome{Next{State: next}}
	}
}

// stepKLink1 implements the value half of spec.md §4.3's Link rule: the
// parent promise operand is a value, now evaluate the child operand.
func stepKLink1(s State, parentVal Expression, k KLink1, alloc Allocator) []Outcome {
	a := alloc.Alloc(s, k)
	next := s
	next.Store = s.Store.WeakUpdate(a, StoredKont{Kont: KLink2{ParentPromise: parentVal, Parent: k.Parent}})
	next.Expr = k.Child
	next.Env = k.Env
	next.KontPtr = a
	next.Time = alloc.Tick(s, k)
	return []Outcome{Next{State: next}}
}

// stepKLink2 implements spec.md §4.3's Link rule proper: both operands are
// values, append the child address to the parent's PromiseLinks.
func stepKLink2(s State, childVal Expression, k KLink2) []Outcome {
	parentPtr, ok := k.ParentPromise.(Ptr)
	if !ok {
		return []Outcome{Abort{Reason: ReasonTypeError, State: s}}
	}
	childPtr, ok := childVal.(Ptr)
	if !ok {
		return []Outcome{Abort{Reason: ReasonTypeError, State: s}}
	}
	next := s
	next.Proms = s.Proms.Link(parentPtr.Addr, childPtr.Addr)
	next.Expr = Cst{Value: "Undef"}
	next.KontPtr = k.Parent
	return []Outcome{Next{State: next}}
}
