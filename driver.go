// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cesk

import "go.uber.org/zap"

// Driver computes the reachable-configuration fixed point of spec.md
// §4.4. It bundles the Allocator that separates the concrete machine from
// an abstract one, an optional exploration Bound, and an optional logger —
// the core's only ambient dependency, and one the core is silent without
// (see doc.go). Driver carries no other state between calls to Reachable;
// each call starts its own worklist and visited set.
type Driver struct {
	Allocator Allocator

	// Bound caps the number of configurations popped from the worklist.
	// Zero means unbounded — Reachable runs until the worklist empties,
	// which is only guaranteed to terminate when Allocator maps into a
	// finite address domain (spec.md §4.4). A positive Bound lets a
	// caller explore a concrete, possibly-nonterminating program (omega
	// is a valid program, per spec.md §1) without the core itself
	// needing a timeout concept, which spec.md §5 explicitly places
	// outside the contract.
	Bound int

	// Log receives per-pop progress records. Nil is treated as
	// zap.NewNop(): the core has no hard dependency on an active logger.
	Log *zap.Logger
}

// Result is what Reachable returns: every terminal Outcome reached, plus
// whether exploration stopped because it hit Bound rather than because the
// worklist emptied.
type Result struct {
	Terminals []Outcome
	Truncated bool
	Visited   int
}

// Reachable computes the least fixed point of Step starting from initial,
// per spec.md §4.4. It maintains a worklist of States and a visited set
// keyed by State.snapshotKey (structural equality, SPEC_FULL.md §5). Each
// popped State is resolved to every StoredKont found at its KontPtr —
// under abstraction that address may hold more than one Kontinuation, and
// each yields its own successor expansion, per spec.md §4.4's "a
// configuration may list multiple continuations under abstraction" note.
func (d Driver) Reachable(initial State) Result {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	worklist := []State{initial}
	visited := map[string]bool{initial.snapshotKey(): true}
	var terminals []Outcome
	popped := 0

	for len(worklist) > 0 {
		if d.Bound > 0 && popped >= d.Bound {
			log.Info("reachable: bound reached",
				zap.Int("bound", d.Bound),
				zap.Int("worklist", len(worklist)),
				zap.Int("visited", len(visited)),
			)
			return Result{Terminals: terminals, Truncated: true, Visited: len(visited)}
		}

		s := worklist[0]
		worklist = worklist[1:]
		popped++

		konts := s.Store.Lookup(s.KontPtr)
		if len(konts) == 0 {
			terminals = append(terminals, Abort{Reason: ReasonTypeError, State: s})
			continue
		}

		for _, st := range konts {
			sk, ok := st.(StoredKont)
			if !ok {
				terminals = append(terminals, Abort{Reason: ReasonTypeError, State: s})
				continue
			}
			for _, outcome := range Step(s, sk.Kont, d.Allocator) {
				switch o := outcome.(type) {
				case Next:
					key := o.State.snapshotKey()
					if visited[key] {
						continue
					}
					visited[key] = true
					worklist = append(worklist, o.State)
				default:
					terminals = append(terminals, outcome)
				}
			}
		}

		log.Debug("reachable: popped configuration",
			zap.Int("worklist", len(worklist)),
			zap.Int("visited", len(visited)),
			zap.Int("terminals", len(terminals)),
		)
	}

	log.Info("reachable: fixed point reached",
		zap.Int("visited", len(visited)),
		zap.Int("terminals", len(terminals)),
	)
	return Result{Terminals: terminals, Truncated: false, Visited: len(visited)}
}

// Run is a convenience wrapper around Reachable for the concrete
// instantiation: with ConcreteAllocator, spec.md §8's "Determinism of
// concrete mode" property guarantees exactly one terminal Outcome, which
// Run returns directly instead of a Result slice.
func Run(e Expression) Outcome {
	d := Driver{Allocator: ConcreteAllocator()}
	res := d.Reachable(Inject(e))
	if len(res.Terminals) != 1 {
		// The concrete machine produced zero terminals (an empty
		// worklist with no Done/Abort ever recorded, which Step's rules
		// do not allow to happen) or more than one: either way there is
		// no single answer to return, so the caller receives an Abort
		// with ReasonTypeError and no State, not a panic.
		return Abort{Reason: ReasonTypeError}
	}
	return res.Terminals[0]
}
