// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cesk

// Store maps an Address to the set of Storables that have ever been
// written there. It is the single place that encodes the join-lattice
// discipline spec.md requires: WeakUpdate never discards a prior
// occupant, it only adds to the set, which is what lets the same Address
// soundly denote the join of many dynamic bindings once alloc collapses
// the address space for the abstract semantics.
//
// Store is treated as immutable: every mutating method returns a new
// Store sharing untouched buckets with its receiver, so a State captured
// earlier in exploration keeps seeing its own contents undisturbed by
// later steps. This mirrors davidkellis-able's Environment.Snapshot
// discipline of copying rather than aliasing shared scope state.
type Store struct {
	cells map[Address][]Storable
}

// NewStore returns an empty store.
func NewStore() Store {
	return Store{cells: map[Address][]Storable{}}
}

// Lookup returns the full set of Storables ever written at a. The step
// relation iterates this set and branches once abstraction has merged
// unrelated dynamic values under one address.
func (s Store) Lookup(a Address) []Storable {
	return s.cells[a]
}

// WeakUpdate joins v into the set at a: the result's set at a is the
// union of the previous contents and {v}. Structurally duplicate entries
// (per equalStorable) are not re-added, keeping the set's growth bounded
// by the number of semantically distinct storables ever written — the
// detail that makes the abstract fixed point actually terminate rather
// than just "be sound in principle".
func (s Store) WeakUpdate(a Address, v Storable) Store {
	existing := s.cells[a]
	for _, old := range existing {
		if old.equalStorable(v) {
			return s
		}
	}
	next := make(map[Address][]Storable, len(s.cells))
	for k, vs := range s.cells {
		next[k] = vs
	}
	grown := make([]Storable, len(existing), len(existing)+1)
	copy(grown, existing)
	next[a] = append(grown, v)
	return Store{cells: next}
}

// StrongUpdate replaces the set at a with {v}, discarding any previous
// occupant. It is sound only when alloc is known to be globally
// injective (the concrete instantiation): under abstraction, where
// distinct dynamic bindings may be collapsed onto the same address,
// strong update would silently drop reachable behavior. Callers driving
// the concrete machine may use it as an optimization in place of
// WeakUpdate; the abstract driver must never call it.
func (s Store) StrongUpdate(a Address, v Storable) Store {
	next := make(map[Address][]Storable, len(s.cells))
	for k, vs := range s.cells {
		next[k] = vs
	}
	next[a] = []Storable{v}
	return Store{cells: next}
}

// snapshot returns a deep, deterministic copy of the store's contents
// keyed by address, used by the driver's structural-equality encoding.
func (s Store) snapshot() map[Address][]Storable {
	out := make(map[Address][]Storable, len(s.cells))
	for k, vs := range s.cells {
		cp := make([]Storable, len(vs))
		copy(cp, vs)
		out[k] = cp
	}
	return out
}
