// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cesk

// State bundles every piece of machine configuration spec.md §3 lists:
// the expression under evaluation, its environment, the store, the
// promise tables, the address of the current continuation, and the
// allocator's time counter. States are never mutated in place — every
// Step successor is a freshly constructed State — so a State captured in
// the driver's visited set stays valid forever.
type State struct {
	Expr    Expression
	Env     Environment
	Store   Store
	Proms   PromiseTables
	KontPtr Address
	Time    Time
}

// kontEmptyAddr is the address inject reserves for the outermost Empty
// continuation, per spec.md §3's Lifecycle paragraph.
const kontEmptyAddr Address = 0

// Inject builds the initial State for evaluating e: it allocates address
// 0 to hold Empty, sets every map to empty, points the current
// continuation at address 0, and starts time at 1.
func Inject(e Expression) State {
	store := NewStore().WeakUpdate(kontEmptyAddr, StoredKont{Kont: Empty{}})
	return State{
		Expr:    e,
		Env:     NewEnvironment(),
		Store:   store,
		Proms:   NewPromiseTables(),
		KontPtr: kontEmptyAddr,
		Time:    1,
	}
}

// snapshotKey returns a canonical, comparable encoding of s for use as a
// driver visited-set key (SPEC_FULL.md §5's resolution of spec.md §4.4's
// unspecified "structural equality" — see that document for the
// rationale). It does not need to be human-readable, only injective over
// the State's data.
func (s State) snapshotKey() string {
	return encodeState(s)
}
