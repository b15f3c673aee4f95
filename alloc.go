// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cesk

// Time is an opaque counter threaded through a State for use only by
// Allocator implementations; the step relation never inspects it itself.
type Time int

// AllocFunc decides the Address at which the next Storable should be
// placed. It must be a pure, deterministic function of the current State
// and Kontinuation — the same inputs must always yield the same Address —
// so that Reachable's successor relation is well defined. A concrete
// instantiation returns a globally fresh address; an abstract one maps
// into a finite domain (a constant, or a tuple of syntactic positions,
// i.e. k-CFA), collapsing unrelated dynamic allocations onto the same
// cell so the Store's WeakUpdate join keeps the reachable set finite.
type AllocFunc func(s State, k Kontinuation) Address

// TickFunc decides the next Time. Like AllocFunc it must be pure and
// deterministic in (State, Kontinuation). Time is part of a State's
// visited-set key, so an abstract instantiation keeps Time within a finite
// range as well as its addresses.
type TickFunc func(s State, k Kontinuation) Time

// Allocator bundles the two abstraction hooks spec.md §4.1 calls out as
// the sole parameters separating the concrete machine from an abstract
// one; nothing else in step.go or driver.go changes between instantiations.
type Allocator struct {
	Alloc AllocFunc
	Tick  TickFunc
}

// ConcreteAllocator returns an Allocator whose Alloc yields a globally
// fresh address derived from the current time and whose Tick increments
// that time by one. Addresses are injective across a single concrete run,
// so Store.StrongUpdate is sound under this allocator and Reachable
// produces exactly one terminal Outcome (spec.md §8, "Determinism of
// concrete mode").
func ConcreteAllocator() Allocator {
	return Allocator{
		Alloc: func(s State, _ Kontinuation) Address { return Address(s.Time) },
		Tick:  func(s State, _ Kontinuation) Time { return s.Time + 1 },
	}
}

// ConstantAllocator returns an Allocator that always places new storables
// at the same Address (0-CFA). This is the simplest abstraction that
// satisfies "alloc maps into a finite set of addresses": the address
// domain is a single point, so the Store's WeakUpdate join must merge
// every dynamic binding for every variable/continuation-site into one
// cell. Tick leaves Time unchanged, so Time never distinguishes two
// otherwise equal States. It is what spec.md §8's omega-combinator
// property exercises.
func ConstantAllocator() Allocator {
	return Allocator{
		Alloc: func(State, Kontinuation) Address { return 0 },
		Tick:  func(s State, _ Kontinuation) Time { return s.Time },
	}
}

// KCFAAllocator returns an Allocator that addresses a fresh binding by its
// tick-time taken modulo k: two dynamic allocations collapse onto the same
// Address exactly when their tick-times, taken modulo k, coincide, and
// Tick itself counts modulo k. k must be at least 1 (smaller values are
// treated as 1); a width of 1 allocates exactly like ConstantAllocator and
// is offered mainly so callers can dial finite address-domain width
// without writing a new Allocator. Addresses and times each range over
// exactly k points, so Reachable over this Allocator always terminates.
func KCFAAllocator(k int) Allocator {
	if k < 1 {
		k = 1
	}
	return Allocator{
		Alloc: func(s State, _ Kontinuation) Address { return Address(int(s.Time) % k) },
		Tick:  func(s State, _ Kontinuation) Time { return Time((int(s.Time) + 1) % k) },
	}
}
