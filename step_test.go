// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cesk_test

import (
	"testing"

	"code.hybscloud.com/cesk"
)

// --- spec.md §8 seed scenarios, checked via cesk.Run (concrete mode). ---

func TestRunIdentity(t *testing.T) {
	prog := cesk.App{
		Fn:  cesk.Abs{Param: 0, Body: cesk.Var{Name: 0}},
		Arg: cesk.Cst{Value: "hi"},
	}
	done, ok := cesk.Run(prog).(cesk.Done)
	if !ok {
		t.Fatalf("expected Done, got %#v", cesk.Run(prog))
	}
	if got, ok := done.State.Expr.(cesk.Cst); !ok || got.Value != "hi" {
		t.Fatalf("expected Cst(\"hi\"), got %#v", done.State.Expr)
	}
}

func TestRunKCombinator(t *testing.T) {
	k := cesk.Abs{Param: 0, Body: cesk.Abs{Param: 1, Body: cesk.Var{Name: 0}}}
	prog := cesk.App{
		Fn:  cesk.App{Fn: k, Arg: cesk.Cst{Value: "a"}},
		Arg: cesk.Cst{Value: "b"},
	}
	done, ok := cesk.Run(prog).(cesk.Done)
	if !ok {
		t.Fatalf("expected Done, got %#v", cesk.Run(prog))
	}
	if got, ok := done.State.Expr.(cesk.Cst); !ok || got.Value != "a" {
		t.Fatalf("expected Cst(\"a\"), got %#v", done.State.Expr)
	}
}

func TestRunRefDeref(t *testing.T) {
	prog := cesk.Deref{Operand: cesk.Ref{Operand: cesk.Cst{Value: "x"}}}
	done, ok := cesk.Run(prog).(cesk.Done)
	if !ok {
		t.Fatalf("expected Done, got %#v", cesk.Run(prog))
	}
	if got, ok := done.State.Expr.(cesk.Cst); !ok || got.Value != "x" {
		t.Fatalf("expected Cst(\"x\"), got %#v", done.State.Expr)
	}
	// Exactly one address holds a StoredValue(Cst("x"), _) in concrete
	// mode: Empty's continuation occupies address 0 and the KDeref/KRef
	// continuations occupy two more, so Ref's cell is the only address
	// holding a StoredValue.
	found := 0
	for a := cesk.Address(0); a < 8; a++ {
		for _, st := range done.State.Store.Lookup(a) {
			if sv, ok := st.(cesk.StoredValue); ok {
				if c, ok := sv.Value.(cesk.Cst); ok && c.Value == "x" {
					found++
				}
			}
		}
	}
	if found != 1 {
		t.Fatalf("expected exactly one StoredValue(Cst(\"x\")), found %d", found)
	}
}

func TestRunSeq(t *testing.T) {
	prog := cesk.Seq{First: cesk.Cst{Value: "a"}, Second: cesk.Cst{Value: "b"}}
	done, ok := cesk.Run(prog).(cesk.Done)
	if !ok {
		t.Fatalf("expected Done, got %#v", cesk.Run(prog))
	}
	if got, ok := done.State.Expr.(cesk.Cst); !ok || got.Value != "b" {
		t.Fatalf("expected Cst(\"b\"), got %#v", done.State.Expr)
	}
}

func TestRunUnboundVariable(t *testing.T) {
	prog := cesk.Var{Name: 99}
	abort, ok := cesk.Run(prog).(cesk.Abort)
	if !ok {
		t.Fatalf("expected Abort, got %#v", cesk.Run(prog))
	}
	if abort.Reason != cesk.ReasonUnboundVariable {
		t.Fatalf("expected ReasonUnboundVariable, got %v", abort.Reason)
	}
}

func TestRunDerefNonPointer(t *testing.T) {
	prog := cesk.Deref{Operand: cesk.Cst{Value: "not a pointer"}}
	abort, ok := cesk.Run(prog).(cesk.Abort)
	if !ok {
		t.Fatalf("expected Abort, got %#v", cesk.Run(prog))
	}
	if abort.Reason != cesk.ReasonTypeError {
		t.Fatalf("expected ReasonTypeError, got %v", abort.Reason)
	}
}

func TestRunResolveNeverPromisified(t *testing.T) {
	prog := cesk.Resolve{Promise: cesk.Ref{Operand: cesk.Cst{Value: "p"}}, Value: cesk.Cst{Value: "v"}}
	abort, ok := cesk.Run(prog).(cesk.Abort)
	if !ok {
		t.Fatalf("expected Abort, got %#v", cesk.Run(prog))
	}
	if abort.Reason != cesk.ReasonPromiseMisuse {
		t.Fatalf("expected ReasonPromiseMisuse, got %v", abort.Reason)
	}
}

// seedPromiseExample1 exercises spec.md §8 seed 5: a promise is
// promisified, given a fulfill reaction that refs its argument, then
// resolved; the reaction's child promise ends up with a StoredValue
// ref-ing "hello" reachable from its resolution.
func seedPromiseExample1() cesk.Expression {
	promiseVar := cesk.Var{Name: 0}
	body := cesk.Seq{
		First: cesk.Promisify{Operand: promiseVar},
		Second: cesk.Seq{
			First: cesk.OnResolve{
				Promise: promiseVar,
				Handler: cesk.Abs{Param: 42, Body: cesk.Ref{Operand: cesk.Var{Name: 42}}},
			},
			Second: cesk.Resolve{Promise: promiseVar, Value: cesk.Cst{Value: "hello"}},
		},
	}
	return cesk.App{
		Fn:  cesk.Abs{Param: 0, Body: body},
		Arg: cesk.Ref{Operand: cesk.Cst{Value: "Promise1"}},
	}
}

func TestReachablePromiseExample1(t *testing.T) {
	d := cesk.Driver{Allocator: cesk.ConcreteAllocator()}
	res := d.Reachable(cesk.Inject(seedPromiseExample1()))

	var dones []cesk.Done
	for _, o := range res.Terminals {
		if done, ok := o.(cesk.Done); ok {
			dones = append(dones, done)
		}
	}
	if len(dones) == 0 {
		t.Fatalf("expected at least one Done terminal, terminals=%#v", res.Terminals)
	}

	foundChildRef := false
	for _, done := range dones {
		for a := cesk.Address(0); a < 32; a++ {
			for _, st := range done.State.Store.Lookup(a) {
				sv, ok := st.(cesk.StoredValue)
				if !ok {
					continue
				}
				if c, ok := sv.Value.(cesk.Cst); ok && c.Value == "hello" {
					foundChildRef = true
				}
			}
		}
	}
	if !foundChildRef {
		t.Fatal("expected a StoredValue(Cst(\"hello\")) reachable from a Done terminal")
	}
}

// seedPromiseExample2 exercises spec.md §8 seed 6 ("Example-2"): two
// promises x and y are linked so that x's resolution propagates to y,
// with a fulfill reaction already registered on y.
func seedPromiseExample2() cesk.Expression {
	x := cesk.Var{Name: 0}
	y := cesk.Var{Name: 1}
	body := cesk.Seq{
		First: cesk.Promisify{Operand: x},
		Second: cesk.Seq{
			First: cesk.Promisify{Operand: y},
			Second: cesk.Seq{
				First: cesk.Link{Parent: x, Child: y},
				Second: cesk.Seq{
					First:  cesk.OnResolve{Promise: y, Handler: cesk.Abs{Param: 2, Body: cesk.Var{Name: 2}}},
					Second: cesk.Resolve{Promise: x, Value: cesk.Cst{Value: "hello"}},
				},
			},
		},
	}
	return cesk.App{
		Fn: cesk.Abs{
			Param: 0,
			Body: cesk.App{
				Fn:  cesk.Abs{Param: 1, Body: body},
				Arg: cesk.Ref{Operand: cesk.Cst{Value: "PromiseY"}},
			},
		},
		Arg: cesk.Ref{Operand: cesk.Cst{Value: "PromiseX"}},
	}
}

// promiseAddrOf resolves the promise address that variable v's binding
// points to in s: v is bound (by Abs application) to a Store address
// whose StoredValue wraps the Ptr a Ref produced, per stepKApp2.
func promiseAddrOf(t *testing.T, s cesk.State, v cesk.Variable) cesk.Address {
	t.Helper()
	bindAddr, ok := s.Env.Lookup(v)
	if !ok {
		t.Fatalf("variable %v not bound in final Env", v)
	}
	for _, st := range s.Store.Lookup(bindAddr) {
		sv, ok := st.(cesk.StoredValue)
		if !ok {
			continue
		}
		if ptr, ok := sv.Value.(cesk.Ptr); ok {
			return ptr.Addr
		}
	}
	t.Fatalf("no Ptr found for variable %v at address %v", v, bindAddr)
	return 0
}

// TestReachablePromiseExample2LinkPropagation checks that Link's
// propagation actually reaches y, not merely that x (the promise Resolve
// was called on directly) ends up fulfilled — a prior version of this
// test only checked "some cell is Fulfilled(hello)", which x's own
// settlement trivially satisfies regardless of whether E-Link-Loop ever
// ran.
func TestReachablePromiseExample2LinkPropagation(t *testing.T) {
	d := cesk.Driver{Allocator: cesk.ConcreteAllocator()}
	res := d.Reachable(cesk.Inject(seedPromiseExample2()))

	var dones []cesk.Done
	for _, o := range res.Terminals {
		if done, ok := o.(cesk.Done); ok {
			dones = append(dones, done)
		}
	}
	if len(dones) == 0 {
		t.Fatalf("expected at least one Done terminal, terminals=%#v", res.Terminals)
	}

	yFulfilledWithHello := false
	for _, done := range dones {
		yAddr := promiseAddrOf(t, done.State, 1)
		cell, known := done.State.Proms.State[yAddr]
		if !known {
			t.Fatalf("y's promise address %v has no PromiseCell", yAddr)
		}
		if cell.Status != cesk.StatusFulfilled {
			continue
		}
		if c, ok := cell.Value.Value.(cesk.Cst); ok && c.Value == "hello" {
			yFulfilledWithHello = true
		}
	}
	if !yFulfilledWithHello {
		t.Fatal("expected y's promise cell to be Fulfilled(Cst(\"hello\")) via Link propagation from x")
	}
}

// TestOmegaFiniteUnderConstantAllocator exercises spec.md §8's
// "No strong-update surprise" property: the omega combinator
// (λx. x x)(λx. x x) produces a finite, small reachable set when alloc is
// constant, because weak update joins every dynamic allocation onto the
// same address instead of growing the store without bound.
func TestOmegaFiniteUnderConstantAllocator(t *testing.T) {
	omega := cesk.Abs{Param: 0, Body: cesk.App{Fn: cesk.Var{Name: 0}, Arg: cesk.Var{Name: 0}}}
	prog := cesk.App{Fn: omega, Arg: omega}

	d := cesk.Driver{Allocator: cesk.ConstantAllocator(), Bound: 10000}
	res := d.Reachable(cesk.Inject(prog))

	if res.Truncated {
		t.Fatalf("expected the constant-allocator fixed point to converge within bound, got truncated with visited=%d", res.Visited)
	}
	if res.Visited > 64 {
		t.Fatalf("expected a small reachable set under ConstantAllocator, got visited=%d", res.Visited)
	}
}

func TestFiniteReachabilityUnderKCFA(t *testing.T) {
	identity := cesk.Abs{Param: 0, Body: cesk.Var{Name: 0}}
	prog := cesk.App{Fn: identity, Arg: cesk.Cst{Value: "v"}}

	d := cesk.Driver{Allocator: cesk.KCFAAllocator(2), Bound: 10000}
	res := d.Reachable(cesk.Inject(prog))
	if res.Truncated {
		t.Fatal("expected reachability to converge under a finite k-CFA address domain")
	}
}
