// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "code.hybscloud.com/cesk"

// Seed is one of the six literal programs spec.md §8 enumerates, built by
// direct cesk.Expression construction rather than by parsing text — per
// SPEC_FULL.md §3's note that no component in this repository has a use
// for a parser generator, the core's scope deliberately excludes one.
type Seed struct {
	Name        string
	Description string
	Program     cesk.Expression
}

// Variable numbering below follows spec.md §8's literal notation (V(0),
// V(1), V(42), ...); the numbers carry no meaning beyond distinguishing
// binders within one seed.
const (
	vIdentity   cesk.Variable = 0
	vSecond     cesk.Variable = 1
	vHandlerArg cesk.Variable = 42
	vBoundX     cesk.Variable = 0
	vBoundY     cesk.Variable = 1
	vEcho       cesk.Variable = 2
)

// Seeds returns the six programs of spec.md §8, in the order listed there.
func Seeds() []Seed {
	return []Seed{
		seedIdentity(),
		seedKCombinator(),
		seedRefDeref(),
		seedSeq(),
		seedPromiseExample1(),
		seedPromiseExample2(),
	}
}

// seedIdentity is spec.md §8 seed 1: App(Abs(V(0), Var(V(0))), Cst("hi"))
// terminates with Done("hi").
func seedIdentity() Seed {
	return Seed{
		Name:        "identity",
		Description: `App(Abs(V(0), Var(V(0))), Cst("hi")) terminates with Cst("hi")`,
		Program: cesk.App{
			Fn:  cesk.Abs{Param: vIdentity, Body: cesk.Var{Name: vIdentity}},
			Arg: cesk.Cst{Value: "hi"},
		},
	}
}

// seedKCombinator is spec.md §8 seed 2: the K combinator applied to two
// constants, terminating with the first.
func seedKCombinator() Seed {
	k := cesk.Abs{
		Param: vIdentity,
		Body:  cesk.Abs{Param: vSecond, Body: cesk.Var{Name: vIdentity}},
	}
	return Seed{
		Name:        "k-combinator",
		Description: `K combinator applied to Cst("a") then Cst("b") terminates with Cst("a")`,
		Program: cesk.App{
			Fn:  cesk.App{Fn: k, Arg: cesk.Cst{Value: "a"}},
			Arg: cesk.Cst{Value: "b"},
		},
	}
}

// seedRefDeref is spec.md §8 seed 3: Deref(Ref(Cst("x"))) terminates with
// Cst("x") and exactly one store address holding it.
func seedRefDeref() Seed {
	return Seed{
		Name:        "ref-deref",
		Description: `Deref(Ref(Cst("x"))) terminates with Cst("x")`,
		Program:     cesk.Deref{Operand: cesk.Ref{Operand: cesk.Cst{Value: "x"}}},
	}
}

// seedSeq is spec.md §8 seed 4: Seq(Cst("a"), Cst("b")) terminates with
// Cst("b").
func seedSeq() Seed {
	return Seed{
		Name:        "seq",
		Description: `Seq(Cst("a"), Cst("b")) terminates with Cst("b")`,
		Program:     cesk.Seq{First: cesk.Cst{Value: "a"}, Second: cesk.Cst{Value: "b"}},
	}
}

// seedPromiseExample1 is spec.md §8 seed 5 ("Example-1"): a single promise
// promisified, given a fulfill reaction, then resolved, all within one
// lambda body closing over the promise's pointer.
func seedPromiseExample1() Seed {
	promiseVar := cesk.Var{Name: vIdentity}
	body := cesk.Seq{
		First: cesk.Promisify{Operand: promiseVar},
		Second: cesk.Seq{
			First: cesk.OnResolve{
				Promise: promiseVar,
				Handler: cesk.Abs{Param: vHandlerArg, Body: cesk.Ref{Operand: cesk.Var{Name: vHandlerArg}}},
			},
			Second: cesk.Resolve{Promise: promiseVar, Value: cesk.Cst{Value: "hello"}},
		},
	}
	return Seed{
		Name: "promise-example-1",
		Description: `a promise is promisified, given a fulfill reaction that ` +
			`refs its argument, then resolved to Cst("hello"); the child ` +
			`promise created by OnResolve ends up holding a ref to "hello"`,
		Program: cesk.App{
			Fn:  cesk.Abs{Param: vIdentity, Body: body},
			Arg: cesk.Ref{Operand: cesk.Cst{Value: "Promise1"}},
		},
	}
}

// seedPromiseExample2 is spec.md §8 seed 6 ("Example-2"): two promises x
// and y, linked so that x's resolution propagates to y, with a fulfill
// reaction registered on y before x ever resolves. Resolving x with
// "hello" must, through LinkQueue -> Resolve(y) -> ReactionQueue drain,
// end with y's child promise fulfilled with "hello".
func seedPromiseExample2() Seed {
	x := cesk.Var{Name: vBoundX}
	y := cesk.Var{Name: vBoundY}
	body := cesk.Seq{
		First: cesk.Promisify{Operand: x},
		Second: cesk.Seq{
			First: cesk.Promisify{Operand: y},
			Second: cesk.Seq{
				First: cesk.Link{Parent: x, Child: y},
				Second: cesk.Seq{
					First:  cesk.OnResolve{Promise: y, Handler: cesk.Abs{Param: vEcho, Body: cesk.Var{Name: vEcho}}},
					Second: cesk.Resolve{Promise: x, Value: cesk.Cst{Value: "hello"}},
				},
			},
		},
	}
	return Seed{
		Name: "promise-example-2",
		Description: `two promises x and y are linked (x -> y), y gets a ` +
			`fulfill reaction, then x resolves to Cst("hello"); the link ` +
			`queue propagates the resolution to y and the reaction queue ` +
			`drains it to y's child promise`,
		Program: cesk.App{
			Fn: cesk.Abs{
				Param: vBoundX,
				Body: cesk.App{
					Fn:  cesk.Abs{Param: vBoundY, Body: body},
					Arg: cesk.Ref{Operand: cesk.Cst{Value: "PromiseY"}},
				},
			},
			Arg: cesk.Ref{Operand: cesk.Cst{Value: "PromiseX"}},
		},
	}
}

// Find looks up a seed by name.
func Find(name string) (Seed, bool) {
	for _, s := range Seeds() {
		if s.Name == name {
			return s, true
		}
	}
	return Seed{}, false
}
