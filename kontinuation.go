// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cesk

// Kontinuation is a tagged sum representing an evaluation context. Unlike
// a closure-based continuation, a Kontinuation is inert data: it carries
// exactly the fields needed to resume evaluation plus the Address of its
// parent, which Reachable fetches from the Store rather than following a
// Go pointer. This is the "*" of CESK* — continuations live in the Store, so
// the full machine state is first-order and finitely representable under
// a finite Allocator.
//
// The first-step form of every two-argument construct (KApp1, KResolve1,
// KReject1, KOnResolve1, KOnReject1, KLink1) closes over the sibling
// sub-expression that has not been evaluated yet, plus the Environment it
// must be evaluated in, plus the parent continuation's Address. The
// second-step form carries the already-evaluated first operand plus the
// parent Address (KApp2 also keeps the function's Environment).
type Kontinuation interface {
	kont()
}

// Empty is the outermost continuation: "there is nothing left to do".
type Empty struct{}

func (Empty) kont() {}

// KApp1 awaits the function value of an App; Arg is the still-unevaluated
// argument expression, closed over Env.
type KApp1 struct {
	Arg    Expression
	Env    Environment
	Parent Address
}

func (KApp1) kont() {}

// KApp2 awaits the argument value of an App; Fn is the already-evaluated
// function value, closed over Env (its defining environment, not the
// argument's).
type KApp2 struct {
	Fn     Expression
	Env    Environment
	Parent Address
}

func (KApp2) kont() {}

// KRef awaits the operand value of a Ref.
type KRef struct{ Parent Address }

func (KRef) kont() {}

// KDeref awaits the operand value of a Deref.
type KDeref struct{ Parent Address }

func (KDeref) kont() {}

// KSeq awaits First's value in a Seq; Second is evaluated next under Env.
type KSeq struct {
	Second Expression
	Env    Environment
	Parent Address
}

func (KSeq) kont() {}

// KPromisify awaits the operand value of a Promisify.
type KPromisify struct{ Parent Address }

func (KPromisify) kont() {}

// KResolve1 awaits the promise-operand value of a Resolve; Value is the
// still-unevaluated resolution value.
type KResolve1 struct {
	Value  Expression
	Env    Environment
	Parent Address
}

func (KResolve1) kont() {}

// KResolve2 awaits the resolution value of a Resolve; Promise is the
// already-evaluated promise pointer.
type KResolve2 struct {
	Promise Expression
	Parent  Address
}

func (KResolve2) kont() {}

// KReject1 is the Reject counterpart of KResolve1.
type KReject1 struct {
	Value  Expression
	Env    Environment
	Parent Address
}

func (KReject1) kont() {}

// KReject2 is the Reject counterpart of KResolve2.
type KReject2 struct {
	Promise Expression
	Parent  Address
}

func (KReject2) kont() {}

// KOnResolve1 awaits the promise-operand value of an OnResolve.
type KOnResolve1 struct {
	Handler Expression
	Env     Environment
	Parent  Address
}

func (KOnResolve1) kont() {}

// KOnResolve2 awaits the handler value of an OnResolve.
type KOnResolve2 struct {
	Promise Expression
	Parent  Address
}

func (KOnResolve2) kont() {}

// KOnReject1 is the OnReject counterpart of KOnResolve1.
type KOnReject1 struct {
	Handler Expression
	Env     Environment
	Parent  Address
}

func (KOnReject1) kont() {}

// KOnReject2 is the OnReject counterpart of KOnResolve2.
type KOnReject2 struct {
	Promise Expression
	Parent  Address
}

func (KOnReject2) kont() {}

// KLink1 awaits the parent-promise value of a Link.
type KLink1 struct {
	Child  Expression
	Env    Environment
	Parent Address
}

func (KLink1) kont() {}

// KLink2 awaits the child-promise value of a Link.
type KLink2 struct {
	ParentPromise Expression
	Parent        Address
}

func (KLink2) kont() {}
