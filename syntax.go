// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cesk

// Variable names a binder. Variables are opaque and compared only for
// equality; the underlying integer carries no meaning beyond identity.
type Variable int

// Address names a store cell. Like Variable, it is opaque outside the
// allocator that produced it.
type Address int

// Expression is a tagged sum for the machine's surface syntax. Concrete
// variants implement the unexported expr method; dispatch is by type
// switch, never by virtual method, so step.go stays the single place that
// knows the full set of shapes.
type Expression interface {
	expr()
}

// Var references a binder.
type Var struct{ Name Variable }

func (Var) expr() {}

// Abs is a one-argument lambda abstraction.
type Abs struct {
	Param Variable
	Body  Expression
}

func (Abs) expr() {}

// App is function application.
type App struct {
	Fn  Expression
	Arg Expression
}

func (App) expr() {}

// Cst is a string literal.
type Cst struct{ Value string }

func (Cst) expr() {}

// Ptr makes a heap address first-class syntax.
type Ptr struct{ Addr Address }

func (Ptr) expr() {}

// Ref allocates a fresh cell holding the value of its operand.
type Ref struct{ Operand Expression }

func (Ref) expr() {}

// Deref reads the value stored at the address its operand evaluates to.
type Deref struct{ Operand Expression }

func (Deref) expr() {}

// Seq evaluates First, discards its value, then evaluates Second.
type Seq struct {
	First  Expression
	Second Expression
}

func (Seq) expr() {}

// Promisify marks the address its operand evaluates to as a pending
// promise, if it is not one already.
type Promisify struct{ Operand Expression }

func (Promisify) expr() {}

// Resolve fulfills the promise named by Promise with Value, if pending.
type Resolve struct {
	Promise Expression
	Value   Expression
}

func (Resolve) expr() {}

// Reject settles the promise named by Promise as rejected with Value, if
// pending.
type Reject struct {
	Promise Expression
	Value   Expression
}

func (Reject) expr() {}

// OnResolve registers Handler as a fulfill reaction on Promise, returning
// the address of a freshly allocated child promise.
type OnResolve struct {
	Promise Expression
	Handler Expression
}

func (OnResolve) expr() {}

// OnReject registers Handler as a reject reaction on Promise, returning
// the address of a freshly allocated child promise.
type OnReject struct {
	Promise Expression
	Handler Expression
}

func (OnReject) expr() {}

// Link forwards Parent's eventual resolution or rejection to Child.
type Link struct {
	Parent Expression
	Child  Expression
}

func (Link) expr() {}

// IsValue reports whether e is a value: an Abs, a Cst, or a Ptr. Every
// other Expression is a redex or a stuck non-value shape.
func IsValue(e Expression) bool {
	switch e.(type) {
	case Abs, Cst, Ptr:
		return true
	default:
		return false
	}
}
