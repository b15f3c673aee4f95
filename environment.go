// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cesk

// Environment maps a Variable to the Address holding its current binding.
// Insertion order carries no meaning; only the key set and its mapped
// addresses matter, so Environment is an ordinary value-semantics map
// wrapper rather than an ordered structure.
type Environment map[Variable]Address

// NewEnvironment returns an empty environment.
func NewEnvironment() Environment {
	return Environment{}
}

// Lookup returns the address bound to v and whether v is bound at all.
func (e Environment) Lookup(v Variable) (Address, bool) {
	a, ok := e[v]
	return a, ok
}

// Bind returns a new environment equal to e with v additionally (or newly)
// bound to a. e itself is never mutated, so a caller holding e from an
// earlier configuration continues to see its original bindings.
func (e Environment) Bind(v Variable, a Address) Environment {
	out := make(Environment, len(e)+1)
	for k, val := range e {
		out[k] = val
	}
	out[v] = a
	return out
}
