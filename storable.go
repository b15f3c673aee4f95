// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cesk

// Storable is a tagged sum for what may occupy a Store cell: either a
// continuation (reached only through a continuation Address) or a value
// closed over its defining environment (reached through a Ptr or a
// variable binding).
type Storable interface {
	storable()
	equalStorable(Storable) bool
}

// StoredKont wraps a Kontinuation for storage at a continuation address.
type StoredKont struct{ Kont Kontinuation }

func (StoredKont) storable() {}

func (s StoredKont) equalStorable(other Storable) bool {
	o, ok := other.(StoredKont)
	return ok && kontEqual(s.Kont, o.Kont)
}

// StoredValue wraps a value Expression together with the Environment it
// closes over, so a later reaction handler re-evaluates free variables of
// the value in the scope where it was produced, not the scope of whatever
// drains a queue.
type StoredValue struct {
	Value Expression
	Env   Environment
}

func (StoredValue) storable() {}

func (s StoredValue) equalStorable(other Storable) bool {
	o, ok := other.(StoredValue)
	return ok && exprEqual(s.Value, o.Value) && envEqual(s.Env, o.Env)
}
