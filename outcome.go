// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cesk

// Outcome is the tagged sum Step and Reachable report successors and
// terminals as. It generalizes kont's Suspension/completed-value duality
// (see step.go in the teacher package this repository grew from) from a
// two-way complete/suspend split to the three-way Next/Done/Abort split
// spec.md §4.3 specifies.
type Outcome interface {
	outcome()
}

// Next is a non-terminal successor: Step should be called again on
// State.
type Next struct{ State State }

func (Next) outcome() {}

// Done is a terminal halt: no rule matched Expr/Kontinuation and both
// queues were empty.
type Done struct{ State State }

func (Done) outcome() {}

// Abort is a terminal halt carrying the reason evaluation could not
// continue. Abort always ends only the branch that produced it; sibling
// branches discovered by other Next outcomes from the same Step call
// continue independently.
type Abort struct {
	Reason AbortReason
	State  State
}

func (Abort) outcome() {}
