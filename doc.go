// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cesk implements an abstract CESK*-style machine for a small
// lambda calculus extended with string constants, mutable heap references,
// sequencing, and an ECMAScript-flavored promise model.
//
// # CESK*
//
// The "*" names the design choice that makes the machine finitely
// representable: continuations are not Go call-stack frames, they are data
// allocated in the same [Store] as ordinary values, addressed the same way.
// A [State] therefore bundles a current expression, an [Environment], a
// [Store], the promise tables, and the address of the current
// [Kontinuation] — nothing else. Stepping never recurses into the host
// call stack; [Step] takes a [State] plus the continuation fetched from its
// store and returns a set of successor [State] values (or a terminal
// [Outcome]).
//
// # Concrete vs. abstract
//
// The same [Step] function serves two interpreters. Supplying a concrete
// [Allocator] (globally fresh addresses, so every weak update writes an
// empty cell) makes [Reachable] deterministic: exactly one terminal
// [Outcome] per run. Supplying an abstract [Allocator] whose addresses and
// times both range over finite domains makes
// [Reachable] a sound, terminating fixed-point computation over a
// nondeterministic step relation — every concrete run is one path through
// the abstract one.
//
// # Promises
//
// [Promisify], [Resolve], [Reject], [OnResolve], [OnReject] and [Link]
// implement a three-state (pending/fulfilled/rejected) promise with
// ordered fulfill/reject reaction tables, a link table for promise
// chaining, and two FIFO queues ([PromiseTables] LinkQueue and
// ReactionQueue): the link queue is drained as soon as it is non-empty,
// the reaction queue whenever the machine has a value in hand — see
// [Step] for the exact drain order.
//
// # Scope
//
// This package has no parser, no pretty-printer, and no CLI: it consumes
// an [Expression] AST built by the caller and exposes [Step] and
// [Reachable]. The cmd/ceskrun command is a thin external shell built on
// top of this contract.
package cesk
