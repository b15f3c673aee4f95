// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cesk

// AbortReason is the closed set of reasons a step can abort an
// exploration branch, per spec.md §7. It is a string type (not a Go
// error) because Abort is a data outcome, not an escaping exception: see
// Outcome and Step.
type AbortReason string

const (
	// ReasonUnboundVariable: the environment lacks the referenced
	// variable.
	ReasonUnboundVariable AbortReason = "Unbound variable"

	// ReasonNonValueStorable: a control-flow path tried to treat a
	// stored continuation as a value, e.g. dereferencing the address of
	// a continuation.
	ReasonNonValueStorable AbortReason = "Non-value storable"

	// ReasonPromiseMisuse: resolve/reject/onResolve/onReject targeted an
	// address that was never promisified.
	ReasonPromiseMisuse AbortReason = "Promise misuse"

	// ReasonTypeError: a structurally-impossible combination occurred —
	// e.g. KApp2 awaiting a non-Abs value, or a missing continuation or
	// heap address. These can arise only from malformed input or from an
	// unsound abstraction merging incompatible values onto one address.
	ReasonTypeError AbortReason = "Type error"
)
