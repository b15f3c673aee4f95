// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cesk

import "reflect"

// exprEqual, envEqual and kontEqual give the Store and the driver's
// visited set a notion of structural equality over the tagged sums. The
// sums are plain data (no functions, no channels), so reflect.DeepEqual
// is exact here — the same tool the pack reaches for in fixture and
// parser comparisons (see davidkellis-able's fixtures_test.go and
// parser_test.go) rather than a hand-rolled per-variant comparator.

func exprEqual(a, b Expression) bool {
	return reflect.DeepEqual(a, b)
}

func envEqual(a, b Environment) bool {
	return reflect.DeepEqual(a, b)
}

func kontEqual(a, b Kontinuation) bool {
	return reflect.DeepEqual(a, b)
}
