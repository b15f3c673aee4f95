// Copyright 2026 The CESK Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cesk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/cesk"
)

// TestStoreWeakUpdateMonotone exercises spec.md §8's "Store monotonicity"
// property: WeakUpdate only ever adds to the set at an address, so a
// lookup after N weak updates at the same address contains every
// structurally distinct value written so far, in the order written.
func TestStoreWeakUpdateMonotone(t *testing.T) {
	s := cesk.NewStore()
	a := cesk.Address(0)

	s = s.WeakUpdate(a, cesk.StoredValue{Value: cesk.Cst{Value: "x"}})
	require.Len(t, s.Lookup(a), 1)

	s = s.WeakUpdate(a, cesk.StoredValue{Value: cesk.Cst{Value: "y"}})
	require.Len(t, s.Lookup(a), 2)

	assert.Equal(t, cesk.Cst{Value: "x"}, s.Lookup(a)[0].(cesk.StoredValue).Value)
	assert.Equal(t, cesk.Cst{Value: "y"}, s.Lookup(a)[1].(cesk.StoredValue).Value)
}

// TestStoreWeakUpdateDedupes checks that writing a structurally identical
// Storable twice does not grow the set — the detail that bounds the
// abstract fixed point's growth to the number of semantically distinct
// values, not the number of allocation events.
func TestStoreWeakUpdateDedupes(t *testing.T) {
	s := cesk.NewStore()
	a := cesk.Address(0)

	s = s.WeakUpdate(a, cesk.StoredValue{Value: cesk.Cst{Value: "x"}})
	s = s.WeakUpdate(a, cesk.StoredValue{Value: cesk.Cst{Value: "x"}})

	assert.Len(t, s.Lookup(a), 1)
}

// TestStoreWeakUpdateLeavesOtherAddressesUntouched confirms WeakUpdate's
// copy-on-write discipline: updating one address never perturbs another
// address's set, nor the receiver's own view of the address it wrote.
func TestStoreWeakUpdateLeavesOtherAddressesUntouched(t *testing.T) {
	s0 := cesk.NewStore()
	s0 = s0.WeakUpdate(0, cesk.StoredValue{Value: cesk.Cst{Value: "first"}})

	s1 := s0.WeakUpdate(1, cesk.StoredValue{Value: cesk.Cst{Value: "second"}})

	assert.Len(t, s0.Lookup(1), 0, "s0 must not see s1's write")
	assert.Len(t, s1.Lookup(0), 1)
	assert.Len(t, s1.Lookup(1), 1)
}

// TestStoreStrongUpdateReplaces checks StrongUpdate's concrete-mode
// semantics: the prior occupant at an address is discarded entirely, not
// joined.
func TestStoreStrongUpdateReplaces(t *testing.T) {
	s := cesk.NewStore()
	s = s.WeakUpdate(0, cesk.StoredValue{Value: cesk.Cst{Value: "old"}})
	s = s.StrongUpdate(0, cesk.StoredValue{Value: cesk.Cst{Value: "new"}})

	got := s.Lookup(0)
	require.Len(t, got, 1)
	assert.Equal(t, cesk.Cst{Value: "new"}, got[0].(cesk.StoredValue).Value)
}

// TestStoreLookupMissingAddress checks the empty-set default for an
// address nothing has ever written to.
func TestStoreLookupMissingAddress(t *testing.T) {
	s := cesk.NewStore()
	assert.Empty(t, s.Lookup(42))
}
