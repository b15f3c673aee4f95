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

// TestPromisifyIsIdempotent checks spec.md §4.3's note that re-promisifying
// an already-promisified address is a no-op: it must not reset a Fulfilled
// promise back to Pending.
func TestPromisifyIsIdempotent(t *testing.T) {
	tbl := cesk.NewPromiseTables()
	tbl = tbl.Promisify(0)
	tbl = tbl.Settle(0, cesk.PromiseValue{Value: cesk.Cst{Value: "v"}}, false)

	tbl = tbl.Promisify(0)

	require.Equal(t, cesk.StatusFulfilled, tbl.State[0].Status)
}

// TestSettleDrainsReactionsInOrder exercises spec.md §8's queue-ordering
// property: settling a promise with k registered fulfill reactions and m
// links grows ReactionQueue by k and LinkQueue by m, both in the order the
// reactions/links were registered.
func TestSettleDrainsReactionsInOrder(t *testing.T) {
	tbl := cesk.NewPromiseTables()
	tbl = tbl.Promisify(0)

	tbl = tbl.RegisterReaction(0, cesk.Reaction{Handler: cesk.Cst{Value: "first"}, Child: 10}, false)
	tbl = tbl.RegisterReaction(0, cesk.Reaction{Handler: cesk.Cst{Value: "second"}, Child: 11}, false)
	tbl = tbl.Link(0, 20)
	tbl = tbl.Link(0, 21)

	tbl = tbl.Settle(0, cesk.PromiseValue{Value: cesk.Cst{Value: "v"}}, false)

	require.Len(t, tbl.ReactionQueue, 2)
	assert.Equal(t, cesk.Cst{Value: "first"}, tbl.ReactionQueue[0].Handler)
	assert.Equal(t, cesk.Address(10), tbl.ReactionQueue[0].Child)
	assert.Equal(t, cesk.Cst{Value: "second"}, tbl.ReactionQueue[1].Handler)
	assert.Equal(t, cesk.Address(11), tbl.ReactionQueue[1].Child)

	require.Len(t, tbl.LinkQueue, 2)
	assert.Equal(t, cesk.Address(20), tbl.LinkQueue[0].Target)
	assert.Equal(t, cesk.Address(21), tbl.LinkQueue[1].Target)
}

// TestSettleOnlyDrainsMatchingTable checks that settling with rejected=false
// enqueues only the FulfillReacts entries; the RejectReacts entries at the
// same address are dropped without being enqueued.
func TestSettleOnlyDrainsMatchingTable(t *testing.T) {
	tbl := cesk.NewPromiseTables()
	tbl = tbl.Promisify(0)
	tbl = tbl.RegisterReaction(0, cesk.Reaction{Handler: cesk.Cst{Value: "onFulfill"}, Child: 10}, false)
	tbl = tbl.RegisterReaction(0, cesk.Reaction{Handler: cesk.Cst{Value: "onReject"}, Child: 11}, true)

	tbl = tbl.Settle(0, cesk.PromiseValue{Value: cesk.Cst{Value: "v"}}, false)

	require.Len(t, tbl.ReactionQueue, 1)
	assert.Equal(t, cesk.Cst{Value: "onFulfill"}, tbl.ReactionQueue[0].Handler)
}

// TestSettleIsNoopOnceSettled checks that a promise settled once cannot be
// re-settled (its PromiseCell stays exactly as it was after the first
// Settle).
func TestSettleIsNoopOnceSettled(t *testing.T) {
	tbl := cesk.NewPromiseTables()
	tbl = tbl.Promisify(0)
	tbl = tbl.Settle(0, cesk.PromiseValue{Value: cesk.Cst{Value: "first"}}, false)

	before := tbl.State[0]
	tbl = tbl.Settle(0, cesk.PromiseValue{Value: cesk.Cst{Value: "second"}}, true)

	assert.Equal(t, before, tbl.State[0])
}

// TestPopLinkAndPopReactionAreFIFO checks the queues pop in the order
// Settle appended them, matching spec.md §4.3's E-Link-Loop/E-Reaction-Loop
// rules which always take the head.
func TestPopLinkAndPopReactionAreFIFO(t *testing.T) {
	tbl := cesk.NewPromiseTables()
	tbl = tbl.Promisify(0)
	tbl = tbl.Link(0, 1)
	tbl = tbl.Link(0, 2)
	tbl = tbl.Settle(0, cesk.PromiseValue{Value: cesk.Cst{Value: "v"}}, false)

	head, tbl := tbl.PopLink()
	assert.Equal(t, cesk.Address(1), head.Target)
	head, _ = tbl.PopLink()
	assert.Equal(t, cesk.Address(2), head.Target)
}
