package mempool_test

import (
	"testing"

	"github.com/lunfardo314/utxosim/ledger"
	"github.com/lunfardo314/utxosim/ledger/mempool"
	"github.com/stretchr/testify/require"
)

func testBundle(tag byte, amount uint64) *ledger.SpendBundle {
	var parent ledger.CoinID
	var ph ledger.PuzzleHash
	parent[0] = tag
	ph[0] = tag
	return ledger.NewSpendBundle([]*ledger.CoinSpend{
		{Coin: ledger.NewCoin(parent, ph, amount)},
	}, ledger.Signature{})
}

func TestMempool(t *testing.T) {
	t.Run("admit and contains", func(t *testing.T) {
		m := mempool.New()
		b := testBundle(1, 100)
		require.False(t, m.Contains(b))

		m.Admit(b)
		require.True(t, m.Contains(b))
		require.EqualValues(t, 1, m.Len())

		// content equality, not pointer equality
		same := ledger.NewSpendBundle(b.CoinSpends, b.AggregatedSignature)
		require.True(t, m.Contains(same))
	})
	t.Run("drain", func(t *testing.T) {
		m := mempool.New()
		b1, b2 := testBundle(1, 100), testBundle(2, 200)
		m.Admit(b1)
		m.Admit(b2)

		drained := m.Drain()
		require.EqualValues(t, []*ledger.SpendBundle{b1, b2}, drained)
		require.EqualValues(t, 0, m.Len())
		require.False(t, m.Contains(b1))
		require.EqualValues(t, 0, len(m.PendingRemovals()))
	})
	t.Run("pending removals", func(t *testing.T) {
		m := mempool.New()
		b1, b2 := testBundle(1, 100), testBundle(2, 200)
		m.Admit(b1)
		m.Admit(b2)

		reserved := m.PendingRemovals()
		require.EqualValues(t, 2, len(reserved))
		for _, coin := range b1.Removals() {
			_, found := reserved[coin.ID()]
			require.True(t, found)
		}
	})
	t.Run("bundles does not drain", func(t *testing.T) {
		m := mempool.New()
		b := testBundle(1, 100)
		m.Admit(b)
		require.EqualValues(t, 1, len(m.Bundles()))
		require.EqualValues(t, 1, m.Len())
	})
}
