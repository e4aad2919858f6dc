package validate_test

import (
	"testing"

	"github.com/lunfardo314/utxosim/ledger"
	"github.com/lunfardo314/utxosim/ledger/state"
	"github.com/lunfardo314/utxosim/ledger/validate"
	"github.com/stretchr/testify/require"
)

func coinID(tag byte) (ret ledger.CoinID) {
	for i := range ret {
		ret[i] = tag
	}
	return
}

func puzzleHash(tag byte) (ret ledger.PuzzleHash) {
	for i := range ret {
		ret[i] = tag
	}
	return
}

func spendOf(coin ledger.Coin, payouts ...ledger.CoinPayout) *ledger.CoinSpend {
	return &ledger.CoinSpend{
		Coin:     coin,
		Solution: []byte("solution"),
		Payouts:  payouts,
	}
}

func bundleOf(spends ...*ledger.CoinSpend) *ledger.SpendBundle {
	return ledger.NewSpendBundle(spends, ledger.Signature{})
}

func TestDefaultValidator(t *testing.T) {
	par := ledger.DefaultParams()
	fn := validate.Default(par)
	noReserved := map[ledger.CoinID]struct{}{}

	cs := state.NewInMemory([]byte("validate test"))
	c1 := ledger.NewCoin(coinID(1), puzzleHash(1), 100)
	spent := ledger.NewCoin(coinID(2), puzzleHash(1), 50)
	require.NoError(t, cs.Add(c1, 0, 1000, false))
	require.NoError(t, cs.Add(spent, 0, 1000, false))
	require.NoError(t, cs.Spend(spent, 1, 2000))

	t.Run("success with fee", func(t *testing.T) {
		b := bundleOf(spendOf(c1, ledger.CoinPayout{PuzzleHash: puzzleHash(2), Amount: 90}))
		cost, status, code := fn(b, noReserved, cs, 1)
		require.EqualValues(t, ledger.StatusSuccess, status)
		require.EqualValues(t, ledger.CodeNone, code)
		require.True(t, cost > 0)
	})
	t.Run("empty bundle succeeds", func(t *testing.T) {
		cost, status, code := fn(bundleOf(), noReserved, cs, 1)
		require.EqualValues(t, ledger.StatusSuccess, status)
		require.EqualValues(t, ledger.CodeNone, code)
		require.True(t, cost > 0) // the encoding itself is charged per byte
	})
	t.Run("unknown coin is pending", func(t *testing.T) {
		unknown := ledger.NewCoin(coinID(9), puzzleHash(9), 10)
		_, status, code := fn(bundleOf(spendOf(unknown)), noReserved, cs, 1)
		require.EqualValues(t, ledger.StatusPending, status)
		require.EqualValues(t, ledger.CodeUnknownUnspent, code)
	})
	t.Run("spent coin is double spend", func(t *testing.T) {
		_, status, code := fn(bundleOf(spendOf(spent)), noReserved, cs, 1)
		require.EqualValues(t, ledger.StatusFailed, status)
		require.EqualValues(t, ledger.CodeDoubleSpend, code)
	})
	t.Run("duplicate removal inside bundle", func(t *testing.T) {
		_, status, code := fn(bundleOf(spendOf(c1), spendOf(c1)), noReserved, cs, 1)
		require.EqualValues(t, ledger.StatusFailed, status)
		require.EqualValues(t, ledger.CodeDoubleSpend, code)
	})
	t.Run("mempool conflict", func(t *testing.T) {
		reserved := map[ledger.CoinID]struct{}{c1.ID(): {}}
		_, status, code := fn(bundleOf(spendOf(c1)), reserved, cs, 1)
		require.EqualValues(t, ledger.StatusFailed, status)
		require.EqualValues(t, ledger.CodeMempoolConflict, code)
	})
	t.Run("minting", func(t *testing.T) {
		b := bundleOf(spendOf(c1, ledger.CoinPayout{PuzzleHash: puzzleHash(2), Amount: 101}))
		_, status, code := fn(b, noReserved, cs, 1)
		require.EqualValues(t, ledger.StatusFailed, status)
		require.EqualValues(t, ledger.CodeMintingCoin, code)
	})
	t.Run("duplicate output", func(t *testing.T) {
		b := bundleOf(spendOf(c1,
			ledger.CoinPayout{PuzzleHash: puzzleHash(2), Amount: 40},
			ledger.CoinPayout{PuzzleHash: puzzleHash(2), Amount: 40},
		))
		_, status, code := fn(b, noReserved, cs, 1)
		require.EqualValues(t, ledger.StatusFailed, status)
		require.EqualValues(t, ledger.CodeDuplicateOutput, code)
	})
	t.Run("output collides with existing record", func(t *testing.T) {
		// a coin parented by c1 already exists, so recreating it is refused
		child := ledger.NewCoin(c1.ID(), puzzleHash(3), 7)
		require.NoError(t, cs.Add(child, 1, 2000, false))
		b := bundleOf(spendOf(c1, ledger.CoinPayout{PuzzleHash: puzzleHash(3), Amount: 7}))
		_, status, code := fn(b, noReserved, cs, 1)
		require.EqualValues(t, ledger.StatusFailed, status)
		require.EqualValues(t, ledger.CodeDuplicateOutput, code)
	})
	t.Run("cost exceeded", func(t *testing.T) {
		small := *par
		small.MaxBlockCost = 1
		fnSmall := validate.Default(&small)
		_, status, code := fnSmall(bundleOf(spendOf(c1)), noReserved, cs, 1)
		require.EqualValues(t, ledger.StatusFailed, status)
		require.EqualValues(t, ledger.CodeCostExceeded, code)
	})
	t.Run("amount overflow", func(t *testing.T) {
		huge1 := ledger.NewCoin(coinID(10), puzzleHash(1), ^uint64(0))
		huge2 := ledger.NewCoin(coinID(11), puzzleHash(1), 1)
		require.NoError(t, cs.Add(huge1, 0, 1000, false))
		require.NoError(t, cs.Add(huge2, 0, 1000, false))
		_, status, code := fn(bundleOf(spendOf(huge1), spendOf(huge2)), noReserved, cs, 1)
		require.EqualValues(t, ledger.StatusFailed, status)
		require.EqualValues(t, ledger.CodeAmountOverflow, code)
	})
}
