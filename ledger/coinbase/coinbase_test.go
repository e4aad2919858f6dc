package coinbase_test

import (
	"testing"

	"github.com/lunfardo314/utxosim/ledger"
	"github.com/lunfardo314/utxosim/ledger/coinbase"
	"github.com/lunfardo314/utxosim/util/testutil"
	"github.com/stretchr/testify/require"
)

func TestRewardSchedule(t *testing.T) {
	t.Run("prefarm", func(t *testing.T) {
		require.EqualValues(t, coinbase.PrefarmCoins/8*coinbase.MojosPerCoin, coinbase.BaseFarmerReward(0))
		require.EqualValues(t, 7*coinbase.BaseFarmerReward(0), coinbase.PoolReward(0))
	})
	t.Run("split", func(t *testing.T) {
		for _, height := range []uint32{0, 1, 1000, 10_000_000, 100_000_000} {
			require.EqualValues(t, 7*coinbase.BaseFarmerReward(height), coinbase.PoolReward(height),
				"height %d", height)
		}
	})
	t.Run("halvings", func(t *testing.T) {
		require.EqualValues(t, 2*coinbase.MojosPerCoin/8, coinbase.BaseFarmerReward(1))
		first := coinbase.BaseFarmerReward(1)
		require.EqualValues(t, first/2, coinbase.BaseFarmerReward(3*1_681_920))
		require.EqualValues(t, first/4, coinbase.BaseFarmerReward(6*1_681_920))
		require.EqualValues(t, first/8, coinbase.BaseFarmerReward(9*1_681_920))
		require.EqualValues(t, first/16, coinbase.BaseFarmerReward(12*1_681_920))
		// floored after year 12
		require.EqualValues(t, first/16, coinbase.BaseFarmerReward(100*1_681_920))
	})
}

func TestRewardCoins(t *testing.T) {
	challenge := ledger.DefaultParams().MustGenesisChallenge()
	_, pubKey := testutil.GenerateKeyPair(0)
	ph := coinbase.PuzzleHashFromPublicKey(pubKey)

	t.Run("puzzle hash deterministic", func(t *testing.T) {
		require.EqualValues(t, ph, coinbase.PuzzleHashFromPublicKey(pubKey))
		_, otherKey := testutil.GenerateKeyPair(1)
		require.NotEqualValues(t, ph, coinbase.PuzzleHashFromPublicKey(otherKey))
	})
	t.Run("parents differ between pool and farmer", func(t *testing.T) {
		require.NotEqualValues(t, coinbase.PoolParentID(0, challenge), coinbase.FarmerParentID(0, challenge))
	})
	t.Run("parents differ between heights", func(t *testing.T) {
		require.NotEqualValues(t, coinbase.PoolParentID(0, challenge), coinbase.PoolParentID(1, challenge))
		require.NotEqualValues(t, coinbase.FarmerParentID(3, challenge), coinbase.FarmerParentID(4, challenge))
	})
	t.Run("coins", func(t *testing.T) {
		pool := coinbase.CreatePoolCoin(7, ph, coinbase.PoolReward(7), challenge)
		farmer := coinbase.CreateFarmerCoin(7, ph, coinbase.BaseFarmerReward(7)+10, challenge)
		require.EqualValues(t, coinbase.PoolParentID(7, challenge), pool.ParentCoinID)
		require.EqualValues(t, coinbase.FarmerParentID(7, challenge), farmer.ParentCoinID)
		require.NotEqualValues(t, pool.ID(), farmer.ID())
		require.EqualValues(t, coinbase.BaseFarmerReward(7)+10, farmer.Amount)
	})
}
