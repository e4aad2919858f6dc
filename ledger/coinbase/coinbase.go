// Package coinbase derives block reward coins and their amounts. Reward
// amounts are a pure function of block height; reward coin parents are
// derived from the genesis challenge and the height, so reward coins of
// different blocks never collide
package coinbase

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/lunfardo314/utxosim/ledger"
	"golang.org/x/crypto/blake2b"
)

const (
	// MojosPerCoin is the number of base units in one coin of face value
	MojosPerCoin = uint64(1_000_000_000_000)

	blocksPerYear = 1_681_920
	// PrefarmCoins is minted by block 0. The full prefarm does not fit a
	// single uint64 amount, so only its 7/8 and 1/8 shares exist as coins
	PrefarmCoins = 21_000_000
)

// blockReward is the total issuance of one block after genesis: a halving
// schedule floored after year 12
func blockReward(height uint32) uint64 {
	switch {
	case height < 3*blocksPerYear:
		return 2 * MojosPerCoin
	case height < 6*blocksPerYear:
		return 1 * MojosPerCoin
	case height < 9*blocksPerYear:
		return MojosPerCoin / 2
	case height < 12*blocksPerYear:
		return MojosPerCoin / 4
	default:
		return MojosPerCoin / 8
	}
}

// PoolReward is 7/8 of the block issuance at the given height
func PoolReward(height uint32) uint64 {
	if height == 0 {
		return PrefarmCoins / 8 * 7 * MojosPerCoin
	}
	return blockReward(height) / 8 * 7
}

// BaseFarmerReward is 1/8 of the block issuance; transaction fees come on top
func BaseFarmerReward(height uint32) uint64 {
	if height == 0 {
		return PrefarmCoins / 8 * MojosPerCoin
	}
	return blockReward(height) / 8
}

// PuzzleHashFromPublicKey is the owner commitment of a reward recipient:
// blake2b-256 of the ED25519 public key
func PuzzleHashFromPublicKey(pubKey ed25519.PublicKey) ledger.PuzzleHash {
	return ledger.PuzzleHash(blake2b.Sum256(pubKey))
}

// PoolParentID is challenge[:16] followed by the height as 16 big-endian bytes
func PoolParentID(height uint32, genesisChallenge [32]byte) (ret ledger.CoinID) {
	copy(ret[:16], genesisChallenge[:16])
	binary.BigEndian.PutUint64(ret[24:], uint64(height))
	return
}

// FarmerParentID is challenge[16:] followed by the height as 16 big-endian bytes
func FarmerParentID(height uint32, genesisChallenge [32]byte) (ret ledger.CoinID) {
	copy(ret[:16], genesisChallenge[16:])
	binary.BigEndian.PutUint64(ret[24:], uint64(height))
	return
}

func CreatePoolCoin(height uint32, ph ledger.PuzzleHash, amount uint64, genesisChallenge [32]byte) ledger.Coin {
	return ledger.NewCoin(PoolParentID(height, genesisChallenge), ph, amount)
}

func CreateFarmerCoin(height uint32, ph ledger.PuzzleHash, amount uint64, genesisChallenge [32]byte) ledger.Coin {
	return ledger.NewCoin(FarmerParentID(height, genesisChallenge), ph, amount)
}
