package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/lunfardo314/unitrie/common"
	"golang.org/x/crypto/blake2b"
)

// CoinBytesLength is the length of the canonical coin encoding: parent || puzzle hash || amount
const CoinBytesLength = CoinIDLength + PuzzleHashLength + 8

// Coin is an immutable UTXO candidate. Its identity is the blake2b-256 hash
// of the three fields, so two coins with equal fields are the same coin
type Coin struct {
	ParentCoinID CoinID
	PuzzleHash   PuzzleHash
	Amount       uint64
}

func NewCoin(parent CoinID, ph PuzzleHash, amount uint64) Coin {
	return Coin{
		ParentCoinID: parent,
		PuzzleHash:   ph,
		Amount:       amount,
	}
}

// ID returns the content address of the coin
func (c Coin) ID() CoinID {
	return CoinID(blake2b.Sum256(common.Concat(c.ParentCoinID[:], c.PuzzleHash[:], uint64Bytes(c.Amount))))
}

func (c Coin) Bytes() []byte {
	return common.Concat(c.ParentCoinID[:], c.PuzzleHash[:], uint64Bytes(c.Amount))
}

func CoinFromBytes(data []byte) (ret Coin, err error) {
	if len(data) != CoinBytesLength {
		err = errors.New("CoinFromBytes: wrong data length")
		return
	}
	copy(ret.ParentCoinID[:], data[:CoinIDLength])
	copy(ret.PuzzleHash[:], data[CoinIDLength:CoinIDLength+PuzzleHashLength])
	ret.Amount = binary.BigEndian.Uint64(data[CoinIDLength+PuzzleHashLength:])
	return
}

func (c Coin) String() string {
	id := c.ID()
	return fmt.Sprintf("coin(%s, amount: %d, puzzle: %s)", id.String(), c.Amount, c.PuzzleHash.String())
}

// CoinRecord is the historical status of one coin: when it was confirmed,
// whether and when it was spent, and whether it is a reward (coinbase) coin.
// Exactly one record exists per coin identity; the record transitions from
// unspent to spent at most once
type CoinRecord struct {
	Coin                Coin
	ConfirmedBlockIndex uint32
	SpentBlockIndex     uint32
	Spent               bool
	Coinbase            bool
	Timestamp           uint64
}

func (r *CoinRecord) ID() CoinID {
	return r.Coin.ID()
}

func (r *CoinRecord) String() string {
	status := "unspent"
	if r.Spent {
		status = fmt.Sprintf("spent at %d", r.SpentBlockIndex)
	}
	return fmt.Sprintf("%s confirmed at %d, %s", r.Coin.String(), r.ConfirmedBlockIndex, status)
}
