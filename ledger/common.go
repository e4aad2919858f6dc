// Package ledger defines the core value types of the UTXO simulator:
// coins, coin records, spend bundles, aggregated signatures, full blocks
// and the ledger parameters. All identities are blake2b-256 content hashes.
package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/lunfardo314/easyfl"
)

const (
	CoinIDLength     = 32
	PuzzleHashLength = 32
	BundleIDLength   = 32
)

type (
	// CoinID is the content address of a coin
	CoinID [CoinIDLength]byte

	// PuzzleHash is the owner commitment of a coin, 32 byte blake2b hash
	PuzzleHash [PuzzleHashLength]byte

	// BundleID is the content address of a spend bundle
	BundleID [BundleIDLength]byte

	// TxStatus is the outcome of validating a spend bundle for mempool inclusion
	TxStatus byte
)

const (
	StatusSuccess = TxStatus(iota + 1)
	StatusPending
	StatusFailed
)

func (s TxStatus) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusPending:
		return "PENDING"
	case StatusFailed:
		return "FAILED"
	}
	return fmt.Sprintf("TxStatus(%d)", s)
}

func CoinIDFromBytes(data []byte) (ret CoinID, err error) {
	if len(data) != CoinIDLength {
		err = errors.New("CoinIDFromBytes: wrong data length")
		return
	}
	copy(ret[:], data)
	return
}

func (id CoinID) Bytes() []byte {
	return id[:]
}

func (id CoinID) String() string {
	return easyfl.Fmt(id[:])
}

func PuzzleHashFromBytes(data []byte) (ret PuzzleHash, err error) {
	if len(data) != PuzzleHashLength {
		err = errors.New("PuzzleHashFromBytes: wrong data length")
		return
	}
	copy(ret[:], data)
	return
}

func (ph PuzzleHash) Bytes() []byte {
	return ph[:]
}

func (ph PuzzleHash) String() string {
	return easyfl.Fmt(ph[:])
}

func (id BundleID) Bytes() []byte {
	return id[:]
}

func (id BundleID) String() string {
	return easyfl.Fmt(id[:])
}

func uint64Bytes(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}
