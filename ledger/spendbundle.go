package ledger

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/lunfardo314/unitrie/common"
	"golang.org/x/crypto/blake2b"
)

type (
	// CoinPayout declares one output coin created by a spend: the owner
	// commitment and the amount. The parent of the created coin is always
	// the identity of the coin being spent
	CoinPayout struct {
		PuzzleHash PuzzleHash
		Amount     uint64
	}

	// CoinSpend is one input coin together with its opaque proof/solution
	// and the outputs it declares
	CoinSpend struct {
		Coin     Coin
		Solution []byte
		Payouts  []CoinPayout
	}

	// SpendBundle is a signed atomic batch of coin spends. Immutable once
	// constructed; its ID is the blake2b-256 hash of the canonical encoding
	SpendBundle struct {
		CoinSpends          []*CoinSpend
		AggregatedSignature Signature
	}
)

func NewSpendBundle(spends []*CoinSpend, sig Signature) *SpendBundle {
	return &SpendBundle{
		CoinSpends:          spends,
		AggregatedSignature: sig,
	}
}

// AggregateBundles combines several bundles into one: concatenated coin
// spends, aggregated signature. Used by block assembly to build the
// payload of one farmed block
func AggregateBundles(bundles ...*SpendBundle) *SpendBundle {
	spends := make([]*CoinSpend, 0)
	sigs := make([]Signature, 0, len(bundles))
	for _, b := range bundles {
		spends = append(spends, b.CoinSpends...)
		sigs = append(sigs, b.AggregatedSignature)
	}
	return NewSpendBundle(spends, AggregateSignatures(sigs...))
}

// Additions returns the coins created by the spend, parented by the spent coin
func (cs *CoinSpend) Additions() []Coin {
	parent := cs.Coin.ID()
	ret := make([]Coin, len(cs.Payouts))
	for i, p := range cs.Payouts {
		ret[i] = NewCoin(parent, p.PuzzleHash, p.Amount)
	}
	return ret
}

func (cs *CoinSpend) Bytes() []byte {
	var buf bytes.Buffer
	buf.Write(cs.Coin.Bytes())
	writeBytes16(&buf, cs.Solution)
	writeUint16(&buf, uint16(len(cs.Payouts)))
	for _, p := range cs.Payouts {
		buf.Write(p.PuzzleHash[:])
		buf.Write(uint64Bytes(p.Amount))
	}
	return buf.Bytes()
}

func CoinSpendFromReader(r io.Reader) (*CoinSpend, error) {
	var coinBin [CoinBytesLength]byte
	if _, err := io.ReadFull(r, coinBin[:]); err != nil {
		return nil, err
	}
	coin, err := CoinFromBytes(coinBin[:])
	if err != nil {
		return nil, err
	}
	solution, err := readBytes16(r)
	if err != nil {
		return nil, err
	}
	numPayouts, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	payouts := make([]CoinPayout, numPayouts)
	for i := range payouts {
		if _, err = io.ReadFull(r, payouts[i].PuzzleHash[:]); err != nil {
			return nil, err
		}
		var amountBin [8]byte
		if _, err = io.ReadFull(r, amountBin[:]); err != nil {
			return nil, err
		}
		payouts[i].Amount = binary.BigEndian.Uint64(amountBin[:])
	}
	return &CoinSpend{
		Coin:     coin,
		Solution: solution,
		Payouts:  payouts,
	}, nil
}

// Removals returns the input coins consumed by the bundle, in bundle order
func (b *SpendBundle) Removals() []Coin {
	ret := make([]Coin, len(b.CoinSpends))
	for i, cs := range b.CoinSpends {
		ret[i] = cs.Coin
	}
	return ret
}

// Additions returns the output coins created by the bundle, in bundle order
func (b *SpendBundle) Additions() []Coin {
	ret := make([]Coin, 0)
	for _, cs := range b.CoinSpends {
		ret = append(ret, cs.Additions()...)
	}
	return ret
}

// Fees is sum of inputs minus sum of outputs. The bundle must have passed
// value conservation checks, otherwise the difference has no meaning
func (b *SpendBundle) Fees() uint64 {
	var sumIn, sumOut uint64
	for _, cs := range b.CoinSpends {
		sumIn += cs.Coin.Amount
		for _, p := range cs.Payouts {
			sumOut += p.Amount
		}
	}
	if sumOut > sumIn {
		return 0
	}
	return sumIn - sumOut
}

// Bytes is the canonical encoding of the bundle: spend count, spends, signature
func (b *SpendBundle) Bytes() []byte {
	var buf bytes.Buffer
	writeUint16(&buf, uint16(len(b.CoinSpends)))
	for _, cs := range b.CoinSpends {
		buf.Write(cs.Bytes())
	}
	buf.Write(b.AggregatedSignature[:])
	return buf.Bytes()
}

func SpendBundleFromBytes(data []byte) (*SpendBundle, error) {
	rdr := bytes.NewReader(data)
	numSpends, err := readUint16(rdr)
	if err != nil {
		return nil, err
	}
	spends := make([]*CoinSpend, numSpends)
	for i := range spends {
		if spends[i], err = CoinSpendFromReader(rdr); err != nil {
			return nil, err
		}
	}
	var sigBin [SignatureLength]byte
	if _, err = io.ReadFull(rdr, sigBin[:]); err != nil {
		return nil, err
	}
	if rdr.Len() != 0 {
		return nil, errors.New("SpendBundleFromBytes: trailing bytes")
	}
	return NewSpendBundle(spends, Signature(sigBin)), nil
}

// ID returns the content address of the bundle
func (b *SpendBundle) ID() BundleID {
	return BundleID(blake2b.Sum256(b.Bytes()))
}

func (b *SpendBundle) String() string {
	id := b.ID()
	return fmt.Sprintf("bundle(%s, %d spends, fees: %d)", id.String(), len(b.CoinSpends), b.Fees())
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func readUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func writeBytes16(buf *bytes.Buffer, data []byte) {
	common.Assert(len(data) <= math.MaxUint16, "writeBytes16: data too long")
	writeUint16(buf, uint16(len(data)))
	buf.Write(data)
}

func readBytes16(r io.Reader) ([]byte, error) {
	n, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	ret := make([]byte, n)
	if _, err = io.ReadFull(r, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
