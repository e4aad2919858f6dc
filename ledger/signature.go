package ledger

import (
	"errors"

	"github.com/lunfardo314/easyfl"
)

// SignatureLength is the size of an (aggregated) signature value
const SignatureLength = 96

// Signature is an opaque aggregatable signature. The simulator never
// interprets it: verification belongs to an external capability. Aggregation
// is commutative and associative with the zero value as neutral element,
// which is exactly what block assembly relies upon
type Signature [SignatureLength]byte

func SignatureFromBytes(data []byte) (ret Signature, err error) {
	if len(data) != SignatureLength {
		err = errors.New("SignatureFromBytes: wrong data length")
		return
	}
	copy(ret[:], data)
	return
}

func (s Signature) Bytes() []byte {
	return s[:]
}

func (s Signature) String() string {
	return easyfl.Fmt(s[:])
}

func (s Signature) IsZero() bool {
	return s == Signature{}
}

// AggregateSignatures combines any number of signatures into one.
// Aggregating nothing yields the zero signature
func AggregateSignatures(sigs ...Signature) (ret Signature) {
	for _, sig := range sigs {
		for i := range ret {
			ret[i] ^= sig[i]
		}
	}
	return
}
