package testutil

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/lunfardo314/unitrie/common"
	"github.com/lunfardo314/utxosim/ledger"
	"golang.org/x/crypto/blake2b"
)

// for determinism
const deterministicSeed = "1234567890987654321"

// GenerateKeyPair derives the n-th deterministic ED25519 key pair for tests
func GenerateKeyPair(n uint16) (ed25519.PrivateKey, ed25519.PublicKey) {
	var u16 [2]byte
	binary.BigEndian.PutUint16(u16[:], n)
	seed := blake2b.Sum256(common.Concat([]byte(deterministicSeed), u16[:]))
	priv := ed25519.NewKeyFromSeed(seed[:])
	return priv, priv.Public().(ed25519.PublicKey)
}

// DummySignature makes a distinct opaque signature value from a seed byte.
// The simulator never verifies signatures, it only aggregates them
func DummySignature(seed byte) (ret ledger.Signature) {
	for i := range ret {
		ret[i] = seed
	}
	return
}
