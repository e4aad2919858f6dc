package ledger

import (
	"fmt"

	"github.com/lunfardo314/unitrie/common"
)

// GeneratorProgram is the serialized transaction generator payload of a
// block: the whole round's coin spends in one compact encoding.
// nil means the block carried no transactions
type GeneratorProgram []byte

// FullBlock is one farmed block: the reward coins it minted, the generator
// payload (or nil), the height it was farmed at and the commitment to the
// unspent coin set right after the block was applied.
// Blocks are append-only history, never mutated
type FullBlock struct {
	RewardCoins []Coin
	Generator   GeneratorProgram
	Height      uint32
	StateRoot   common.VCommitment
}

func (b *FullBlock) HasGenerator() bool {
	return len(b.Generator) > 0
}

func (b *FullBlock) String() string {
	return fmt.Sprintf("block(height: %d, rewards: %d, generator: %d bytes, root: %s)",
		b.Height, len(b.RewardCoins), len(b.Generator), b.StateRoot.String())
}
