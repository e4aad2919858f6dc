package ledger

import (
	"encoding/hex"
	"fmt"

	"github.com/lunfardo314/easyfl"
	"gopkg.in/yaml.v2"
)

// Params are the simulation constants: the genesis challenge reward parents
// are derived from, and the cost accounting limits used at admission
type Params struct {
	GenesisChallengeHex string `yaml:"genesis_challenge"`
	MaxBlockCost        uint64 `yaml:"max_block_cost"`
	CostPerByte         uint64 `yaml:"cost_per_byte"`
	CostPerSpend        uint64 `yaml:"cost_per_spend"`
	CostPerCreatedCoin  uint64 `yaml:"cost_per_created_coin"`
}

const defaultGenesisChallenge = "ccd5bb71183532bff220ba46c268991a3ff07eb358e8255a65c30a2dce0e5fbb"

func DefaultParams() *Params {
	return &Params{
		GenesisChallengeHex: defaultGenesisChallenge,
		MaxBlockCost:        11_000_000_000,
		CostPerByte:         12_000,
		CostPerSpend:        1_200_000,
		CostPerCreatedCoin:  1_800_000,
	}
}

// ParamsFromYAML parses params from YAML. Fields not present keep defaults
func ParamsFromYAML(data []byte) (*Params, error) {
	ret := DefaultParams()
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("ParamsFromYAML: %v", err)
	}
	if _, err := ret.GenesisChallenge(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (p *Params) YAML() []byte {
	ret, err := yaml.Marshal(p)
	easyfl.AssertNoError(err)
	return ret
}

// GenesisChallenge decodes the 32 byte challenge reward coin parents are derived from
func (p *Params) GenesisChallenge() ([32]byte, error) {
	var ret [32]byte
	bin, err := hex.DecodeString(p.GenesisChallengeHex)
	if err != nil {
		return ret, fmt.Errorf("genesis challenge: %v", err)
	}
	if len(bin) != 32 {
		return ret, fmt.Errorf("genesis challenge: wrong length %d", len(bin))
	}
	copy(ret[:], bin)
	return ret, nil
}

func (p *Params) MustGenesisChallenge() [32]byte {
	ret, err := p.GenesisChallenge()
	easyfl.AssertNoError(err)
	return ret
}
