// Package generator encodes the combined spend bundle of one farmed block
// into the compact transaction generator payload carried by the block, and
// decodes it back for introspection
package generator

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/lunfardo314/utxosim/ledger"
)

// version byte of the payload framing
const programVersion = byte(1)

// SimpleSolutionGenerator frames the bundle into a generator program.
// Blocks farmed from an empty mempool carry no generator at all; that
// decision belongs to the caller, so a bundle with zero spends still
// encodes to a valid program
func SimpleSolutionGenerator(bundle *ledger.SpendBundle) ledger.GeneratorProgram {
	if bundle == nil {
		return nil
	}
	var buf bytes.Buffer
	buf.WriteByte(programVersion)
	buf.Write(bundle.Bytes())
	return buf.Bytes()
}

// BundleFromProgram parses the generator payload back into the combined bundle
func BundleFromProgram(program ledger.GeneratorProgram) (*ledger.SpendBundle, error) {
	if len(program) == 0 {
		return nil, errors.New("BundleFromProgram: empty program")
	}
	if program[0] != programVersion {
		return nil, fmt.Errorf("BundleFromProgram: unsupported version %d", program[0])
	}
	return ledger.SpendBundleFromBytes(program[1:])
}
