// Package validate defines the admission validation contract consumed by
// the node and a default validator implementing it. Puzzle execution and
// signature verification stay external to the simulator; the default
// validator enforces what the ledger itself can see: unspent inputs, no
// conflicts with pending bundles, value conservation and the cost budget
package validate

import (
	"github.com/lunfardo314/utxosim/ledger"
)

type (
	// RecordView is the coin record snapshot a validator reads
	RecordView interface {
		Record(id ledger.CoinID) (*ledger.CoinRecord, bool)
	}

	// Func validates one spend bundle against the records, the coin
	// identities already reserved by pending bundles and the current
	// height. It returns the validation cost, the inclusion status and an
	// error code when status is not SUCCESS
	Func func(bundle *ledger.SpendBundle, reserved map[ledger.CoinID]struct{}, records RecordView, height uint32) (uint64, ledger.TxStatus, ledger.ErrorCode)
)

// Default returns the standard validator for the given params
func Default(par *ledger.Params) Func {
	return func(bundle *ledger.SpendBundle, reserved map[ledger.CoinID]struct{}, records RecordView, height uint32) (uint64, ledger.TxStatus, ledger.ErrorCode) {
		cost := bundleCost(par, bundle)
		if cost > par.MaxBlockCost {
			return cost, ledger.StatusFailed, ledger.CodeCostExceeded
		}

		var sumIn, sumOut uint64
		var overflow bool
		seenRemovals := make(map[ledger.CoinID]struct{}, len(bundle.CoinSpends))
		for _, cs := range bundle.CoinSpends {
			id := cs.Coin.ID()
			if _, already := seenRemovals[id]; already {
				return cost, ledger.StatusFailed, ledger.CodeDoubleSpend
			}
			seenRemovals[id] = struct{}{}

			if _, conflict := reserved[id]; conflict {
				return cost, ledger.StatusFailed, ledger.CodeMempoolConflict
			}
			rec, found := records.Record(id)
			if !found {
				// the coin may come into existence later
				return cost, ledger.StatusPending, ledger.CodeUnknownUnspent
			}
			if rec.Spent {
				return cost, ledger.StatusFailed, ledger.CodeDoubleSpend
			}
			if sumIn, overflow = addU64(sumIn, cs.Coin.Amount); overflow {
				return cost, ledger.StatusFailed, ledger.CodeAmountOverflow
			}
			for _, p := range cs.Payouts {
				if sumOut, overflow = addU64(sumOut, p.Amount); overflow {
					return cost, ledger.StatusFailed, ledger.CodeAmountOverflow
				}
			}
		}
		if sumOut > sumIn {
			return cost, ledger.StatusFailed, ledger.CodeMintingCoin
		}

		seenAdditions := make(map[ledger.CoinID]struct{})
		for _, coin := range bundle.Additions() {
			id := coin.ID()
			if _, already := seenAdditions[id]; already {
				return cost, ledger.StatusFailed, ledger.CodeDuplicateOutput
			}
			seenAdditions[id] = struct{}{}
			if _, exists := records.Record(id); exists {
				return cost, ledger.StatusFailed, ledger.CodeDuplicateOutput
			}
		}
		return cost, ledger.StatusSuccess, ledger.CodeNone
	}
}

// bundleCost accounts the bundle the way block cost is charged: per byte of
// the canonical encoding, per coin spend and per created coin
func bundleCost(par *ledger.Params, bundle *ledger.SpendBundle) uint64 {
	cost := par.CostPerByte * uint64(len(bundle.Bytes()))
	numPayouts := 0
	for _, cs := range bundle.CoinSpends {
		numPayouts += len(cs.Payouts)
	}
	cost += par.CostPerSpend * uint64(len(bundle.CoinSpends))
	cost += par.CostPerCreatedCoin * uint64(numPayouts)
	return cost
}

func addU64(a, b uint64) (uint64, bool) {
	ret := a + b
	return ret, ret < a
}
