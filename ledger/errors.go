package ledger

import (
	"errors"
	"fmt"
)

// ErrInvariant marks a broken internal contract: the operation which
// detected it must abort without committing partial state
var ErrInvariant = errors.New("ledger invariant violation")

// ErrorCode classifies why a validator refused (or deferred) a spend bundle
type ErrorCode byte

const (
	CodeNone = ErrorCode(iota)
	CodeUnknownUnspent
	CodeDoubleSpend
	CodeMempoolConflict
	CodeMintingCoin
	CodeDuplicateOutput
	CodeCostExceeded
	CodeAmountOverflow
)

func (c ErrorCode) String() string {
	switch c {
	case CodeNone:
		return "NONE"
	case CodeUnknownUnspent:
		return "UNKNOWN_UNSPENT"
	case CodeDoubleSpend:
		return "DOUBLE_SPEND"
	case CodeMempoolConflict:
		return "MEMPOOL_CONFLICT"
	case CodeMintingCoin:
		return "MINTING_COIN"
	case CodeDuplicateOutput:
		return "DUPLICATE_OUTPUT"
	case CodeCostExceeded:
		return "COST_EXCEEDED"
	case CodeAmountOverflow:
		return "AMOUNT_OVERFLOW"
	}
	return fmt.Sprintf("ErrorCode(%d)", c)
}

// TransactionRejectedError is returned by transaction admission when the
// validator said FAILED. It carries the bundle identity and the validator's
// error code. Matches errors.Is(err, ErrTransactionRejected)
type TransactionRejectedError struct {
	Bundle BundleID
	Code   ErrorCode
}

var ErrTransactionRejected = errors.New("transaction rejected")

func (e *TransactionRejectedError) Error() string {
	return fmt.Sprintf("failed to include transaction %s, error %s", e.Bundle.String(), e.Code.String())
}

func (e *TransactionRejectedError) Is(target error) bool {
	return target == ErrTransactionRejected
}
