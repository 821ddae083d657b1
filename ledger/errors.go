package ledger

import (
	"fmt"

	"github.com/latticecoin/node/amount"
	"github.com/latticecoin/node/block"
)

// ProcessCode classifies the outcome of Process. Progress is the only
// code indicating the block was accepted and applied; every other code
// leaves the store exactly as it was.
type ProcessCode string

const (
	Progress           ProcessCode = "progress"
	Old                ProcessCode = "old"
	BadSignature       ProcessCode = "bad_signature"
	GapPrevious        ProcessCode = "gap_previous"
	GapSource          ProcessCode = "gap_source"
	Fork               ProcessCode = "fork"
	Unreceivable       ProcessCode = "unreceivable"
	NegativeSpend      ProcessCode = "negative_spend"
	BalanceMismatch    ProcessCode = "balance_mismatch"
	BlockPosition      ProcessCode = "block_position"
	OpenedBurnAccount  ProcessCode = "opened_burn_account"
	NotReceiveFromSend ProcessCode = "not_receive_from_send"
	AccountMismatch    ProcessCode = "account_mismatch"
	StateBlockDisabled ProcessCode = "state_block_disabled"
)

// ProcessResult is the outcome of a single Process call. Account and
// Amount are populated only when Code == Progress.
type ProcessResult struct {
	Code    ProcessCode
	Account block.Account
	Amount  amount.Amount
}

// InvariantError reports store state that should be impossible on a
// consistent store — a retrieved block that fails to decode, an account
// entry missing where one must exist. It is never returned for a
// rejected block; rejections are reported via ProcessResult.Code.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string { return fmt.Sprintf("ledger: invariant violated: %s", e.Msg) }

func invariant(format string, args ...any) error {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}
