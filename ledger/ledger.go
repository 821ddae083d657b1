// Package ledger implements the block-acceptance state machine, its
// inverse roll-back, chain-derived balance/amount/representative
// visitors, and representative vote tallying — the operations a
// collaborator drives against a transactional store.
package ledger

import (
	"github.com/latticecoin/node/amount"
	"github.com/latticecoin/node/block"
	"github.com/latticecoin/node/crypto"
)

// Ledger holds the process-wide constants a collaborator supplies once,
// passed by reference into every operation rather than read from ambient
// state: the crypto provider, the burn account, and the state-block
// parse canary.
type Ledger struct {
	Crypto crypto.Provider

	// Burn is the designated unspendable account; opening or
	// state-opening it is rejected.
	Burn block.Account

	// StateCanary gates state-block processing: until a block with this
	// hash is present in the store, state blocks are rejected with
	// StateBlockDisabled. The zero hash disables the gate.
	StateCanary block.Hash

	// BootstrapWeightMaxBlocks and BootstrapWeights let Tally substitute
	// a configured weight table while the store's total block count is
	// below this threshold, before enough of the chain has been
	// processed for the live representation table to be trustworthy.
	BootstrapWeightMaxBlocks uint64
	BootstrapWeights         map[block.Account]amount.Amount
}

// New returns a Ledger with the burn account defaulted to the all-zero
// key.
func New(p crypto.Provider) *Ledger {
	return &Ledger{Crypto: p, Burn: block.Burn}
}
