package store

import (
	"fmt"

	"github.com/latticecoin/node/amount"
	"github.com/latticecoin/node/block"
	"github.com/latticecoin/node/crypto"
)

// GenesisSpec is the per-network genesis configuration: the account that
// receives the entire initial supply, and the open block that
// establishes its chain. Test, beta, and live networks each have their
// own genesis account and differ only in these values; every other
// ledger rule is identical across networks.
type GenesisSpec struct {
	Account block.Account
	Open    *block.Open
}

// These sample keys are placeholders distinguishing the three networks;
// a deployment replaces them with its own generated keypairs before
// first use.
var (
	testGenesisAccount = block.Account{0x01}
	betaGenesisAccount = block.Account{0x02}
	liveGenesisAccount = block.Account{0x03}
)

// Genesis returns the GenesisSpec for the named network ("test", "beta",
// "live").
func Genesis(network string) (GenesisSpec, error) {
	switch network {
	case "test":
		return genesisFor(testGenesisAccount), nil
	case "beta":
		return genesisFor(betaGenesisAccount), nil
	case "live":
		return genesisFor(liveGenesisAccount), nil
	default:
		return GenesisSpec{}, fmt.Errorf("store: unknown network %q", network)
	}
}

func genesisFor(account block.Account) GenesisSpec {
	return GenesisSpec{
		Account: account,
		Open: &block.Open{
			SourceHash:   block.Hash(account),
			Rep:          account,
			AccountField: account,
		},
	}
}

// InitGenesis writes the network's genesis open block and the account,
// representation, checksum, and frontier entries it establishes. It is a
// no-op if the genesis account already has a chain, so callers can call
// it unconditionally at startup.
func InitGenesis(d *DB, p crypto.Provider, network string) error {
	spec, err := Genesis(network)
	if err != nil {
		return err
	}
	return d.Update(func(t *Txn) error {
		if t.AccountExists(spec.Account) {
			return nil
		}
		hash := spec.Open.Hash(p)
		if err := t.PutBlock(hash, spec.Account, spec.Open); err != nil {
			return err
		}
		if err := t.PutAccount(spec.Account, AccountInfo{
			Head:       hash,
			RepBlock:   hash,
			OpenBlock:  hash,
			Balance:    amount.Max,
			BlockCount: 1,
		}); err != nil {
			return err
		}
		if err := t.PutRepresentation(spec.Account, amount.Max); err != nil {
			return err
		}
		if err := t.PutFrontier(hash, spec.Account); err != nil {
			return err
		}
		// The genesis open's SourceHash is a self-referential placeholder,
		// not a real block, so the balance visitor's recursive walk has
		// nothing to recurse into here. Seed its cache entry directly,
		// the same table finishApply populates every 32 blocks, so
		// Balance/Amount resolve genesis from the cache instead of
		// chasing that placeholder hash.
		if err := t.PutBlockInfo(hash, BlockInfo{Account: spec.Account, Balance: amount.Max}); err != nil {
			return err
		}
		return t.XORChecksum(0, 0, hash)
	})
}
