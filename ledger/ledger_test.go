package ledger

import (
	"testing"

	"github.com/latticecoin/node/amount"
	"github.com/latticecoin/node/block"
	"github.com/latticecoin/node/crypto"
	"github.com/latticecoin/node/store"
	"golang.org/x/crypto/ed25519"
)

// keypair is a test fixture: a generated ed25519 account and the private
// key needed to sign blocks for it. Production callers never hold a
// private key inside the ledger package; collaborators sign before
// handing blocks to Process.
type keypair struct {
	account block.Account
	priv    [64]byte
}

func newKeypair(t *testing.T) keypair {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	var kp keypair
	copy(kp.account[:], pub)
	copy(kp.priv[:], priv)
	return kp
}

func (kp keypair) sign(p crypto.Provider, hash block.Hash) block.Signature {
	return block.Signature(p.Sign(kp.priv, [32]byte(hash)))
}

// openDB returns a fresh bbolt-backed store under the test's temp
// directory.
func openDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(t.TempDir() + "/ledger_test.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedFundedAccount writes an account directly into the store as if it
// had opened with the entire max supply, the way InitGenesis seeds the
// network genesis account — except using a generated keypair so tests
// can sign real spends from it.
func seedFundedAccount(t *testing.T, db *store.DB, p crypto.Provider, kp keypair) block.Hash {
	t.Helper()
	open := &block.Open{SourceHash: block.Hash(kp.account), Rep: kp.account, AccountField: kp.account}
	hash := open.Hash(p)
	if err := db.Update(func(tx *store.Txn) error {
		if err := tx.PutBlock(hash, kp.account, open); err != nil {
			return err
		}
		if err := tx.PutAccount(kp.account, store.AccountInfo{
			Head:       hash,
			RepBlock:   hash,
			OpenBlock:  hash,
			Balance:    amount.Max,
			BlockCount: 1,
		}); err != nil {
			return err
		}
		if err := tx.PutRepresentation(kp.account, amount.Max); err != nil {
			return err
		}
		if err := tx.PutBlockInfo(hash, store.BlockInfo{Account: kp.account, Balance: amount.Max}); err != nil {
			return err
		}
		return tx.PutFrontier(hash, kp.account)
	}); err != nil {
		t.Fatalf("seed funded account: %v", err)
	}
	return hash
}

func newLedger() *Ledger {
	return New(crypto.Native{})
}
