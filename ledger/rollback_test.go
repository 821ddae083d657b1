package ledger

import (
	"testing"

	"github.com/latticecoin/node/amount"
	"github.com/latticecoin/node/block"
	"github.com/latticecoin/node/store"
)

// snapshot captures everything Rollback must restore exactly, for a
// before/after comparison around an apply-then-rollback round trip.
type snapshot struct {
	info      store.AccountInfo
	accountOK bool
	checksum  [32]byte
	weight    amount.Amount
}

func takeSnapshot(t *testing.T, db *store.DB, account, rep block.Account) snapshot {
	t.Helper()
	var s snapshot
	db.View(func(tx *store.Txn) error {
		s.checksum = tx.RootChecksum()
		info, err := tx.GetAccount(account)
		if err == nil {
			s.info = info
			s.accountOK = true
		}
		w, err := tx.GetRepresentation(rep)
		if err != nil {
			t.Fatal(err)
		}
		s.weight = w
		return nil
	})
	return s
}

func assertSnapshotsEqual(t *testing.T, before, after snapshot) {
	t.Helper()
	if before.checksum != after.checksum {
		t.Fatalf("checksum changed: before=%x after=%x", before.checksum, after.checksum)
	}
	if before.accountOK != after.accountOK {
		t.Fatalf("account existence changed: before=%v after=%v", before.accountOK, after.accountOK)
	}
	if before.accountOK {
		if before.info != after.info {
			t.Fatalf("account info changed: before=%+v after=%+v", before.info, after.info)
		}
	}
	if amount.Cmp(before.weight, after.weight) != 0 {
		t.Fatalf("representation weight changed: before=%s after=%s", before.weight.Decimal(), after.weight.Decimal())
	}
}

func TestRollbackSendIsIdentity(t *testing.T) {
	db := openDB(t)
	l := newLedger()
	funder := newKeypair(t)
	recipient := newKeypair(t)
	openHash := seedFundedAccount(t, db, l.Crypto, funder)

	before := takeSnapshot(t, db, funder.account, funder.account)

	send := &block.Send{PreviousHash: openHash, Destination: recipient.account, BalanceAfter: amount.FromUint64(42)}
	hash := send.Hash(l.Crypto)
	send.Sig = funder.sign(l.Crypto, hash)

	if err := db.Update(func(tx *store.Txn) error {
		result, err := l.Process(tx, send)
		if err != nil {
			return err
		}
		if result.Code != Progress {
			t.Fatalf("expected progress, got %s", result.Code)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if err := db.Update(func(tx *store.Txn) error {
		return l.Rollback(tx, hash)
	}); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	after := takeSnapshot(t, db, funder.account, funder.account)
	assertSnapshotsEqual(t, before, after)

	db.View(func(tx *store.Txn) error {
		if tx.BlockExists(hash) {
			t.Fatal("rolled-back block should no longer exist")
		}
		if _, err := tx.GetPending(recipient.account, hash); err != store.ErrNotFound {
			t.Fatalf("pending entry should not survive rollback, err=%v", err)
		}
		return nil
	})
}

func TestRollbackOpenRemovesAccount(t *testing.T) {
	db := openDB(t)
	l := newLedger()
	funder := newKeypair(t)
	recipient := newKeypair(t)
	openHash := seedFundedAccount(t, db, l.Crypto, funder)

	send := &block.Send{PreviousHash: openHash, Destination: recipient.account, BalanceAfter: amount.Zero}
	sendHash := send.Hash(l.Crypto)
	send.Sig = funder.sign(l.Crypto, sendHash)
	if err := db.Update(func(tx *store.Txn) error {
		_, err := l.Process(tx, send)
		return err
	}); err != nil {
		t.Fatal(err)
	}

	open := &block.Open{SourceHash: sendHash, Rep: recipient.account, AccountField: recipient.account}
	openHash2 := open.Hash(l.Crypto)
	open.Sig = recipient.sign(l.Crypto, openHash2)
	if err := db.Update(func(tx *store.Txn) error {
		result, err := l.Process(tx, open)
		if err != nil {
			return err
		}
		if result.Code != Progress {
			t.Fatalf("expected progress, got %s", result.Code)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if err := db.Update(func(tx *store.Txn) error {
		return l.Rollback(tx, openHash2)
	}); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	db.View(func(tx *store.Txn) error {
		if tx.AccountExists(recipient.account) {
			t.Fatal("recipient account should not exist after rolling back its open block")
		}
		if _, err := tx.GetPending(recipient.account, sendHash); err != nil {
			t.Fatalf("pending entry should be restored, err=%v", err)
		}
		return nil
	})
}

func TestRollbackChangeRestoresRepresentative(t *testing.T) {
	db := openDB(t)
	l := newLedger()
	funder := newKeypair(t)
	newRep := newKeypair(t)
	openHash := seedFundedAccount(t, db, l.Crypto, funder)

	before := takeSnapshot(t, db, funder.account, funder.account)

	change := &block.Change{PreviousHash: openHash, Rep: newRep.account}
	hash := change.Hash(l.Crypto)
	change.Sig = funder.sign(l.Crypto, hash)
	if err := db.Update(func(tx *store.Txn) error {
		_, err := l.Process(tx, change)
		return err
	}); err != nil {
		t.Fatal(err)
	}

	if err := db.Update(func(tx *store.Txn) error {
		return l.Rollback(tx, hash)
	}); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	after := takeSnapshot(t, db, funder.account, funder.account)
	assertSnapshotsEqual(t, before, after)

	db.View(func(tx *store.Txn) error {
		w, err := tx.GetRepresentation(newRep.account)
		if err != nil {
			t.Fatal(err)
		}
		if !w.IsZero() {
			t.Fatalf("new representative's weight should be reverted to zero, got %s", w.Decimal())
		}
		return nil
	})
}

func TestRollbackStateSendIsIdentity(t *testing.T) {
	db := openDB(t)
	l := newLedger()
	funder := newKeypair(t)
	recipient := newKeypair(t)
	openHash := seedFundedAccount(t, db, l.Crypto, funder)

	// A legacy send gives the chain a real BalanceAfter-bearing block to
	// build the state block on, so the rollback recovers the pre-state
	// balance from the send's in-band balance and must reinstate the
	// frontier entry of a legacy head that is not the open block.
	warmupBalance, err := amount.Sub(amount.Max, amount.FromUint64(1))
	if err != nil {
		t.Fatal(err)
	}
	warmup := &block.Send{PreviousHash: openHash, Destination: recipient.account, BalanceAfter: warmupBalance}
	warmupHash := warmup.Hash(l.Crypto)
	warmup.Sig = funder.sign(l.Crypto, warmupHash)
	if err := db.Update(func(tx *store.Txn) error {
		result, err := l.Process(tx, warmup)
		if err != nil {
			return err
		}
		if result.Code != Progress {
			t.Fatalf("expected progress, got %s", result.Code)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	before := takeSnapshot(t, db, funder.account, funder.account)

	newBalance, err := amount.Sub(warmupBalance, amount.FromUint64(77))
	if err != nil {
		t.Fatal(err)
	}
	st := &block.State{
		AccountField: funder.account,
		PreviousHash: warmupHash,
		Rep:          funder.account,
		Balance:      newBalance,
		Link:         block.Hash(recipient.account),
	}
	hash := st.Hash(l.Crypto)
	st.Sig = funder.sign(l.Crypto, hash)

	if err := db.Update(func(tx *store.Txn) error {
		result, err := l.Process(tx, st)
		if err != nil {
			return err
		}
		if result.Code != Progress {
			t.Fatalf("expected progress, got %s", result.Code)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if err := db.Update(func(tx *store.Txn) error {
		return l.Rollback(tx, hash)
	}); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	after := takeSnapshot(t, db, funder.account, funder.account)
	assertSnapshotsEqual(t, before, after)

	db.View(func(tx *store.Txn) error {
		if tx.BlockExists(hash) {
			t.Fatal("rolled-back state block should no longer exist")
		}
		if _, err := tx.GetPending(recipient.account, hash); err != store.ErrNotFound {
			t.Fatalf("pending entry should not survive rollback, err=%v", err)
		}
		return nil
	})
}

// TestRollbackStateOpenRestoresPending mirrors
// TestProcessStateSendAndReceive's chain-initial state block: a brand-new
// account opened via a state block receiving a pending send is always a
// receive, never a send, regardless of its absolute balance. Rolling it
// back must restore the consumed pending entry and remove the new
// account, not mistake the chain-initial block for a send and cascade
// into the unrelated funder account.
func TestRollbackStateOpenRestoresPending(t *testing.T) {
	db := openDB(t)
	l := newLedger()
	funder := newKeypair(t)
	recipient := newKeypair(t)
	openHash := seedFundedAccount(t, db, l.Crypto, funder)

	spend := amount.FromUint64(250)
	newBalance, err := amount.Sub(amount.Max, spend)
	if err != nil {
		t.Fatal(err)
	}
	stSend := &block.State{
		AccountField: funder.account,
		PreviousHash: openHash,
		Rep:          funder.account,
		Balance:      newBalance,
		Link:         block.Hash(recipient.account),
	}
	sendHash := stSend.Hash(l.Crypto)
	stSend.Sig = funder.sign(l.Crypto, sendHash)
	if err := db.Update(func(tx *store.Txn) error {
		result, err := l.Process(tx, stSend)
		if err != nil {
			return err
		}
		if result.Code != Progress {
			t.Fatalf("expected progress, got %s", result.Code)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	before := takeSnapshot(t, db, funder.account, funder.account)

	stOpen := &block.State{
		AccountField: recipient.account,
		PreviousHash: block.ZeroHash,
		Rep:          recipient.account,
		Balance:      spend,
		Link:         sendHash,
	}
	openHash2 := stOpen.Hash(l.Crypto)
	stOpen.Sig = recipient.sign(l.Crypto, openHash2)
	if err := db.Update(func(tx *store.Txn) error {
		result, err := l.Process(tx, stOpen)
		if err != nil {
			return err
		}
		if result.Code != Progress {
			t.Fatalf("expected progress, got %s", result.Code)
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if err := db.Update(func(tx *store.Txn) error {
		return l.Rollback(tx, openHash2)
	}); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	after := takeSnapshot(t, db, funder.account, funder.account)
	assertSnapshotsEqual(t, before, after)

	db.View(func(tx *store.Txn) error {
		if tx.AccountExists(recipient.account) {
			t.Fatal("recipient account should not exist after rolling back its state-open block")
		}
		entry, err := tx.GetPending(recipient.account, sendHash)
		if err != nil {
			t.Fatalf("pending entry should be restored, err=%v", err)
		}
		if amount.Cmp(entry.Amount, spend) != 0 {
			t.Fatalf("restored pending amount = %s, want %s", entry.Amount.Decimal(), spend.Decimal())
		}
		if entry.Source != funder.account {
			t.Fatalf("restored pending source = %x, want %x", entry.Source, funder.account)
		}
		return nil
	})
}

// TestRollbackCascadesWhenPendingAlreadyConsumed exercises the
// cross-account cascade: rolling back a send whose pending entry was
// already consumed by the recipient's open block must first roll back
// that open (undoing the whole receiving chain) before it can restore
// the pending entry on the sender's side.
func TestRollbackCascadesWhenPendingAlreadyConsumed(t *testing.T) {
	db := openDB(t)
	l := newLedger()
	funder := newKeypair(t)
	recipient := newKeypair(t)
	openHash := seedFundedAccount(t, db, l.Crypto, funder)

	send := &block.Send{PreviousHash: openHash, Destination: recipient.account, BalanceAfter: amount.FromUint64(10)}
	sendHash := send.Hash(l.Crypto)
	send.Sig = funder.sign(l.Crypto, sendHash)
	if err := db.Update(func(tx *store.Txn) error {
		_, err := l.Process(tx, send)
		return err
	}); err != nil {
		t.Fatal(err)
	}

	open := &block.Open{SourceHash: sendHash, Rep: recipient.account, AccountField: recipient.account}
	openHash2 := open.Hash(l.Crypto)
	open.Sig = recipient.sign(l.Crypto, openHash2)
	if err := db.Update(func(tx *store.Txn) error {
		_, err := l.Process(tx, open)
		return err
	}); err != nil {
		t.Fatal(err)
	}

	if err := db.Update(func(tx *store.Txn) error {
		return l.Rollback(tx, sendHash)
	}); err != nil {
		t.Fatalf("rollback send with consumed pending: %v", err)
	}

	db.View(func(tx *store.Txn) error {
		if tx.AccountExists(recipient.account) {
			t.Fatal("recipient's open block should have been cascaded away")
		}
		if tx.BlockExists(sendHash) {
			t.Fatal("send block should no longer exist")
		}
		return nil
	})
}
