package ledger

import (
	"testing"

	"github.com/latticecoin/node/amount"
	"github.com/latticecoin/node/block"
	"github.com/latticecoin/node/store"
)

func TestTallySumsWeightPerBlockAndOrdersDescending(t *testing.T) {
	db := openDB(t)
	l := newLedger()
	repA := newKeypair(t)
	repB := newKeypair(t)
	repC := newKeypair(t)

	weightA := amount.FromUint64(100)
	weightB := amount.FromUint64(250)
	weightC := amount.FromUint64(50)
	db.Update(func(tx *store.Txn) error {
		if err := tx.PutRepresentation(repA.account, weightA); err != nil {
			return err
		}
		if err := tx.PutRepresentation(repB.account, weightB); err != nil {
			return err
		}
		return tx.PutRepresentation(repC.account, weightC)
	})

	blockX := block.Hash{0x01}
	blockY := block.Hash{0x02}
	choices := map[block.Account]block.Hash{
		repA.account: blockX,
		repB.account: blockY,
		repC.account: blockX,
	}

	var entries []TallyEntry
	db.View(func(tx *store.Txn) error {
		var err error
		entries, err = l.Tally(tx, choices, 1_000_000)
		return err
	})

	if len(entries) != 2 {
		t.Fatalf("expected 2 candidate blocks, got %d", len(entries))
	}
	wantX, err := amount.Add(weightA, weightC)
	if err != nil {
		t.Fatal(err)
	}
	// blockY (repB alone, weight 250) outweighs blockX (repA+repC, weight
	// 150) even though two reps chose blockX.
	if entries[0].Block != blockY {
		t.Fatalf("expected blockY to lead (higher combined weight), got %x", entries[0].Block)
	}
	if amount.Cmp(entries[0].Weight, weightB) != 0 {
		t.Fatalf("blockY weight = %s, want %s", entries[0].Weight.Decimal(), weightB.Decimal())
	}
	if entries[1].Block != blockX {
		t.Fatalf("expected blockX second, got %x", entries[1].Block)
	}
	if amount.Cmp(entries[1].Weight, wantX) != 0 {
		t.Fatalf("blockX weight = %s, want %s", entries[1].Weight.Decimal(), wantX.Decimal())
	}

	winner, ok := Winner(entries)
	if !ok {
		t.Fatal("expected a winner")
	}
	if winner != blockY {
		t.Fatalf("winner = %x, want %x", winner, blockY)
	}
}

func TestTallyTieBreaksOnDescendingHash(t *testing.T) {
	db := openDB(t)
	l := newLedger()
	repA := newKeypair(t)
	repB := newKeypair(t)

	tiedWeight := amount.FromUint64(500)
	db.Update(func(tx *store.Txn) error {
		if err := tx.PutRepresentation(repA.account, tiedWeight); err != nil {
			return err
		}
		return tx.PutRepresentation(repB.account, tiedWeight)
	})

	lesser := block.Hash{0x01}
	greater := block.Hash{0xFF}
	choices := map[block.Account]block.Hash{
		repA.account: lesser,
		repB.account: greater,
	}

	var entries []TallyEntry
	db.View(func(tx *store.Txn) error {
		var err error
		entries, err = l.Tally(tx, choices, 1_000_000)
		return err
	})

	if len(entries) != 2 {
		t.Fatalf("expected 2 candidate blocks, got %d", len(entries))
	}
	if amount.Cmp(entries[0].Weight, entries[1].Weight) != 0 {
		t.Fatalf("tied weights should stay tied, got %s vs %s", entries[0].Weight.Decimal(), entries[1].Weight.Decimal())
	}
	if entries[0].Block != greater {
		t.Fatalf("expected lexicographically greater hash to sort first, got %x", entries[0].Block)
	}
}

func TestTallyWinnerEmptyWithoutVotes(t *testing.T) {
	if _, ok := Winner(nil); ok {
		t.Fatal("expected no winner for an empty tally")
	}
}

func TestTallyUsesBootstrapWeightBelowThreshold(t *testing.T) {
	db := openDB(t)
	l := newLedger()
	rep := newKeypair(t)

	db.Update(func(tx *store.Txn) error {
		return tx.PutRepresentation(rep.account, amount.FromUint64(1))
	})

	l.BootstrapWeightMaxBlocks = 1000
	l.BootstrapWeights = map[block.Account]amount.Amount{
		rep.account: amount.FromUint64(999_999),
	}

	choice := block.Hash{0x7A}
	choices := map[block.Account]block.Hash{rep.account: choice}

	var below, above []TallyEntry
	db.View(func(tx *store.Txn) error {
		var err error
		below, err = l.Tally(tx, choices, 500)
		return err
	})
	db.View(func(tx *store.Txn) error {
		var err error
		above, err = l.Tally(tx, choices, 5000)
		return err
	})

	if amount.Cmp(below[0].Weight, amount.FromUint64(999_999)) != 0 {
		t.Fatalf("below threshold should use bootstrap weight, got %s", below[0].Weight.Decimal())
	}
	if amount.Cmp(above[0].Weight, amount.FromUint64(1)) != 0 {
		t.Fatalf("above threshold should use live representation weight, got %s", above[0].Weight.Decimal())
	}
}
