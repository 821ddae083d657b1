package store

import (
	"bytes"
	"testing"

	"github.com/latticecoin/node/block"
)

func TestUncheckedPutTakeRoundTrip(t *testing.T) {
	db := openTestDB(t)
	dependency := block.Hash{0x01}
	entryA := []byte{0xAA, 0xBB}
	entryB := []byte{0xCC, 0xDD, 0xEE}

	db.Update(func(tx *Txn) error {
		if err := tx.PutUnchecked(dependency, entryA); err != nil {
			return err
		}
		return tx.PutUnchecked(dependency, entryB)
	})

	var taken [][]byte
	db.Update(func(tx *Txn) error {
		var err error
		taken, err = tx.TakeUnchecked(dependency)
		return err
	})

	if len(taken) != 2 {
		t.Fatalf("expected 2 waiting entries, got %d", len(taken))
	}
	if !bytes.Equal(taken[0], entryA) || !bytes.Equal(taken[1], entryB) {
		t.Fatalf("entries out of order or corrupted: %v", taken)
	}

	db.Update(func(tx *Txn) error {
		again, err := tx.TakeUnchecked(dependency)
		if err != nil {
			return err
		}
		if again != nil {
			t.Fatalf("expected nil after a dependency's waiting list is taken, got %v", again)
		}
		return nil
	})
}

func TestTakeUncheckedOnAbsentDependencyReturnsNil(t *testing.T) {
	db := openTestDB(t)
	db.Update(func(tx *Txn) error {
		entries, err := tx.TakeUnchecked(block.Hash{0x99})
		if err != nil {
			t.Fatalf("take unchecked: %v", err)
		}
		if entries != nil {
			t.Fatalf("expected nil entries for an absent dependency, got %v", entries)
		}
		return nil
	})
}
