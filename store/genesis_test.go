package store

import (
	"testing"

	"github.com/latticecoin/node/amount"
	"github.com/latticecoin/node/crypto"
)

func TestInitGenesisSeedsAccountAndCache(t *testing.T) {
	db := openTestDB(t)
	p := crypto.Native{}

	if err := InitGenesis(db, p, "test"); err != nil {
		t.Fatalf("init genesis: %v", err)
	}

	spec, err := Genesis("test")
	if err != nil {
		t.Fatal(err)
	}
	hash := spec.Open.Hash(p)

	db.View(func(tx *Txn) error {
		if !tx.AccountExists(spec.Account) {
			t.Fatal("genesis account should exist after InitGenesis")
		}
		info, err := tx.GetAccount(spec.Account)
		if err != nil {
			t.Fatalf("get genesis account: %v", err)
		}
		if amount.Cmp(info.Balance, amount.Max) != 0 {
			t.Fatalf("genesis balance = %s, want max supply", info.Balance.Decimal())
		}
		if info.Head != hash || info.OpenBlock != hash {
			t.Fatalf("genesis account head/open mismatch: %+v", info)
		}

		w, err := tx.GetRepresentation(spec.Account)
		if err != nil {
			t.Fatal(err)
		}
		if amount.Cmp(w, amount.Max) != 0 {
			t.Fatalf("genesis representative weight = %s, want max supply", w.Decimal())
		}

		// This is the entry that lets the balance visitor resolve the
		// genesis open without recursing into its self-referential
		// source hash.
		cached, err := tx.GetBlockInfo(hash)
		if err != nil {
			t.Fatalf("genesis block_info cache entry missing: %v", err)
		}
		if cached.Account != spec.Account || amount.Cmp(cached.Balance, amount.Max) != 0 {
			t.Fatalf("genesis cache entry = %+v, want account=%x balance=max", cached, spec.Account)
		}
		return nil
	})
}

func TestInitGenesisIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	p := crypto.Native{}

	if err := InitGenesis(db, p, "test"); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if err := InitGenesis(db, p, "test"); err != nil {
		t.Fatalf("second init should be a no-op, got error: %v", err)
	}
}

func TestGenesisRejectsUnknownNetwork(t *testing.T) {
	if _, err := Genesis("nonexistent"); err == nil {
		t.Fatal("expected an error for an unknown network")
	}
}

func TestGenesisDistinctPerNetwork(t *testing.T) {
	test, err := Genesis("test")
	if err != nil {
		t.Fatal(err)
	}
	beta, err := Genesis("beta")
	if err != nil {
		t.Fatal(err)
	}
	live, err := Genesis("live")
	if err != nil {
		t.Fatal(err)
	}
	if test.Account == beta.Account || test.Account == live.Account || beta.Account == live.Account {
		t.Fatal("each network should have a distinct genesis account")
	}
}
