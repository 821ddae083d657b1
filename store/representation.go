package store

import (
	"fmt"

	"github.com/latticecoin/node/amount"
	"github.com/latticecoin/node/block"
)

// GetRepresentation returns the voting weight currently delegated to rep.
// A representative with no delegated weight has no entry and returns the
// zero amount.
func (t *Txn) GetRepresentation(rep block.Account) (amount.Amount, error) {
	raw := t.bucket(bucketRepresentation).Get(rep[:])
	if raw == nil {
		return amount.Zero, nil
	}
	var b [16]byte
	if len(raw) != 16 {
		return amount.Zero, fmt.Errorf("store: representation: invalid length %d", len(raw))
	}
	copy(b[:], raw)
	return amount.FromBytes16(b), nil
}

// PutRepresentation sets rep's delegated weight, replacing any existing
// value. Removing the entry entirely (weight zero) keeps the table
// smaller than writing explicit zeros, so a zero weight deletes the key.
func (t *Txn) PutRepresentation(rep block.Account, weight amount.Amount) error {
	if weight.IsZero() {
		return t.bucket(bucketRepresentation).Delete(rep[:])
	}
	b := weight.Bytes16()
	return t.bucket(bucketRepresentation).Put(rep[:], b[:])
}

// AddRepresentation adds delta (which may be produced via AbsDiff and
// applied as a credit or debit by the caller) to rep's delegated weight.
func (t *Txn) AddRepresentation(rep block.Account, delta amount.Amount, negative bool) error {
	cur, err := t.GetRepresentation(rep)
	if err != nil {
		return err
	}
	var next amount.Amount
	if negative {
		next, err = amount.Sub(cur, delta)
	} else {
		next, err = amount.Add(cur, delta)
	}
	if err != nil {
		return fmt.Errorf("store: representation: %w", err)
	}
	return t.PutRepresentation(rep, next)
}

// ForEachRepresentation calls fn for every nonzero delegated weight.
func (t *Txn) ForEachRepresentation(fn func(block.Account, amount.Amount) error) error {
	return t.bucket(bucketRepresentation).ForEach(func(k, v []byte) error {
		var rep block.Account
		copy(rep[:], k)
		var b [16]byte
		copy(b[:], v)
		return fn(rep, amount.FromBytes16(b))
	})
}
