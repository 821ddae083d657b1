package store

import "github.com/latticecoin/node/block"

// Frontiers is the reverse index from a legacy chain's head block hash
// back to its owning account. State-block chains are never indexed here:
// their head is read from the account's accounts entry instead.

// GetFrontier returns the account whose legacy chain currently has head
// as its head block.
func (t *Txn) GetFrontier(head block.Hash) (block.Account, error) {
	raw := t.bucket(bucketFrontiers).Get(head[:])
	if raw == nil {
		return block.Account{}, ErrNotFound
	}
	var acc block.Account
	copy(acc[:], raw)
	return acc, nil
}

// PutFrontier records that head is now account's legacy chain head.
func (t *Txn) PutFrontier(head block.Hash, account block.Account) error {
	return t.bucket(bucketFrontiers).Put(head[:], account[:])
}

// DeleteFrontier removes the frontier entry for head, used when the head
// block is superseded or rolled back.
func (t *Txn) DeleteFrontier(head block.Hash) error {
	return t.bucket(bucketFrontiers).Delete(head[:])
}
