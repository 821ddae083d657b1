package store

import "github.com/latticecoin/node/block"

// Unsynced tracks hashes of blocks known locally but not yet broadcast.
// It is a set: presence is the only signal.

var unsyncedPresent = []byte{1}

// MarkUnsynced records hash as known locally but not yet broadcast.
func (t *Txn) MarkUnsynced(hash block.Hash) error {
	return t.bucket(bucketUnsynced).Put(hash[:], unsyncedPresent)
}

// ClearUnsynced removes hash from the unsynced set, once it has been
// broadcast.
func (t *Txn) ClearUnsynced(hash block.Hash) error {
	return t.bucket(bucketUnsynced).Delete(hash[:])
}

// IsUnsynced reports whether hash is still outstanding.
func (t *Txn) IsUnsynced(hash block.Hash) bool {
	return t.bucket(bucketUnsynced).Get(hash[:]) != nil
}

// ForEachUnsynced calls fn for every outstanding hash, in key order.
func (t *Txn) ForEachUnsynced(fn func(block.Hash) error) error {
	return t.bucket(bucketUnsynced).ForEach(func(k, v []byte) error {
		var h block.Hash
		copy(h[:], k)
		return fn(h)
	})
}
