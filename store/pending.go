package store

import "github.com/latticecoin/node/block"

// GetPending returns the pending entry for (destination, sendHash), if
// the send has not yet been received.
func (t *Txn) GetPending(destination block.Account, sendHash block.Hash) (PendingEntry, error) {
	raw := t.bucket(bucketPending).Get(encodePendingKey(PendingKey{destination, sendHash}))
	if raw == nil {
		return PendingEntry{}, ErrNotFound
	}
	return decodePendingEntry(raw)
}

// PutPending records a new unreceived send.
func (t *Txn) PutPending(destination block.Account, sendHash block.Hash, entry PendingEntry) error {
	return t.bucket(bucketPending).Put(encodePendingKey(PendingKey{destination, sendHash}), encodePendingEntry(entry))
}

// DeletePending removes a pending entry once its send has been received
// (or on rollback of the receive).
func (t *Txn) DeletePending(destination block.Account, sendHash block.Hash) error {
	return t.bucket(bucketPending).Delete(encodePendingKey(PendingKey{destination, sendHash}))
}

// PendingByDestination iterates every pending entry for destination, in
// send-hash order, calling fn for each. The pending key is
// destination||send_hash, so a prefix scan over destination's 32 bytes
// visits exactly its entries without a secondary index. fn's returned
// error aborts the scan and is returned to the caller.
func (t *Txn) PendingByDestination(destination block.Account, fn func(sendHash block.Hash, entry PendingEntry) error) error {
	c := t.bucket(bucketPending).Cursor()
	prefix := destination[:]
	for k, v := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = c.Next() {
		key, err := decodePendingKey(k)
		if err != nil {
			return err
		}
		entry, err := decodePendingEntry(v)
		if err != nil {
			return err
		}
		if err := fn(key.SendHash, entry); err != nil {
			return err
		}
	}
	return nil
}

// ForEachPending calls fn for every pending entry in the store, across all
// destinations.
func (t *Txn) ForEachPending(fn func(PendingKey, PendingEntry) error) error {
	return t.bucket(bucketPending).ForEach(func(k, v []byte) error {
		key, err := decodePendingKey(k)
		if err != nil {
			return err
		}
		entry, err := decodePendingEntry(v)
		if err != nil {
			return err
		}
		return fn(key, entry)
	})
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if b[i] != p {
			return false
		}
	}
	return true
}
