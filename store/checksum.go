package store

import "encoding/binary"

// The checksum table holds rolling XOR digests indexed by (region,
// depth). The ledger maintains only the root entry (0, 0), the XOR of
// every applied block hash; other keys are independent digests that only
// their own callers write. Checking two stores' root entries is a cheap
// way to tell whether their block sets might differ before walking
// anything.

func encodeChecksumKey(region uint32, depth uint8) []byte {
	var out [5]byte
	binary.BigEndian.PutUint32(out[0:4], region)
	out[4] = depth
	return out[:]
}

// GetChecksum returns the stored digest for (region, depth), or the zero
// digest if absent.
func (t *Txn) GetChecksum(region uint32, depth uint8) [32]byte {
	raw := t.bucket(bucketChecksum).Get(encodeChecksumKey(region, depth))
	var out [32]byte
	copy(out[:], raw)
	return out
}

// XORChecksum folds delta into the digest at (region, depth) by XOR, the
// update rule that lets the digest be recomputed incrementally as blocks
// are added or rolled back (XOR is its own inverse).
func (t *Txn) XORChecksum(region uint32, depth uint8, delta [32]byte) error {
	cur := t.GetChecksum(region, depth)
	var next [32]byte
	for i := range next {
		next[i] = cur[i] ^ delta[i]
	}
	return t.bucket(bucketChecksum).Put(encodeChecksumKey(region, depth), next[:])
}

// RootChecksum returns the whole-store digest at (0, 0).
func (t *Txn) RootChecksum() [32]byte {
	return t.GetChecksum(0, 0)
}
