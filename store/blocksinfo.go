package store

import "github.com/latticecoin/node/block"

// blocksInfoInterval is the chain-position stride at which a block's
// owning account and running balance are cached in blocks_info, avoiding
// a full backward walk for infrequent balance queries.
const blocksInfoInterval = 32

// GetBlockInfo returns the cached (account, balance) pair for hash, if
// hash fell on a caching boundary when it was processed.
func (t *Txn) GetBlockInfo(hash block.Hash) (BlockInfo, error) {
	raw := t.bucket(bucketBlocksInfo).Get(hash[:])
	if raw == nil {
		return BlockInfo{}, ErrNotFound
	}
	return decodeBlockInfo(raw)
}

// PutBlockInfo writes the cache entry for hash.
func (t *Txn) PutBlockInfo(hash block.Hash, info BlockInfo) error {
	return t.bucket(bucketBlocksInfo).Put(hash[:], encodeBlockInfo(info))
}

// DeleteBlockInfo removes hash's cache entry, used on rollback.
func (t *Txn) DeleteBlockInfo(hash block.Hash) error {
	return t.bucket(bucketBlocksInfo).Delete(hash[:])
}

// ShouldCacheBlockInfo reports whether a block at the given 1-based chain
// height (its account's block_count after applying it) falls on a
// blocks_info caching boundary.
func ShouldCacheBlockInfo(heightAfter uint64) bool {
	return heightAfter%blocksInfoInterval == 0
}
