package store

import (
	"fmt"

	"github.com/latticecoin/node/block"
)

// Each block-body bucket stores, per hash key, the block's own encoding
// followed by a trailing sideband: a 32-byte successor hash (the zero
// hash when the block has no recorded successor yet) and the 32-byte
// owning account. The successor pointer lets the ledger walk a chain
// forward without a separate index; the account lets rollback identify
// which chain an arbitrary block hash belongs to without a backward scan
// from the nearest blocks_info checkpoint.
const sidebandLen = 32 + 32

func bucketForType(t block.Type) ([]byte, error) {
	switch t {
	case block.TypeSend:
		return bucketSendBlocks, nil
	case block.TypeReceive:
		return bucketReceiveBlocks, nil
	case block.TypeOpen:
		return bucketOpenBlocks, nil
	case block.TypeChange:
		return bucketChangeBlocks, nil
	case block.TypeState:
		return bucketStateBlocks, nil
	default:
		return nil, fmt.Errorf("store: no block table for type %s", t)
	}
}

var blockBuckets = []([]byte){
	bucketSendBlocks, bucketReceiveBlocks, bucketOpenBlocks, bucketChangeBlocks, bucketStateBlocks,
}

func blockTypeForIndex(i int) block.Type {
	switch i {
	case 0:
		return block.TypeSend
	case 1:
		return block.TypeReceive
	case 2:
		return block.TypeOpen
	case 3:
		return block.TypeChange
	default:
		return block.TypeState
	}
}

func decodeBlockBody(t block.Type, body []byte) (block.Block, error) {
	switch t {
	case block.TypeSend:
		return block.DecodeSend(body)
	case block.TypeReceive:
		return block.DecodeReceive(body)
	case block.TypeOpen:
		return block.DecodeOpen(body)
	case block.TypeChange:
		return block.DecodeChange(body)
	case block.TypeState:
		return block.DecodeState(body)
	default:
		return nil, fmt.Errorf("store: unknown block type %s", t)
	}
}

func appendSideband(body []byte, successor block.Hash, account block.Account) []byte {
	out := make([]byte, 0, len(body)+sidebandLen)
	out = append(out, body...)
	out = append(out, successor[:]...)
	out = append(out, account[:]...)
	return out
}

func splitSideband(raw []byte) (body []byte, successor block.Hash, account block.Account, err error) {
	if len(raw) < sidebandLen {
		return nil, block.Hash{}, block.Account{}, fmt.Errorf("store: block record: truncated sideband")
	}
	body = raw[:len(raw)-sidebandLen]
	copy(successor[:], raw[len(raw)-sidebandLen:len(raw)-32])
	copy(account[:], raw[len(raw)-32:])
	return body, successor, account, nil
}

// PutBlock writes b into its type's table, keyed by hash, tagging it with
// owner as its owning account and preserving any existing successor
// pointer (or the zero hash, for a newly applied block).
func (t *Txn) PutBlock(hash block.Hash, owner block.Account, b block.Block) error {
	bk, err := bucketForType(b.Type())
	if err != nil {
		return err
	}
	bucket := t.bucket(bk)
	successor := block.ZeroHash
	if existing := bucket.Get(hash[:]); existing != nil {
		if _, prevSuccessor, _, err := splitSideband(existing); err == nil {
			successor = prevSuccessor
		}
	}
	return bucket.Put(hash[:], appendSideband(b.Encode(), successor, owner))
}

// BlockRecord is a decoded block plus its sideband.
type BlockRecord struct {
	Block     block.Block
	Successor block.Hash
	Account   block.Account
}

// GetBlock reads and decodes the block stored under hash, trying each
// variant's table in turn.
func (t *Txn) GetBlock(hash block.Hash) (BlockRecord, error) {
	for i, bk := range blockBuckets {
		raw := t.bucket(bk).Get(hash[:])
		if raw == nil {
			continue
		}
		body, successor, account, err := splitSideband(raw)
		if err != nil {
			return BlockRecord{}, err
		}
		decoded, err := decodeBlockBody(blockTypeForIndex(i), body)
		if err != nil {
			return BlockRecord{}, err
		}
		return BlockRecord{Block: decoded, Successor: successor, Account: account}, nil
	}
	return BlockRecord{}, ErrNotFound
}

// SetSuccessor patches the trailing successor-hash field of the block
// stored under hash, without touching its body or owning account.
func (t *Txn) SetSuccessor(hash block.Hash, successor block.Hash) error {
	for _, bk := range blockBuckets {
		bucket := t.bucket(bk)
		raw := bucket.Get(hash[:])
		if raw == nil {
			continue
		}
		body, _, account, err := splitSideband(raw)
		if err != nil {
			return err
		}
		return bucket.Put(hash[:], appendSideband(body, successor, account))
	}
	return ErrNotFound
}

// DeleteBlock removes the block stored under hash from whichever table
// holds it.
func (t *Txn) DeleteBlock(hash block.Hash) error {
	for _, bk := range blockBuckets {
		bucket := t.bucket(bk)
		if bucket.Get(hash[:]) != nil {
			return bucket.Delete(hash[:])
		}
	}
	return ErrNotFound
}

// BlockExists reports whether hash is present in any block table.
func (t *Txn) BlockExists(hash block.Hash) bool {
	for _, bk := range blockBuckets {
		if t.bucket(bk).Get(hash[:]) != nil {
			return true
		}
	}
	return false
}
