package store

import (
	"encoding/binary"
	"fmt"

	"github.com/latticecoin/node/amount"
	"github.com/latticecoin/node/block"
)

// AccountInfo is the accounts table value: per-account head and summary.
type AccountInfo struct {
	Head             block.Hash
	RepBlock         block.Hash
	OpenBlock        block.Hash
	Balance          amount.Amount
	ModifiedEpochSec uint64
	BlockCount       uint64
}

const accountInfoSize = 32 + 32 + 32 + 16 + 8 + 8

func encodeAccountInfo(a AccountInfo) []byte {
	out := make([]byte, 0, accountInfoSize)
	out = append(out, a.Head[:]...)
	out = append(out, a.RepBlock[:]...)
	out = append(out, a.OpenBlock[:]...)
	bal := a.Balance.Bytes16()
	out = append(out, bal[:]...)
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], a.ModifiedEpochSec)
	out = append(out, tmp[:]...)
	binary.LittleEndian.PutUint64(tmp[:], a.BlockCount)
	out = append(out, tmp[:]...)
	return out
}

func decodeAccountInfo(b []byte) (AccountInfo, error) {
	if len(b) != accountInfoSize {
		return AccountInfo{}, fmt.Errorf("store: account_info: invalid length %d", len(b))
	}
	var a AccountInfo
	off := 0
	copy(a.Head[:], b[off:off+32])
	off += 32
	copy(a.RepBlock[:], b[off:off+32])
	off += 32
	copy(a.OpenBlock[:], b[off:off+32])
	off += 32
	var bal [16]byte
	copy(bal[:], b[off:off+16])
	a.Balance = amount.FromBytes16(bal)
	off += 16
	a.ModifiedEpochSec = binary.LittleEndian.Uint64(b[off : off+8])
	off += 8
	a.BlockCount = binary.LittleEndian.Uint64(b[off : off+8])
	return a, nil
}

// PendingKey is the pending table key: (destination account, send hash).
type PendingKey struct {
	Destination block.Account
	SendHash    block.Hash
}

func encodePendingKey(k PendingKey) []byte {
	out := make([]byte, 0, 64)
	out = append(out, k.Destination[:]...)
	out = append(out, k.SendHash[:]...)
	return out
}

func decodePendingKey(b []byte) (PendingKey, error) {
	if len(b) != 64 {
		return PendingKey{}, fmt.Errorf("store: pending key: invalid length %d", len(b))
	}
	var k PendingKey
	copy(k.Destination[:], b[0:32])
	copy(k.SendHash[:], b[32:64])
	return k, nil
}

// PendingEntry is the pending table value: the sending account and the
// unreceived amount.
type PendingEntry struct {
	Source block.Account
	Amount amount.Amount
}

func encodePendingEntry(e PendingEntry) []byte {
	out := make([]byte, 0, 48)
	out = append(out, e.Source[:]...)
	bal := e.Amount.Bytes16()
	out = append(out, bal[:]...)
	return out
}

func decodePendingEntry(b []byte) (PendingEntry, error) {
	if len(b) != 48 {
		return PendingEntry{}, fmt.Errorf("store: pending entry: invalid length %d", len(b))
	}
	var e PendingEntry
	copy(e.Source[:], b[0:32])
	var bal [16]byte
	copy(bal[:], b[32:48])
	e.Amount = amount.FromBytes16(bal)
	return e, nil
}

// BlockInfo is the blocks_info table value: the cached summary written
// every 32nd block.
type BlockInfo struct {
	Account block.Account
	Balance amount.Amount
}

func encodeBlockInfo(i BlockInfo) []byte {
	out := make([]byte, 0, 48)
	out = append(out, i.Account[:]...)
	bal := i.Balance.Bytes16()
	out = append(out, bal[:]...)
	return out
}

func decodeBlockInfo(b []byte) (BlockInfo, error) {
	if len(b) != 48 {
		return BlockInfo{}, fmt.Errorf("store: blocks_info: invalid length %d", len(b))
	}
	var i BlockInfo
	copy(i.Account[:], b[0:32])
	var bal [16]byte
	copy(bal[:], b[32:48])
	i.Balance = amount.FromBytes16(bal)
	return i, nil
}
