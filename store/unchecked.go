package store

import (
	"errors"

	"github.com/latticecoin/node/block"
)

// Unchecked holds blocks received out of order: their dependency (previous
// or source hash) hasn't been seen yet, so they can't be processed. They
// are keyed by the missing dependency hash and re-queued once that
// dependency arrives. A dependency may unblock more than one waiting
// block, so each key maps to a list of raw encodings rather than one.

func encodeUncheckedList(entries [][]byte) []byte {
	out := make([]byte, 0, 64)
	for _, e := range entries {
		var lenBuf [4]byte
		putUint32(lenBuf[:], uint32(len(e)))
		out = append(out, lenBuf[:]...)
		out = append(out, e...)
	}
	return out
}

func decodeUncheckedList(raw []byte) ([][]byte, error) {
	var entries [][]byte
	for len(raw) > 0 {
		if len(raw) < 4 {
			return nil, errTruncatedUnchecked
		}
		n := getUint32(raw[:4])
		raw = raw[4:]
		if uint32(len(raw)) < n {
			return nil, errTruncatedUnchecked
		}
		entries = append(entries, raw[:n])
		raw = raw[n:]
	}
	return entries, nil
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func getUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

var errTruncatedUnchecked = errors.New("store: unchecked: truncated entry list")

// PutUnchecked appends raw (the tagged wire form of a block awaiting
// dependency, as produced by block.Encode) to the list keyed by
// dependency.
func (t *Txn) PutUnchecked(dependency block.Hash, raw []byte) error {
	bucket := t.bucket(bucketUnchecked)
	existing, err := decodeUncheckedList(bucket.Get(dependency[:]))
	if err != nil {
		return err
	}
	existing = append(existing, raw)
	return bucket.Put(dependency[:], encodeUncheckedList(existing))
}

// TakeUnchecked returns and removes every block waiting on dependency.
func (t *Txn) TakeUnchecked(dependency block.Hash) ([][]byte, error) {
	bucket := t.bucket(bucketUnchecked)
	entries, err := decodeUncheckedList(bucket.Get(dependency[:]))
	if err != nil {
		return nil, err
	}
	if entries == nil {
		return nil, nil
	}
	if err := bucket.Delete(dependency[:]); err != nil {
		return nil, err
	}
	return entries, nil
}
