package store

import (
	"encoding/binary"
	"fmt"

	"github.com/latticecoin/node/block"
)

// StoredVote is the vote table's cached last-seen vote per representative:
// the sequence number and root it voted for, used to reject stale replays
// and detect a representative switching its vote.
type StoredVote struct {
	Sequence uint64
	Root     block.Hash
	Hash     block.Hash
}

func encodeStoredVote(v StoredVote) []byte {
	out := make([]byte, 0, 8+32+32)
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], v.Sequence)
	out = append(out, seq[:]...)
	out = append(out, v.Root[:]...)
	out = append(out, v.Hash[:]...)
	return out
}

func decodeStoredVote(b []byte) (StoredVote, error) {
	if len(b) != 8+32+32 {
		return StoredVote{}, fmt.Errorf("store: vote: invalid length %d", len(b))
	}
	var v StoredVote
	v.Sequence = binary.BigEndian.Uint64(b[0:8])
	copy(v.Root[:], b[8:40])
	copy(v.Hash[:], b[40:72])
	return v, nil
}

// GetVote returns the last vote recorded for rep.
func (t *Txn) GetVote(rep block.Account) (StoredVote, error) {
	raw := t.bucket(bucketVote).Get(rep[:])
	if raw == nil {
		return StoredVote{}, ErrNotFound
	}
	return decodeStoredVote(raw)
}

// PutVote records rep's latest vote, replacing whatever was there.
func (t *Txn) PutVote(rep block.Account, v StoredVote) error {
	return t.bucket(bucketVote).Put(rep[:], encodeStoredVote(v))
}
