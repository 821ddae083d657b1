package block

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/latticecoin/node/crypto"
)

// Receive credits the recipient's chain, consuming the pending entry
// created by the referenced send. Hashed fields: previous, source.
type Receive struct {
	PreviousHash Hash
	SourceHash   Hash
	Sig          Signature
	WorkNonce    Work
}

func (b *Receive) Type() Type { return TypeReceive }

func (b *Receive) Hash(p crypto.Provider) Hash {
	return Hash(p.Hash256(b.PreviousHash[:], b.SourceHash[:]))
}

func (b *Receive) Signature() Signature         { return b.Sig }
func (b *Receive) Work() Work                   { return b.WorkNonce }
func (b *Receive) Previous() Hash               { return b.PreviousHash }
func (b *Receive) Source() Hash                 { return b.SourceHash }
func (b *Receive) Root(p crypto.Provider) Hash  { return b.PreviousHash }
func (b *Receive) Representative() (Account, bool) { return Account{}, false }
func (b *Receive) ValidPredecessor(prev Type) bool { return legacyValidPredecessor(prev) }

func (b *Receive) Encode() []byte {
	out := make([]byte, 0, 32+32+64+8)
	out = append(out, b.PreviousHash[:]...)
	out = append(out, b.SourceHash[:]...)
	out = append(out, b.Sig[:]...)
	var w [8]byte
	binary.LittleEndian.PutUint64(w[:], uint64(b.WorkNonce))
	out = append(out, w[:]...)
	return out
}

func (b *Receive) JSON() (map[string]any, error) {
	return map[string]any{
		"type":      "receive",
		"previous":  hex.EncodeToString(b.PreviousHash[:]),
		"source":    hex.EncodeToString(b.SourceHash[:]),
		"work":      hex.EncodeToString(encodeWorkBE(b.WorkNonce)),
		"signature": hex.EncodeToString(b.Sig[:]),
	}, nil
}

// DecodeReceive parses a receive block's canonical wire form.
func DecodeReceive(body []byte) (*Receive, error) {
	const want = 32 + 32 + 64 + 8
	if len(body) != want {
		return nil, parseErr("receive", "invalid length")
	}
	var b Receive
	off := 0
	copy(b.PreviousHash[:], body[off:off+32])
	off += 32
	copy(b.SourceHash[:], body[off:off+32])
	off += 32
	copy(b.Sig[:], body[off:off+64])
	off += 64
	b.WorkNonce = Work(binary.LittleEndian.Uint64(body[off : off+8]))
	return &b, nil
}
