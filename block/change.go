package block

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/latticecoin/node/crypto"
)

// Change re-delegates voting weight without moving balance. Hashed fields:
// previous, representative.
type Change struct {
	PreviousHash Hash
	Rep          Account
	Sig          Signature
	WorkNonce    Work
}

func (b *Change) Type() Type { return TypeChange }

func (b *Change) Hash(p crypto.Provider) Hash {
	return Hash(p.Hash256(b.PreviousHash[:], b.Rep[:]))
}

func (b *Change) Signature() Signature            { return b.Sig }
func (b *Change) Work() Work                      { return b.WorkNonce }
func (b *Change) Previous() Hash                  { return b.PreviousHash }
func (b *Change) Source() Hash                    { return ZeroHash }
func (b *Change) Root(p crypto.Provider) Hash     { return b.PreviousHash }
func (b *Change) Representative() (Account, bool) { return b.Rep, true }
func (b *Change) ValidPredecessor(prev Type) bool { return legacyValidPredecessor(prev) }

func (b *Change) Encode() []byte {
	out := make([]byte, 0, 32+32+64+8)
	out = append(out, b.PreviousHash[:]...)
	out = append(out, b.Rep[:]...)
	out = append(out, b.Sig[:]...)
	var w [8]byte
	binary.LittleEndian.PutUint64(w[:], uint64(b.WorkNonce))
	out = append(out, w[:]...)
	return out
}

func (b *Change) JSON() (map[string]any, error) {
	return map[string]any{
		"type":           "change",
		"previous":       hex.EncodeToString(b.PreviousHash[:]),
		"representative": hex.EncodeToString(b.Rep[:]),
		"work":           hex.EncodeToString(encodeWorkBE(b.WorkNonce)),
		"signature":      hex.EncodeToString(b.Sig[:]),
	}, nil
}

// DecodeChange parses a change block's canonical wire form.
func DecodeChange(body []byte) (*Change, error) {
	const want = 32 + 32 + 64 + 8
	if len(body) != want {
		return nil, parseErr("change", "invalid length")
	}
	var b Change
	off := 0
	copy(b.PreviousHash[:], body[off:off+32])
	off += 32
	copy(b.Rep[:], body[off:off+32])
	off += 32
	copy(b.Sig[:], body[off:off+64])
	off += 64
	b.WorkNonce = Work(binary.LittleEndian.Uint64(body[off : off+8]))
	return &b, nil
}
