package block

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/latticecoin/node/crypto"
)

// Open is the first block of a legacy account chain. Hashed fields:
// source, representative, account.
type Open struct {
	SourceHash     Hash
	Rep            Account
	AccountField   Account
	Sig            Signature
	WorkNonce      Work
}

func (b *Open) Type() Type { return TypeOpen }

func (b *Open) Hash(p crypto.Provider) Hash {
	return Hash(p.Hash256(b.SourceHash[:], b.Rep[:], b.AccountField[:]))
}

func (b *Open) Signature() Signature { return b.Sig }
func (b *Open) Work() Work           { return b.WorkNonce }

// Previous returns the zero hash: open has no predecessor.
func (b *Open) Previous() Hash { return ZeroHash }
func (b *Open) Source() Hash   { return b.SourceHash }

// Root is the account itself: open is a chain-initial block.
func (b *Open) Root(p crypto.Provider) Hash { return Hash(b.AccountField) }

func (b *Open) Representative() (Account, bool) { return b.Rep, true }

// ValidPredecessor is always false: open can never follow another block.
func (b *Open) ValidPredecessor(prev Type) bool { return false }

func (b *Open) Encode() []byte {
	out := make([]byte, 0, 32+32+32+64+8)
	out = append(out, b.SourceHash[:]...)
	out = append(out, b.Rep[:]...)
	out = append(out, b.AccountField[:]...)
	out = append(out, b.Sig[:]...)
	var w [8]byte
	binary.LittleEndian.PutUint64(w[:], uint64(b.WorkNonce))
	out = append(out, w[:]...)
	return out
}

func (b *Open) JSON() (map[string]any, error) {
	return map[string]any{
		"type":           "open",
		"source":         hex.EncodeToString(b.SourceHash[:]),
		"representative": hex.EncodeToString(b.Rep[:]),
		"account":        hex.EncodeToString(b.AccountField[:]),
		"work":           hex.EncodeToString(encodeWorkBE(b.WorkNonce)),
		"signature":      hex.EncodeToString(b.Sig[:]),
	}, nil
}

// DecodeOpen parses an open block's canonical wire form.
func DecodeOpen(body []byte) (*Open, error) {
	const want = 32 + 32 + 32 + 64 + 8
	if len(body) != want {
		return nil, parseErr("open", "invalid length")
	}
	var b Open
	off := 0
	copy(b.SourceHash[:], body[off:off+32])
	off += 32
	copy(b.Rep[:], body[off:off+32])
	off += 32
	copy(b.AccountField[:], body[off:off+32])
	off += 32
	copy(b.Sig[:], body[off:off+64])
	off += 64
	b.WorkNonce = Work(binary.LittleEndian.Uint64(body[off : off+8]))
	return &b, nil
}
