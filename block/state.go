package block

import (
	"encoding/hex"

	"github.com/latticecoin/node/amount"
	"github.com/latticecoin/node/crypto"
)

// State is the unified replacement block. Hashed fields: account,
// previous, representative, balance, link. Link is the destination on a
// send, the source hash on a receive, or zero on a pure change. Its hash
// is prefixed with the 32-byte state preamble (type tag 6).
type State struct {
	AccountField Account
	PreviousHash Hash
	Rep          Account
	Balance      amount.Amount
	Link         Hash
	Sig          Signature
	WorkNonce    Work
}

func (b *State) Type() Type { return TypeState }

func (b *State) Hash(p crypto.Provider) Hash {
	bal := b.Balance.Bytes16()
	return Hash(p.Hash256(
		statePreamble[:],
		b.AccountField[:],
		b.PreviousHash[:],
		b.Rep[:],
		bal[:],
		b.Link[:],
	))
}

func (b *State) Signature() Signature { return b.Sig }
func (b *State) Work() Work           { return b.WorkNonce }
func (b *State) Previous() Hash       { return b.PreviousHash }

// Source returns the zero hash: the ledger infers the send/receive
// direction from Link rather than from Source().
func (b *State) Source() Hash { return ZeroHash }

// Root is the account for a chain-initial state block (zero previous),
// otherwise the previous hash.
func (b *State) Root(p crypto.Provider) Hash {
	if b.PreviousHash == ZeroHash {
		return Hash(b.AccountField)
	}
	return b.PreviousHash
}

func (b *State) Representative() (Account, bool) { return b.Rep, true }

// ValidPredecessor is always true: state may follow any block variant.
func (b *State) ValidPredecessor(prev Type) bool { return true }

func (b *State) Encode() []byte {
	bal := b.Balance.Bytes16()
	out := make([]byte, 0, 32+32+32+16+32+64+8)
	out = append(out, b.AccountField[:]...)
	out = append(out, b.PreviousHash[:]...)
	out = append(out, b.Rep[:]...)
	out = append(out, bal[:]...)
	out = append(out, b.Link[:]...)
	out = append(out, b.Sig[:]...)
	out = append(out, encodeWorkBE(b.WorkNonce)...)
	return out
}

func (b *State) JSON() (map[string]any, error) {
	return map[string]any{
		"type":           "state",
		"account":        hex.EncodeToString(b.AccountField[:]),
		"previous":       hex.EncodeToString(b.PreviousHash[:]),
		"representative": hex.EncodeToString(b.Rep[:]),
		"balance":        b.Balance.Decimal(),
		"link":           hex.EncodeToString(b.Link[:]),
		"work":           hex.EncodeToString(encodeWorkBE(b.WorkNonce)),
		"signature":      hex.EncodeToString(b.Sig[:]),
	}, nil
}

// DecodeState parses a state block's canonical wire form. Work is stored
// big-endian for state blocks, unlike legacy variants.
func DecodeState(body []byte) (*State, error) {
	const want = 32 + 32 + 32 + 16 + 32 + 64 + 8
	if len(body) != want {
		return nil, parseErr("state", "invalid length")
	}
	var b State
	off := 0
	copy(b.AccountField[:], body[off:off+32])
	off += 32
	copy(b.PreviousHash[:], body[off:off+32])
	off += 32
	copy(b.Rep[:], body[off:off+32])
	off += 32
	var bal [16]byte
	copy(bal[:], body[off:off+16])
	b.Balance = amount.FromBytes16(bal)
	off += 16
	copy(b.Link[:], body[off:off+32])
	off += 32
	copy(b.Sig[:], body[off:off+64])
	off += 64
	b.WorkNonce = decodeWorkBE(body[off : off+8])
	return &b, nil
}
