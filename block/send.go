package block

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/latticecoin/node/amount"
	"github.com/latticecoin/node/crypto"
)

// Send debits the sender's chain and creates a pending entry for
// Destination. Hashed fields: previous, destination, balance-after.
type Send struct {
	PreviousHash Hash
	Destination  Account
	BalanceAfter amount.Amount
	Sig          Signature
	WorkNonce    Work
}

func (b *Send) Type() Type { return TypeSend }

func (b *Send) Hash(p crypto.Provider) Hash {
	bal := b.BalanceAfter.Bytes16()
	return Hash(p.Hash256(b.PreviousHash[:], b.Destination[:], bal[:]))
}

func (b *Send) Signature() Signature { return b.Sig }
func (b *Send) Work() Work           { return b.WorkNonce }
func (b *Send) Previous() Hash       { return b.PreviousHash }
func (b *Send) Source() Hash         { return Hash{} }

func (b *Send) Root(p crypto.Provider) Hash { return b.PreviousHash }

func (b *Send) Representative() (Account, bool) { return Account{}, false }

func (b *Send) ValidPredecessor(prev Type) bool { return legacyValidPredecessor(prev) }

func (b *Send) Encode() []byte {
	bal := b.BalanceAfter.Bytes16()
	out := make([]byte, 0, 32+32+16+64+8)
	out = append(out, b.PreviousHash[:]...)
	out = append(out, b.Destination[:]...)
	out = append(out, bal[:]...)
	out = append(out, b.Sig[:]...)
	var w [8]byte
	binary.LittleEndian.PutUint64(w[:], uint64(b.WorkNonce))
	out = append(out, w[:]...)
	return out
}

func (b *Send) JSON() (map[string]any, error) {
	return map[string]any{
		"type":        "send",
		"previous":    hex.EncodeToString(b.PreviousHash[:]),
		"destination": hex.EncodeToString(b.Destination[:]),
		"balance":     b.BalanceAfter.Hex(),
		"work":        hex.EncodeToString(encodeWorkBE(b.WorkNonce)),
		"signature":   hex.EncodeToString(b.Sig[:]),
	}, nil
}

// DecodeSend parses a send block's canonical wire form (hashables,
// signature, work; work is native-endian for legacy types).
func DecodeSend(body []byte) (*Send, error) {
	const want = 32 + 32 + 16 + 64 + 8
	if len(body) != want {
		return nil, parseErr("send", "invalid length")
	}
	var b Send
	off := 0
	copy(b.PreviousHash[:], body[off:off+32])
	off += 32
	copy(b.Destination[:], body[off:off+32])
	off += 32
	var bal [16]byte
	copy(bal[:], body[off:off+16])
	b.BalanceAfter = amount.FromBytes16(bal)
	off += 16
	copy(b.Sig[:], body[off:off+64])
	off += 64
	b.WorkNonce = Work(binary.LittleEndian.Uint64(body[off : off+8]))
	return &b, nil
}
