// Package amount implements the 128-bit unsigned integer used for ledger
// balances, transfer amounts, and representative weights.
package amount

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
)

// Amount is an unsigned 128-bit integer stored as (Hi, Lo) big-endian halves.
type Amount struct {
	Hi uint64
	Lo uint64
}

// Zero is the additive identity.
var Zero = Amount{}

// Max is 2^128-1, the genesis supply.
var Max = Amount{Hi: ^uint64(0), Lo: ^uint64(0)}

// FromUint64 builds an Amount from a native uint64.
func FromUint64(v uint64) Amount { return Amount{Lo: v} }

// FromBytes16 decodes a big-endian 16-byte amount.
func FromBytes16(b [16]byte) Amount {
	return Amount{
		Hi: binary.BigEndian.Uint64(b[0:8]),
		Lo: binary.BigEndian.Uint64(b[8:16]),
	}
}

// Bytes16 encodes the amount as big-endian 16 bytes, matching the legacy
// block wire form for balances.
func (a Amount) Bytes16() [16]byte {
	var out [16]byte
	binary.BigEndian.PutUint64(out[0:8], a.Hi)
	binary.BigEndian.PutUint64(out[8:16], a.Lo)
	return out
}

func (a Amount) big() *big.Int {
	v := new(big.Int).SetUint64(a.Hi)
	v.Lsh(v, 64)
	v.Or(v, new(big.Int).SetUint64(a.Lo))
	return v
}

func fromBig(v *big.Int) (Amount, error) {
	if v.Sign() < 0 {
		return Amount{}, fmt.Errorf("amount: negative result")
	}
	if v.BitLen() > 128 {
		return Amount{}, fmt.Errorf("amount: overflow")
	}
	var b [16]byte
	v.FillBytes(b[:])
	return FromBytes16(b), nil
}

// Add returns a+b, or an error on overflow past 2^128-1.
func Add(a, b Amount) (Amount, error) {
	return fromBig(new(big.Int).Add(a.big(), b.big()))
}

// Sub returns a-b, or an error if b > a.
func Sub(a, b Amount) (Amount, error) {
	return fromBig(new(big.Int).Sub(a.big(), b.big()))
}

// AbsDiff returns |a-b|, never erroring.
func AbsDiff(a, b Amount) Amount {
	d := new(big.Int).Sub(a.big(), b.big())
	d.Abs(d)
	out, _ := fromBig(d) // |a-b| of two 128-bit values always fits in 128 bits.
	return out
}

// Cmp returns -1, 0, or 1 as a is less than, equal to, or greater than b.
func Cmp(a, b Amount) int {
	if a.Hi != b.Hi {
		if a.Hi < b.Hi {
			return -1
		}
		return 1
	}
	if a.Lo != b.Lo {
		if a.Lo < b.Lo {
			return -1
		}
		return 1
	}
	return 0
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool { return a.Hi == 0 && a.Lo == 0 }

// Hex renders the amount as 32 lowercase hex characters (legacy block wire form).
func (a Amount) Hex() string {
	b := a.Bytes16()
	return fmt.Sprintf("%x", b[:])
}

// Decimal renders the amount in base-10 (state block wire form).
func (a Amount) Decimal() string { return a.big().String() }

// ParseDecimal parses a base-10 amount string.
func ParseDecimal(s string) (Amount, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, fmt.Errorf("amount: invalid decimal %q", s)
	}
	return fromBig(v)
}

// ParseHex parses a hex amount string (legacy block wire form, 32 chars).
func ParseHex(s string) (Amount, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("amount: invalid hex %q: %w", s, err)
	}
	if len(raw) > 16 {
		return Amount{}, fmt.Errorf("amount: hex %q too long", s)
	}
	var b [16]byte
	copy(b[16-len(raw):], raw)
	return FromBytes16(b), nil
}
