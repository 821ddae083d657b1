// Package block implements the five block-lattice block variants: their
// typed hashables, canonical binary/textual encodings, hash computation,
// and predecessor rules.
package block

import (
	"fmt"

	"github.com/latticecoin/node/crypto"
)

// Account is a 256-bit Ed25519 public key.
type Account [32]byte

// Hash is a 256-bit Blake2b digest identifying a block.
type Hash [32]byte

// Signature is a 512-bit Ed25519 signature over a block's Hash.
type Signature [64]byte

// Work is the 64-bit proof-of-work nonce. The core stores it but never
// verifies it: work-proof generation/verification is a collaborator
// concern.
type Work uint64

// Burn is the designated burn account: the all-zero public key.
var Burn Account

// Type is the wire tag selecting a block variant.
type Type byte

const (
	TypeInvalid   Type = 0
	TypeNotABlock Type = 1
	TypeSend      Type = 2
	TypeReceive   Type = 3
	TypeOpen      Type = 4
	TypeChange    Type = 5
	TypeState     Type = 6
)

func (t Type) String() string {
	switch t {
	case TypeSend:
		return "send"
	case TypeReceive:
		return "receive"
	case TypeOpen:
		return "open"
	case TypeChange:
		return "change"
	case TypeState:
		return "state"
	case TypeNotABlock:
		return "not_a_block"
	default:
		return "invalid"
	}
}

// statePreamble is the 256-bit big-endian preamble prepended to a state
// block's hashables; its least significant byte is the type tag 6.
var statePreamble = [32]byte{31: byte(TypeState)}

// Block is implemented by each of the five variants. Implementations are a
// closed, tagged set: callers switch on Type() rather than adding new
// dynamic-dispatch methods, which keeps the processor's per-variant match
// exhaustive and efficient.
type Block interface {
	Type() Type
	Hash(p crypto.Provider) Hash
	Signature() Signature
	Work() Work

	// Previous is the hashables.previous field; open returns the zero hash.
	Previous() Hash
	// Source is receive.source / open.source; zero for send, change, state
	// (state's pending source is carried in Link and inferred by the ledger).
	Source() Hash
	// Root is the election key: previous for non-open blocks, account for
	// open and zero-previous state blocks.
	Root(p crypto.Provider) Hash
	// Representative reports the delegated representative, if this variant
	// carries one (open, change, state).
	Representative() (Account, bool)

	// ValidPredecessor reports whether this block may legally follow a
	// block of the given previous type.
	ValidPredecessor(prev Type) bool

	// Encode returns the canonical binary hashables-plus-signature-plus-work
	// wire form.
	Encode() []byte
	// MarshalJSON-style canonical textual form.
	JSON() (map[string]any, error)
}

// ParseError reports a malformed block wire form or JSON document.
type ParseError struct {
	Variant string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("block: %s: %s", e.Variant, e.Reason)
}

func parseErr(variant, reason string) error { return &ParseError{Variant: variant, Reason: reason} }

// legacyValidPredecessor implements the shared rule for send/receive/
// change/open: send/receive/change/open may follow send/receive/change/
// open; open has no valid predecessor.
func legacyValidPredecessor(prev Type) bool {
	switch prev {
	case TypeSend, TypeReceive, TypeChange, TypeOpen:
		return true
	default:
		return false
	}
}
