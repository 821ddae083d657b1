// Package crypto is the narrow hashing/signing interface used by the block
// model and the ledger processor.
package crypto

// Provider is the crypto surface the ledger core depends on. It is injected
// rather than accessed ambiently: the genesis keys, burn account and
// canaries live on the Ledger, not here, but the hash/signature primitives
// they're checked against come through this interface so tests can
// substitute deterministic keys without touching consensus logic.
type Provider interface {
	// Hash256 returns the Blake2b-256 digest of the concatenation of parts.
	Hash256(parts ...[]byte) [32]byte
	// Verify reports whether sig is a valid Ed25519 signature by pub over hash.
	Verify(pub [32]byte, sig [64]byte, hash [32]byte) bool
	// Sign produces an Ed25519 signature over hash using priv. Used by test
	// helpers and genesis tooling; collaborators normally sign blocks
	// themselves before handing them to the ledger.
	Sign(priv [64]byte, hash [32]byte) [64]byte
}
