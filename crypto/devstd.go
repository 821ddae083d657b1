package crypto

import (
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ed25519"
)

// Native is the production Provider: Blake2b-256 hashing and Ed25519
// sign/verify, the account and block identity rules used throughout the
// ledger.
type Native struct{}

func (Native) Hash256(parts ...[]byte) [32]byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors on a key longer than 64 bytes, and no
		// key is passed here.
		panic(err)
	}
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func (Native) Verify(pub [32]byte, sig [64]byte, hash [32]byte) bool {
	return ed25519.Verify(ed25519.PublicKey(pub[:]), hash[:], sig[:])
}

func (Native) Sign(priv [64]byte, hash [32]byte) [64]byte {
	s := ed25519.Sign(ed25519.PrivateKey(priv[:]), hash[:])
	var out [64]byte
	copy(out[:], s)
	return out
}
