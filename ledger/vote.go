package ledger

import (
	"github.com/latticecoin/node/block"
	"github.com/latticecoin/node/crypto"
	"github.com/latticecoin/node/store"
)

// Vote is a representative's signed choice of block for a given election
// root. The signature covers Blake2b-256 of the voted block's hash
// concatenated with the little-endian sequence number.
type Vote struct {
	Account   block.Account
	Signature block.Signature
	Sequence  uint64
	Block     block.Block
}

// Freshness classifies an incoming vote against the highest-sequence
// vote previously recorded for its account.
type Freshness int

const (
	// FreshnessInvalid means the vote's signature does not verify.
	FreshnessInvalid Freshness = iota
	// FreshnessReplay means the vote's sequence is no higher than the
	// stored one; it carries no new information.
	FreshnessReplay
	// FreshnessVote means the vote's sequence exceeds the stored one and
	// should replace it.
	FreshnessVote
)

// VoteOutcome classifies how a fresh vote changes an election's rep→block
// choice map.
type VoteOutcome int

const (
	// OutcomeVote is the rep's first vote observed for this election root.
	OutcomeVote VoteOutcome = iota
	// OutcomeChanged is the rep switching its choice among competing
	// blocks of the same root.
	OutcomeChanged
	// OutcomeConfirm is the rep re-voting for the same block it already
	// chose.
	OutcomeConfirm
)

// voteSigningHash returns the hash a vote's signature covers: Blake2b-256
// of the voted block's hash followed by the sequence number, little-endian.
func voteSigningHash(p crypto.Provider, blockHash block.Hash, sequence uint64) block.Hash {
	var seq [8]byte
	seq[0] = byte(sequence)
	seq[1] = byte(sequence >> 8)
	seq[2] = byte(sequence >> 16)
	seq[3] = byte(sequence >> 24)
	seq[4] = byte(sequence >> 32)
	seq[5] = byte(sequence >> 40)
	seq[6] = byte(sequence >> 48)
	seq[7] = byte(sequence >> 56)
	return block.Hash(p.Hash256(blockHash[:], seq[:]))
}

// Freshness checks v's signature and compares its sequence against the
// stored vote for v.Account, without mutating the store.
func (l *Ledger) Freshness(t *store.Txn, v Vote) (Freshness, error) {
	hash := v.Block.Hash(l.Crypto)
	signed := voteSigningHash(l.Crypto, hash, v.Sequence)
	if !l.verify(v.Account, v.Signature, signed) {
		return FreshnessInvalid, nil
	}
	stored, err := t.GetVote(v.Account)
	if err == store.ErrNotFound {
		return FreshnessVote, nil
	}
	if err != nil {
		return FreshnessInvalid, err
	}
	if v.Sequence <= stored.Sequence {
		return FreshnessReplay, nil
	}
	return FreshnessVote, nil
}

// VoteMax returns whichever of candidate and the stored vote for
// candidate.Account has the higher sequence number.
func (l *Ledger) VoteMax(t *store.Txn, candidate Vote) (Vote, error) {
	stored, err := t.GetVote(candidate.Account)
	if err == store.ErrNotFound {
		return candidate, nil
	}
	if err != nil {
		return Vote{}, err
	}
	if stored.Sequence >= candidate.Sequence {
		return Vote{Account: candidate.Account, Sequence: stored.Sequence, Signature: candidate.Signature, Block: candidate.Block}, nil
	}
	return candidate, nil
}

// ApplyVote records a fresh vote in the persistent vote table and reports
// how it changed root's set of current choices, given the rep's previous
// choice for that root (the zero hash if this rep has not voted on root
// before). It does not verify freshness; callers check Freshness first
// and only apply votes classified FreshnessVote.
func (l *Ledger) ApplyVote(t *store.Txn, v Vote, root block.Hash, previousChoice block.Hash) (VoteOutcome, error) {
	hash := v.Block.Hash(l.Crypto)
	if err := t.PutVote(v.Account, store.StoredVote{Sequence: v.Sequence, Root: root, Hash: hash}); err != nil {
		return 0, err
	}
	switch {
	case previousChoice == block.ZeroHash:
		return OutcomeVote, nil
	case previousChoice == hash:
		return OutcomeConfirm, nil
	default:
		return OutcomeChanged, nil
	}
}
