package ledger

import (
	"github.com/latticecoin/node/amount"
	"github.com/latticecoin/node/block"
	"github.com/latticecoin/node/store"
)

// Balance walks the chain backward from hash, summing send debits and
// receive credits, until it reaches a block whose balance is known
// directly (a send or state block carries it in-band) or a cached
// blocks_info entry. It may run under a read transaction.
func (l *Ledger) Balance(t *store.Txn, hash block.Hash) (amount.Amount, error) {
	if info, err := t.GetBlockInfo(hash); err == nil {
		return info.Balance, nil
	} else if err != store.ErrNotFound {
		return amount.Amount{}, err
	}

	rec, err := t.GetBlock(hash)
	if err != nil {
		return amount.Amount{}, err
	}
	switch b := rec.Block.(type) {
	case *block.Send:
		return b.BalanceAfter, nil
	case *block.State:
		return b.Balance, nil
	case *block.Open:
		return l.Amount(t, hash)
	case *block.Receive:
		prev, err := l.Balance(t, b.PreviousHash)
		if err != nil {
			return amount.Amount{}, err
		}
		delta, err := l.Amount(t, hash)
		if err != nil {
			return amount.Amount{}, err
		}
		return amount.Add(prev, delta)
	case *block.Change:
		return l.Balance(t, b.PreviousHash)
	default:
		return amount.Amount{}, invariant("unknown block implementation %T at %x", rec.Block, hash)
	}
}

// Amount returns the balance delta contributed by hash alone: a send's
// debit, a receive/open's credited amount (the amount of the send it
// references), zero for a change, or the absolute balance delta for a
// state block.
func (l *Ledger) Amount(t *store.Txn, hash block.Hash) (amount.Amount, error) {
	rec, err := t.GetBlock(hash)
	if err != nil {
		return amount.Amount{}, err
	}
	switch b := rec.Block.(type) {
	case *block.Send:
		prev, err := l.Balance(t, b.PreviousHash)
		if err != nil {
			return amount.Amount{}, err
		}
		return amount.Sub(prev, b.BalanceAfter)
	case *block.Receive:
		return l.Amount(t, b.SourceHash)
	case *block.Open:
		return l.Amount(t, b.SourceHash)
	case *block.Change:
		return amount.Zero, nil
	case *block.State:
		var prev amount.Amount
		if b.PreviousHash != block.ZeroHash {
			prev, err = l.Balance(t, b.PreviousHash)
			if err != nil {
				return amount.Amount{}, err
			}
		}
		return amount.AbsDiff(b.Balance, prev), nil
	default:
		return amount.Amount{}, invariant("unknown block implementation %T at %x", rec.Block, hash)
	}
}

// Representative walks back from hash until it reaches an open, change,
// or state block, and returns its delegated representative.
func (l *Ledger) Representative(t *store.Txn, hash block.Hash) (block.Account, error) {
	for {
		rec, err := t.GetBlock(hash)
		if err != nil {
			return block.Account{}, err
		}
		if rep, ok := rec.Block.Representative(); ok {
			return rep, nil
		}
		switch b := rec.Block.(type) {
		case *block.Send:
			hash = b.PreviousHash
		case *block.Receive:
			hash = b.PreviousHash
		default:
			return block.Account{}, invariant("block %x has no representative and no previous to follow", hash)
		}
	}
}
