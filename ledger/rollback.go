package ledger

import (
	"github.com/latticecoin/node/amount"
	"github.com/latticecoin/node/block"
	"github.com/latticecoin/node/store"
)

// Rollback undoes hash and every block applied after it on its account's
// chain, in reverse order, including the cascading rollback of any other
// account's blocks that depended on it (a send whose pending entry was
// already consumed by a receive). It is the exact inverse of Process: a
// block accepted with Progress and then rolled back leaves every table
// exactly as it was before Process was called.
func (l *Ledger) Rollback(t *store.Txn, hash block.Hash) error {
	rec, err := t.GetBlock(hash)
	if err != nil {
		return err
	}
	account := rec.Account
	for t.BlockExists(hash) {
		if err := l.rollbackHead(t, account); err != nil {
			return err
		}
	}
	return nil
}

// rollbackHead undoes the current head of account's chain. Unwinding a
// chain down to a specific hash is modeled as a loop of single-head
// undos rather than recursion on the blocks between head and hash, which
// bounds stack depth to the recursion needed for cross-account pending
// cascades alone.
func (l *Ledger) rollbackHead(t *store.Txn, account block.Account) error {
	info, err := t.GetAccount(account)
	if err != nil {
		return invariant("rollback: account %x has no entry: %v", account, err)
	}
	rec, err := t.GetBlock(info.Head)
	if err != nil {
		return invariant("rollback: head %x missing for account %x: %v", info.Head, account, err)
	}
	switch b := rec.Block.(type) {
	case *block.Send:
		return l.rollbackSend(t, account, info, b)
	case *block.Receive:
		return l.rollbackReceive(t, account, info, b)
	case *block.Open:
		return l.rollbackOpen(t, account, info, b)
	case *block.Change:
		return l.rollbackChange(t, account, info, b)
	case *block.State:
		return l.rollbackState(t, account, info, b)
	default:
		return invariant("rollback: unknown block implementation %T", rec.Block)
	}
}

// undoCommon reverses the bookkeeping every rollback touches: the rolling
// checksum (XOR is its own inverse) and any cached blocks_info entry.
func undoCommon(t *store.Txn, head block.Hash) error {
	if err := t.XORChecksum(0, 0, head); err != nil {
		return err
	}
	return t.DeleteBlockInfo(head)
}

func (l *Ledger) rollbackSend(t *store.Txn, account block.Account, info store.AccountInfo, b *block.Send) error {
	head := info.Head
	// If this send's pending entry was already consumed by a receive,
	// open, or state-receive on the destination account, that consuming
	// block must be undone first so the pending entry exists again.
	for {
		if _, err := t.GetPending(b.Destination, head); err == nil {
			break
		} else if err != store.ErrNotFound {
			return err
		}
		if !t.AccountExists(b.Destination) {
			break
		}
		if err := l.rollbackHead(t, b.Destination); err != nil {
			return err
		}
	}

	pending, err := t.GetPending(b.Destination, head)
	if err != nil {
		return invariant("rollback send %x: pending not restored: %v", head, err)
	}
	delta := pending.Amount
	if err := t.DeletePending(b.Destination, head); err != nil {
		return err
	}
	rep, err := l.repAccountFor(t, info.RepBlock)
	if err != nil {
		return invariant("rollback send %x: resolve rep_block: %v", head, err)
	}
	if err := t.AddRepresentation(rep, delta, false); err != nil {
		return err
	}
	prevBalance, err := amount.Add(b.BalanceAfter, delta)
	if err != nil {
		return invariant("rollback send %x: restore balance: %v", head, err)
	}
	info.Head = b.PreviousHash
	info.Balance = prevBalance
	info.BlockCount--
	if err := t.PutAccount(account, info); err != nil {
		return err
	}
	if err := t.DeleteBlock(head); err != nil {
		return err
	}
	if err := t.SetSuccessor(b.PreviousHash, block.ZeroHash); err != nil {
		return err
	}
	if err := t.DeleteFrontier(head); err != nil {
		return err
	}
	if err := t.PutFrontier(b.PreviousHash, account); err != nil {
		return err
	}
	return undoCommon(t, head)
}

func (l *Ledger) rollbackReceive(t *store.Txn, account block.Account, info store.AccountInfo, b *block.Receive) error {
	head := info.Head
	delta, err := l.Amount(t, head)
	if err != nil {
		return err
	}
	rep, err := l.repAccountFor(t, info.RepBlock)
	if err != nil {
		return invariant("rollback receive %x: resolve rep_block: %v", head, err)
	}
	if err := t.AddRepresentation(rep, delta, true); err != nil {
		return err
	}
	prevBalance, err := amount.Sub(info.Balance, delta)
	if err != nil {
		return invariant("rollback receive %x: restore balance: %v", head, err)
	}
	srcRec, err := t.GetBlock(b.SourceHash)
	if err != nil {
		return invariant("rollback receive %x: source %x missing: %v", head, b.SourceHash, err)
	}
	if err := t.PutPending(account, b.SourceHash, store.PendingEntry{Source: srcRec.Account, Amount: delta}); err != nil {
		return err
	}
	info.Head = b.PreviousHash
	info.Balance = prevBalance
	info.BlockCount--
	if err := t.PutAccount(account, info); err != nil {
		return err
	}
	if err := t.DeleteBlock(head); err != nil {
		return err
	}
	if err := t.SetSuccessor(b.PreviousHash, block.ZeroHash); err != nil {
		return err
	}
	if err := t.DeleteFrontier(head); err != nil {
		return err
	}
	if err := t.PutFrontier(b.PreviousHash, account); err != nil {
		return err
	}
	return undoCommon(t, head)
}

func (l *Ledger) rollbackOpen(t *store.Txn, account block.Account, info store.AccountInfo, b *block.Open) error {
	head := info.Head
	srcRec, err := t.GetBlock(b.SourceHash)
	if err != nil {
		return invariant("rollback open %x: source %x missing: %v", head, b.SourceHash, err)
	}
	if err := t.PutPending(account, b.SourceHash, store.PendingEntry{Source: srcRec.Account, Amount: info.Balance}); err != nil {
		return err
	}
	if err := t.AddRepresentation(b.Rep, info.Balance, true); err != nil {
		return err
	}
	if err := t.DeleteAccount(account); err != nil {
		return err
	}
	if err := t.DeleteBlock(head); err != nil {
		return err
	}
	if err := t.DeleteFrontier(head); err != nil {
		return err
	}
	return undoCommon(t, head)
}

func (l *Ledger) rollbackChange(t *store.Txn, account block.Account, info store.AccountInfo, b *block.Change) error {
	head := info.Head
	prevRepBlock := previousRepBlock(t, b.PreviousHash)
	oldRep, err := l.repAccountFor(t, prevRepBlock)
	if err != nil {
		return invariant("rollback change %x: resolve previous rep_block %x: %v", head, prevRepBlock, err)
	}
	if err := t.AddRepresentation(b.Rep, info.Balance, true); err != nil {
		return err
	}
	if err := t.AddRepresentation(oldRep, info.Balance, false); err != nil {
		return err
	}

	info.Head = b.PreviousHash
	info.RepBlock = prevRepBlock
	info.BlockCount--
	if err := t.PutAccount(account, info); err != nil {
		return err
	}
	if err := t.DeleteBlock(head); err != nil {
		return err
	}
	if err := t.SetSuccessor(b.PreviousHash, block.ZeroHash); err != nil {
		return err
	}
	if err := t.DeleteFrontier(head); err != nil {
		return err
	}
	if err := t.PutFrontier(b.PreviousHash, account); err != nil {
		return err
	}
	return undoCommon(t, head)
}

// previousRepBlock returns the rep_block that should be restored onto
// accounts[account] when the chain's head moves back to hash: hash
// itself if it carries a representative in-band, otherwise the nearest
// rep_block further back found by walking through send/receive blocks.
func previousRepBlock(t *store.Txn, hash block.Hash) block.Hash {
	for {
		rec, err := t.GetBlock(hash)
		if err != nil {
			return hash
		}
		if _, ok := rec.Block.Representative(); ok {
			return hash
		}
		switch b := rec.Block.(type) {
		case *block.Send:
			hash = b.PreviousHash
		case *block.Receive:
			hash = b.PreviousHash
		default:
			return hash
		}
	}
}

func (l *Ledger) rollbackState(t *store.Txn, account block.Account, info store.AccountInfo, b *block.State) error {
	head := info.Head
	// A chain-initial state block (PreviousHash == ZeroHash) is always a
	// receive: processState rejects a chain-initial block with no Link as
	// GapSource, and a brand-new account's balance starts at zero, so its
	// balance can never register as a debit.
	isSend := b.PreviousHash != block.ZeroHash && amount.Cmp(b.Balance, mustPreviousBalance(t, l, b)) < 0

	if isSend {
		linkAccount := block.Account(b.Link)
		// Undo any block on the link account that already consumed this
		// state-send's pending entry before removing the pending entry
		// itself.
		for {
			if _, err := t.GetPending(linkAccount, head); err == nil {
				break
			} else if err != store.ErrNotFound {
				return err
			}
			if !t.AccountExists(linkAccount) {
				break
			}
			if err := l.rollbackHead(t, linkAccount); err != nil {
				return err
			}
		}
		if err := t.DeletePending(linkAccount, head); err != nil {
			return err
		}
	} else if b.Link != block.ZeroHash {
		srcRec, err := t.GetBlock(b.Link)
		if err != nil {
			return invariant("rollback state %x: link %x missing: %v", head, b.Link, err)
		}
		delta, err := l.Amount(t, head)
		if err != nil {
			return err
		}
		if err := t.PutPending(account, b.Link, store.PendingEntry{Source: srcRec.Account, Amount: delta}); err != nil {
			return err
		}
	}

	if err := t.AddRepresentation(b.Rep, b.Balance, true); err != nil {
		return err
	}

	wasFirstBlock := b.PreviousHash == block.ZeroHash
	if wasFirstBlock {
		if err := t.DeleteAccount(account); err != nil {
			return err
		}
	} else {
		prevBalance, err := l.Balance(t, b.PreviousHash)
		if err != nil {
			return err
		}
		prevRepBlock := previousRepBlock(t, b.PreviousHash)
		oldRep, err := l.repAccountFor(t, prevRepBlock)
		if err != nil {
			return invariant("rollback state %x: resolve previous rep: %v", head, err)
		}
		if err := t.AddRepresentation(oldRep, prevBalance, false); err != nil {
			return err
		}
		info.Head = b.PreviousHash
		info.RepBlock = prevRepBlock
		info.Balance = prevBalance
		info.BlockCount--
		if err := t.PutAccount(account, info); err != nil {
			return err
		}
		if err := t.SetSuccessor(b.PreviousHash, block.ZeroHash); err != nil {
			return err
		}
		// If the block now restored as head was a legacy block, its
		// frontier entry was removed when this state block superseded
		// it; reinstate it.
		if _, ok := prevRec(t, b.PreviousHash).(*block.State); !ok {
			if err := t.PutFrontier(b.PreviousHash, account); err != nil {
				return err
			}
		}
	}

	if err := t.DeleteBlock(head); err != nil {
		return err
	}
	return undoCommon(t, head)
}

func prevRec(t *store.Txn, hash block.Hash) block.Block {
	rec, err := t.GetBlock(hash)
	if err != nil {
		return nil
	}
	return rec.Block
}

// mustPreviousBalance returns the balance the chain had before b was
// applied: zero for a chain-initial state block, otherwise the balance
// visitor's result at b's previous block.
func mustPreviousBalance(t *store.Txn, l *Ledger, b *block.State) amount.Amount {
	if b.PreviousHash == block.ZeroHash {
		return amount.Zero
	}
	bal, err := l.Balance(t, b.PreviousHash)
	if err != nil {
		return amount.Zero
	}
	return bal
}
