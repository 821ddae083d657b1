package ledger

import (
	"github.com/latticecoin/node/amount"
	"github.com/latticecoin/node/block"
	"github.com/latticecoin/node/store"
)

// Process validates b against the current store state inside t, and on
// acceptance applies every index update atomically. t must be a write
// transaction; Process never commits or aborts it — that is the
// collaborator's responsibility once it has decided what to do with the
// result.
func (l *Ledger) Process(t *store.Txn, b block.Block) (ProcessResult, error) {
	hash := b.Hash(l.Crypto)
	if t.BlockExists(hash) {
		return ProcessResult{Code: Old}, nil
	}
	switch tb := b.(type) {
	case *block.Send:
		return l.processSend(t, tb, hash)
	case *block.Receive:
		return l.processReceive(t, tb, hash)
	case *block.Open:
		return l.processOpen(t, tb, hash)
	case *block.Change:
		return l.processChange(t, tb, hash)
	case *block.State:
		return l.processState(t, tb, hash)
	default:
		return ProcessResult{}, invariant("unknown block implementation %T", b)
	}
}

func reject(code ProcessCode) (ProcessResult, error) { return ProcessResult{Code: code}, nil }

// frontierAccount resolves the account whose legacy chain currently has
// previous as its head, reporting GapPrevious if previous is unknown.
func (l *Ledger) frontierAccount(t *store.Txn, previous block.Hash) (block.Account, bool, error) {
	acc, err := t.GetFrontier(previous)
	if err == store.ErrNotFound {
		return block.Account{}, false, nil
	}
	if err != nil {
		return block.Account{}, false, err
	}
	return acc, true, nil
}

func (l *Ledger) verify(pub block.Account, sig block.Signature, hash block.Hash) bool {
	return l.Crypto.Verify([32]byte(pub), [64]byte(sig), [32]byte(hash))
}

// repAccountFor resolves the representative account a stored rep_block
// hash designates. open/change/state blocks all carry their
// representative field in-band, so this is a single lookup rather than a
// chain walk.
func (l *Ledger) repAccountFor(t *store.Txn, repBlock block.Hash) (block.Account, error) {
	rec, err := t.GetBlock(repBlock)
	if err != nil {
		return block.Account{}, err
	}
	rep, ok := rec.Block.Representative()
	if !ok {
		return block.Account{}, invariant("rep_block %x carries no representative field", repBlock)
	}
	return rep, nil
}

// finishApply updates the shared bookkeeping every accepted block
// touches: the rolling checksum and, every 32nd non-state block, the
// blocks_info cache.
func (l *Ledger) finishApply(t *store.Txn, hash block.Hash, account block.Account, balance amount.Amount, heightAfter uint64, isState bool) error {
	if err := t.XORChecksum(0, 0, hash); err != nil {
		return err
	}
	if !isState && store.ShouldCacheBlockInfo(heightAfter) {
		if err := t.PutBlockInfo(hash, store.BlockInfo{Account: account, Balance: balance}); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) processSend(t *store.Txn, b *block.Send, hash block.Hash) (ProcessResult, error) {
	account, ok, err := l.frontierAccount(t, b.PreviousHash)
	if err != nil {
		return ProcessResult{}, err
	}
	if !ok {
		return reject(GapPrevious)
	}
	if !l.verify(account, b.Sig, hash) {
		return reject(BadSignature)
	}
	info, err := t.GetAccount(account)
	if err != nil {
		return ProcessResult{}, invariant("account %x missing for frontier head: %v", account, err)
	}
	if amount.Cmp(b.BalanceAfter, info.Balance) > 0 {
		return reject(NegativeSpend)
	}
	delta, err := amount.Sub(info.Balance, b.BalanceAfter)
	if err != nil {
		return ProcessResult{}, invariant("send delta: %v", err)
	}

	if err := t.PutBlock(hash, account, b); err != nil {
		return ProcessResult{}, err
	}
	if err := t.SetSuccessor(b.PreviousHash, hash); err != nil {
		return ProcessResult{}, err
	}
	rep, err := l.repAccountFor(t, info.RepBlock)
	if err != nil {
		return ProcessResult{}, invariant("send: resolve rep_block %x: %v", info.RepBlock, err)
	}
	if err := t.AddRepresentation(rep, delta, true); err != nil {
		return ProcessResult{}, err
	}
	info.Head = hash
	info.Balance = b.BalanceAfter
	info.BlockCount++
	if err := t.PutAccount(account, info); err != nil {
		return ProcessResult{}, err
	}
	if err := t.PutPending(b.Destination, hash, store.PendingEntry{Source: account, Amount: delta}); err != nil {
		return ProcessResult{}, err
	}
	if err := t.DeleteFrontier(b.PreviousHash); err != nil {
		return ProcessResult{}, err
	}
	if err := t.PutFrontier(hash, account); err != nil {
		return ProcessResult{}, err
	}
	if err := l.finishApply(t, hash, account, info.Balance, info.BlockCount, false); err != nil {
		return ProcessResult{}, err
	}
	return ProcessResult{Code: Progress, Account: account, Amount: delta}, nil
}

func (l *Ledger) processReceive(t *store.Txn, b *block.Receive, hash block.Hash) (ProcessResult, error) {
	account, ok, err := l.frontierAccount(t, b.PreviousHash)
	if err != nil {
		return ProcessResult{}, err
	}
	if !ok {
		return reject(GapPrevious)
	}
	if !t.BlockExists(b.SourceHash) {
		return reject(GapSource)
	}
	if !l.verify(account, b.Sig, hash) {
		return reject(BadSignature)
	}
	pending, err := t.GetPending(account, b.SourceHash)
	if err == store.ErrNotFound {
		return reject(Unreceivable)
	}
	if err != nil {
		return ProcessResult{}, err
	}
	info, err := t.GetAccount(account)
	if err != nil {
		return ProcessResult{}, invariant("account %x missing for frontier head: %v", account, err)
	}

	if err := t.DeletePending(account, b.SourceHash); err != nil {
		return ProcessResult{}, err
	}
	if err := t.PutBlock(hash, account, b); err != nil {
		return ProcessResult{}, err
	}
	if err := t.SetSuccessor(b.PreviousHash, hash); err != nil {
		return ProcessResult{}, err
	}
	rep, err := l.repAccountFor(t, info.RepBlock)
	if err != nil {
		return ProcessResult{}, invariant("receive: resolve rep_block %x: %v", info.RepBlock, err)
	}
	if err := t.AddRepresentation(rep, pending.Amount, false); err != nil {
		return ProcessResult{}, err
	}
	newBalance, err := amount.Add(info.Balance, pending.Amount)
	if err != nil {
		return ProcessResult{}, invariant("receive balance: %v", err)
	}
	info.Head = hash
	info.Balance = newBalance
	info.BlockCount++
	if err := t.PutAccount(account, info); err != nil {
		return ProcessResult{}, err
	}
	if err := t.DeleteFrontier(b.PreviousHash); err != nil {
		return ProcessResult{}, err
	}
	if err := t.PutFrontier(hash, account); err != nil {
		return ProcessResult{}, err
	}
	if err := l.finishApply(t, hash, account, newBalance, info.BlockCount, false); err != nil {
		return ProcessResult{}, err
	}
	return ProcessResult{Code: Progress, Account: account, Amount: pending.Amount}, nil
}

func (l *Ledger) processOpen(t *store.Txn, b *block.Open, hash block.Hash) (ProcessResult, error) {
	if !t.BlockExists(b.SourceHash) {
		return reject(GapSource)
	}
	if b.AccountField == l.Burn {
		return reject(OpenedBurnAccount)
	}
	if !l.verify(b.AccountField, b.Sig, hash) {
		return reject(BadSignature)
	}
	if t.AccountExists(b.AccountField) {
		return reject(Fork)
	}
	pending, err := t.GetPending(b.AccountField, b.SourceHash)
	if err == store.ErrNotFound {
		return reject(Unreceivable)
	}
	if err != nil {
		return ProcessResult{}, err
	}

	if err := t.DeletePending(b.AccountField, b.SourceHash); err != nil {
		return ProcessResult{}, err
	}
	if err := t.PutBlock(hash, b.AccountField, b); err != nil {
		return ProcessResult{}, err
	}
	if err := t.AddRepresentation(b.Rep, pending.Amount, false); err != nil {
		return ProcessResult{}, err
	}
	if err := t.PutAccount(b.AccountField, store.AccountInfo{
		Head:       hash,
		RepBlock:   hash,
		OpenBlock:  hash,
		Balance:    pending.Amount,
		BlockCount: 1,
	}); err != nil {
		return ProcessResult{}, err
	}
	if err := t.PutFrontier(hash, b.AccountField); err != nil {
		return ProcessResult{}, err
	}
	if err := l.finishApply(t, hash, b.AccountField, pending.Amount, 1, false); err != nil {
		return ProcessResult{}, err
	}
	return ProcessResult{Code: Progress, Account: b.AccountField, Amount: pending.Amount}, nil
}

func (l *Ledger) processChange(t *store.Txn, b *block.Change, hash block.Hash) (ProcessResult, error) {
	account, ok, err := l.frontierAccount(t, b.PreviousHash)
	if err != nil {
		return ProcessResult{}, err
	}
	if !ok {
		return reject(GapPrevious)
	}
	if !l.verify(account, b.Sig, hash) {
		return reject(BadSignature)
	}
	info, err := t.GetAccount(account)
	if err != nil {
		return ProcessResult{}, invariant("account %x missing for frontier head: %v", account, err)
	}

	if err := t.PutBlock(hash, account, b); err != nil {
		return ProcessResult{}, err
	}
	if err := t.SetSuccessor(b.PreviousHash, hash); err != nil {
		return ProcessResult{}, err
	}
	oldRep, err := l.repAccountFor(t, info.RepBlock)
	if err != nil {
		return ProcessResult{}, invariant("change: resolve rep_block %x: %v", info.RepBlock, err)
	}
	if err := t.AddRepresentation(b.Rep, info.Balance, false); err != nil {
		return ProcessResult{}, err
	}
	if err := t.AddRepresentation(oldRep, info.Balance, true); err != nil {
		return ProcessResult{}, err
	}
	info.Head = hash
	info.RepBlock = hash
	info.BlockCount++
	if err := t.PutAccount(account, info); err != nil {
		return ProcessResult{}, err
	}
	if err := t.DeleteFrontier(b.PreviousHash); err != nil {
		return ProcessResult{}, err
	}
	if err := t.PutFrontier(hash, account); err != nil {
		return ProcessResult{}, err
	}
	if err := l.finishApply(t, hash, account, info.Balance, info.BlockCount, false); err != nil {
		return ProcessResult{}, err
	}
	return ProcessResult{Code: Progress, Account: account, Amount: amount.Zero}, nil
}

func (l *Ledger) processState(t *store.Txn, b *block.State, hash block.Hash) (ProcessResult, error) {
	if l.StateCanary != block.ZeroHash && !t.BlockExists(l.StateCanary) {
		return reject(StateBlockDisabled)
	}
	if b.AccountField == l.Burn {
		return reject(OpenedBurnAccount)
	}

	existing := t.AccountExists(b.AccountField)

	var prevBalance amount.Amount
	var prevRepBlock block.Hash
	var openBlock block.Hash
	var blockCount uint64

	if existing {
		info, err := t.GetAccount(b.AccountField)
		if err != nil {
			return ProcessResult{}, invariant("account %x vanished: %v", b.AccountField, err)
		}
		if b.PreviousHash == block.ZeroHash || b.PreviousHash != info.Head {
			return reject(Fork)
		}
		if !t.BlockExists(b.PreviousHash) {
			return reject(GapPrevious)
		}
		prevBalance = info.Balance
		prevRepBlock = info.RepBlock
		openBlock = info.OpenBlock
		blockCount = info.BlockCount
	} else {
		if b.PreviousHash != block.ZeroHash {
			return reject(GapPrevious)
		}
		if b.Link == block.ZeroHash {
			return reject(GapSource)
		}
		prevBalance = amount.Zero
		openBlock = hash
	}

	if !l.verify(b.AccountField, b.Sig, hash) {
		return reject(BadSignature)
	}

	isSend := amount.Cmp(b.Balance, prevBalance) < 0
	delta := amount.AbsDiff(b.Balance, prevBalance)

	if isSend {
		if b.Link == block.ZeroHash {
			return reject(BalanceMismatch)
		}
	} else if b.Link == block.ZeroHash {
		if !delta.IsZero() {
			return reject(BalanceMismatch)
		}
	} else {
		pending, err := t.GetPending(b.AccountField, b.Link)
		if err == store.ErrNotFound {
			return reject(Unreceivable)
		}
		if err != nil {
			return ProcessResult{}, err
		}
		if amount.Cmp(pending.Amount, delta) != 0 {
			return reject(BalanceMismatch)
		}
		if err := t.DeletePending(b.AccountField, b.Link); err != nil {
			return ProcessResult{}, err
		}
	}

	if err := t.PutBlock(hash, b.AccountField, b); err != nil {
		return ProcessResult{}, err
	}
	if existing {
		if err := t.SetSuccessor(b.PreviousHash, hash); err != nil {
			return ProcessResult{}, err
		}
		// A state block never leaves a frontier entry behind it, but if
		// the block it replaces was a legacy head, that head's frontier
		// entry must be removed: no legacy block may ever chain onto a
		// state head.
		if _, err := t.GetFrontier(b.PreviousHash); err == nil {
			if err := t.DeleteFrontier(b.PreviousHash); err != nil {
				return ProcessResult{}, err
			}
		}
	}
	if isSend {
		if err := t.PutPending(block.Account(b.Link), hash, store.PendingEntry{Source: b.AccountField, Amount: delta}); err != nil {
			return ProcessResult{}, err
		}
	}
	if existing {
		oldRep, err := l.repAccountFor(t, prevRepBlock)
		if err != nil {
			return ProcessResult{}, invariant("state: resolve rep_block %x: %v", prevRepBlock, err)
		}
		if err := t.AddRepresentation(oldRep, prevBalance, true); err != nil {
			return ProcessResult{}, err
		}
	}
	if err := t.AddRepresentation(b.Rep, b.Balance, false); err != nil {
		return ProcessResult{}, err
	}
	blockCount++
	if err := t.PutAccount(b.AccountField, store.AccountInfo{
		Head:       hash,
		RepBlock:   hash,
		OpenBlock:  openBlock,
		Balance:    b.Balance,
		BlockCount: blockCount,
	}); err != nil {
		return ProcessResult{}, err
	}
	if err := l.finishApply(t, hash, b.AccountField, b.Balance, blockCount, true); err != nil {
		return ProcessResult{}, err
	}
	return ProcessResult{Code: Progress, Account: b.AccountField, Amount: delta}, nil
}
