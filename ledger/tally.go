package ledger

import (
	"sort"

	"github.com/latticecoin/node/amount"
	"github.com/latticecoin/node/block"
	"github.com/latticecoin/node/store"
)

// TallyEntry is one candidate block's aggregated vote weight.
type TallyEntry struct {
	Block  block.Hash
	Weight amount.Amount
}

// Tally groups an election's current per-rep choices by chosen block and
// sums each group's weight. choices maps a representative account to the
// block hash it currently votes for. blockCount is the store's total
// applied block count, used to decide whether the bootstrap-weight
// override is still active.
func (l *Ledger) Tally(t *store.Txn, choices map[block.Account]block.Hash, blockCount uint64) ([]TallyEntry, error) {
	totals := make(map[block.Hash]amount.Amount)
	for rep, choice := range choices {
		w, err := l.weight(t, rep, blockCount)
		if err != nil {
			return nil, err
		}
		sum, ok := totals[choice]
		if !ok {
			sum = amount.Zero
		}
		sum, err = amount.Add(sum, w)
		if err != nil {
			return nil, invariant("tally: weight overflow for block %x: %v", choice, err)
		}
		totals[choice] = sum
	}

	entries := make([]TallyEntry, 0, len(totals))
	for h, w := range totals {
		entries = append(entries, TallyEntry{Block: h, Weight: w})
	}
	sort.Slice(entries, func(i, j int) bool {
		if c := amount.Cmp(entries[i].Weight, entries[j].Weight); c != 0 {
			return c > 0
		}
		// Descending hash tie-break: the lexicographically greater hash
		// sorts first.
		return hashGreater(entries[i].Block, entries[j].Block)
	})
	return entries, nil
}

// Winner returns the first entry of Tally's result, or false if the
// election has no votes yet.
func Winner(entries []TallyEntry) (block.Hash, bool) {
	if len(entries) == 0 {
		return block.Hash{}, false
	}
	return entries[0].Block, true
}

// weight returns a representative's current voting weight: its recorded
// delegated balance, overridden by a configured bootstrap weight while
// the store's total block count is below BootstrapWeightMaxBlocks.
func (l *Ledger) weight(t *store.Txn, rep block.Account, blockCount uint64) (amount.Amount, error) {
	if l.BootstrapWeightMaxBlocks > 0 && blockCount < l.BootstrapWeightMaxBlocks {
		if w, ok := l.BootstrapWeights[rep]; ok {
			return w, nil
		}
	}
	return t.GetRepresentation(rep)
}

func hashGreater(a, b block.Hash) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}
