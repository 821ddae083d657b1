// Package store is the transactional key-value persistence layer backing
// the ledger: one bbolt bucket per table, with a single write transaction
// active at a time and any number of concurrent read-only snapshots.
package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketFrontiers      = []byte("frontiers")
	bucketAccounts       = []byte("accounts")
	bucketSendBlocks     = []byte("send_blocks")
	bucketReceiveBlocks  = []byte("receive_blocks")
	bucketOpenBlocks     = []byte("open_blocks")
	bucketChangeBlocks   = []byte("change_blocks")
	bucketStateBlocks    = []byte("state_blocks")
	bucketPending        = []byte("pending")
	bucketBlocksInfo     = []byte("blocks_info")
	bucketRepresentation = []byte("representation")
	bucketUnchecked      = []byte("unchecked")
	bucketUnsynced       = []byte("unsynced")
	bucketChecksum       = []byte("checksum")
	bucketVote           = []byte("vote")
	bucketMeta           = []byte("meta")
)

var allBuckets = [][]byte{
	bucketFrontiers, bucketAccounts,
	bucketSendBlocks, bucketReceiveBlocks, bucketOpenBlocks, bucketChangeBlocks, bucketStateBlocks,
	bucketPending, bucketBlocksInfo, bucketRepresentation,
	bucketUnchecked, bucketUnsynced, bucketChecksum, bucketVote, bucketMeta,
}

// DB is the persistent ledger store.
type DB struct {
	bolt *bolt.DB
}

// OpenNetwork opens the store for the given network under datadir,
// creating the network's data directory if needed.
func OpenNetwork(datadir, network string) (*DB, error) {
	if err := ensureDir(NetworkDir(datadir, network)); err != nil {
		return nil, err
	}
	return Open(DBPath(datadir, network))
}

// Open opens (creating if absent) the bbolt-backed store at path, creates
// any missing tables, and runs the schema upgrade ladder to bring a
// pre-existing store up to CurrentSchemaVersion. Upgrade failure is fatal
// to startup.
func Open(path string) (*DB, error) {
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	d := &DB{bolt: bdb}
	if err := bdb.Update(func(tx *bolt.Tx) error {
		for _, b := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("store: create bucket %s: %w", b, err)
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, err
	}
	if err := d.runUpgrades(); err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("store: schema upgrade: %w", err)
	}
	return d, nil
}

func (d *DB) Close() error { return d.bolt.Close() }

// Txn is a typed view over a single bbolt transaction (read or write),
// exposing the ledger's tables. Collaborators never see raw bbolt
// buckets.
type Txn struct {
	tx *bolt.Tx
}

func newTxn(tx *bolt.Tx) *Txn { return &Txn{tx: tx} }

// Writable reports whether this transaction may mutate the store.
func (t *Txn) Writable() bool { return t.tx.Writable() }

func (t *Txn) bucket(name []byte) *bolt.Bucket { return t.tx.Bucket(name) }

// Update runs fn inside a single exclusive write transaction, committing
// on success or discarding all staged writes on error/panic: no partial
// application is observable.
func (d *DB) Update(fn func(*Txn) error) error {
	return d.bolt.Update(func(tx *bolt.Tx) error {
		return fn(newTxn(tx))
	})
}

// View runs fn inside a read-only transaction over a consistent snapshot,
// concurrent with any in-flight writer.
func (d *DB) View(fn func(*Txn) error) error {
	return d.bolt.View(func(tx *bolt.Tx) error {
		return fn(newTxn(tx))
	})
}
