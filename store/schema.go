package store

import (
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// CurrentSchemaVersion is the schema version a freshly created store is
// stamped with and the target of the upgrade ladder.
const CurrentSchemaVersion = 10

var metaKeyVersion = []byte("version")

func getVersion(b *bolt.Bucket) uint64 {
	v := b.Get(metaKeyVersion)
	if v == nil {
		return 0
	}
	return binary.BigEndian.Uint64(v)
}

func putVersion(b *bolt.Bucket, version uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], version)
	return b.Put(metaKeyVersion, buf[:])
}

// runUpgrades brings a store from whatever version it was last closed at
// up to CurrentSchemaVersion, one step at a time, with every step inside
// a single write transaction. A store newer than CurrentSchemaVersion is
// rejected rather than silently read.
func (d *DB) runUpgrades() error {
	return d.bolt.Update(func(tx *bolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		version := getVersion(meta)
		if version > CurrentSchemaVersion {
			return fmt.Errorf("store: database version %d is newer than supported version %d", version, CurrentSchemaVersion)
		}
		for version < CurrentSchemaVersion {
			step, ok := upgradeSteps[version]
			if !ok {
				return fmt.Errorf("store: no upgrade path from version %d", version)
			}
			if err := step(tx); err != nil {
				return fmt.Errorf("store: upgrade from version %d: %w", version, err)
			}
			version++
			if err := putVersion(meta, version); err != nil {
				return err
			}
		}
		return nil
	})
}

// upgradeSteps maps a store's current version to the function that
// advances it by exactly one version. Versions 1 through 9 precede this
// implementation's history and are no-ops: stores that old are assumed to
// already carry the present bucket layout, since bucket creation in Open
// is idempotent. Only the last step, seeding the checksum root entry,
// does real work.
var upgradeSteps = map[uint64]func(tx *bolt.Tx) error{
	0: noopUpgrade,
	1: noopUpgrade,
	2: noopUpgrade,
	3: noopUpgrade,
	4: noopUpgrade,
	5: noopUpgrade,
	6: noopUpgrade,
	7: noopUpgrade,
	8: noopUpgrade,
	9: upgrade9to10,
}

func noopUpgrade(tx *bolt.Tx) error { return nil }

// upgrade9to10 seeds the checksum root entry (region 0, depth 0) if
// absent, so checksum lookups never need a special case for an empty
// store.
func upgrade9to10(tx *bolt.Tx) error {
	b := tx.Bucket(bucketChecksum)
	root := encodeChecksumKey(0, 0)
	if b.Get(root) != nil {
		return nil
	}
	return b.Put(root, make([]byte, 32))
}
