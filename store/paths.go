package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// NetworkDir returns the on-disk directory for a given network under datadir:
//   datadir/<network>/
func NetworkDir(datadir, network string) string {
	return filepath.Join(datadir, network)
}

// DBPath returns the bbolt file path for a given network under datadir.
func DBPath(datadir, network string) string {
	return filepath.Join(NetworkDir(datadir, network), "ledger.db")
}

func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}
