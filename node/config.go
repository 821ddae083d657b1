// Package node holds the ambient, non-consensus configuration for running
// the ledger core as a standalone process: network selection, data
// directory, log level, and the canary/bootstrap-weight knobs left to the
// collaborator.
package node

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config is the flat, JSON-printable configuration for a ledger node
// process. Network transport, peer management, RPC, and wallet
// configuration are out of scope and have no field here.
type Config struct {
	Network  string `json:"network"`
	DataDir  string `json:"data_dir"`
	LogLevel string `json:"log_level"`

	// StateBlockParseCanaryHex gates state-block processing: until a block
	// with this hash is present in the store, state blocks are rejected
	// with state_block_disabled. Empty disables the gate (treated as
	// "canary already satisfied"), matching a devnet default.
	StateBlockParseCanaryHex string `json:"state_block_parse_canary"`

	// BootstrapWeightMaxBlocks is the block-count threshold below which
	// Tally consults BootstrapWeights instead of the live representation
	// table.
	BootstrapWeightMaxBlocks uint64 `json:"bootstrap_weight_max_blocks"`
}

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

var allowedNetworks = map[string]struct{}{
	"test": {},
	"beta": {},
	"live": {},
}

func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".latticecoin"
	}
	return filepath.Join(home, ".latticecoin")
}

func DefaultConfig() Config {
	return Config{
		Network:  "test",
		DataDir:  DefaultDataDir(),
		LogLevel: "info",
	}
}

// LoadConfigFile reads and decodes a JSON config file starting from cfg
// (so unset fields keep their defaults), rejecting any path component that
// isn't a plain file name in its own directory.
func LoadConfigFile(cfg Config, path string) (Config, error) {
	raw, err := readFileByPath(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func ValidateConfig(cfg Config) error {
	network := strings.ToLower(strings.TrimSpace(cfg.Network))
	if _, ok := allowedNetworks[network]; !ok {
		return fmt.Errorf("invalid network %q (want test|beta|live)", cfg.Network)
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return errors.New("data_dir is required")
	}
	logLevel := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, ok := allowedLogLevels[logLevel]; !ok {
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	return nil
}
