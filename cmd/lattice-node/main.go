package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/latticecoin/node/amount"
	"github.com/latticecoin/node/block"
	"github.com/latticecoin/node/crypto"
	"github.com/latticecoin/node/ledger"
	"github.com/latticecoin/node/node"
	"github.com/latticecoin/node/store"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	defaults := node.DefaultConfig()
	cfg := defaults

	var configPath string
	fs := flag.NewFlagSet("lattice-node", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&configPath, "config", "", "path to a JSON config file; explicit flags below override its values")
	fs.StringVar(&cfg.Network, "network", defaults.Network, "network name (test/beta/live)")
	fs.StringVar(&cfg.DataDir, "datadir", defaults.DataDir, "node data directory")
	fs.StringVar(&cfg.LogLevel, "log-level", defaults.LogLevel, "log level: debug|info|warn|error")
	fs.StringVar(&cfg.StateBlockParseCanaryHex, "state-canary", defaults.StateBlockParseCanaryHex, "hex hash gating state-block processing")
	fs.Uint64Var(&cfg.BootstrapWeightMaxBlocks, "bootstrap-weight-max-blocks", defaults.BootstrapWeightMaxBlocks, "block count below which bootstrap weights override live representation")
	dryRun := fs.Bool("dry-run", false, "print effective config and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if configPath != "" {
		fileCfg, err := node.LoadConfigFile(defaults, configPath)
		if err != nil {
			fmt.Fprintf(stderr, "config load failed: %v\n", err)
			return 2
		}
		cfg = mergeExplicitFlags(fs, fileCfg, cfg)
	}

	if err := node.ValidateConfig(cfg); err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 2
	}
	if err := printConfig(stdout, cfg); err != nil {
		fmt.Fprintf(stderr, "config encode failed: %v\n", err)
		return 1
	}
	if *dryRun {
		return 0
	}

	db, err := store.OpenNetwork(cfg.DataDir, cfg.Network)
	if err != nil {
		fmt.Fprintf(stderr, "store open failed: %v\n", err)
		return 2
	}
	defer db.Close()

	provider := crypto.Native{}
	if err := store.InitGenesis(db, provider, cfg.Network); err != nil {
		fmt.Fprintf(stderr, "genesis init failed: %v\n", err)
		return 2
	}

	l := ledger.New(provider)
	l.BootstrapWeightMaxBlocks = cfg.BootstrapWeightMaxBlocks
	if cfg.StateBlockParseCanaryHex != "" {
		canary, err := decodeHash(cfg.StateBlockParseCanaryHex)
		if err != nil {
			fmt.Fprintf(stderr, "bad state canary: %v\n", err)
			return 2
		}
		l.StateCanary = canary
	}

	var checksum [32]byte
	var supply amount.Amount
	if err := db.View(func(t *store.Txn) error {
		checksum = t.RootChecksum()
		s, err := totalSupply(t)
		if err != nil {
			return err
		}
		supply = s
		return nil
	}); err != nil {
		fmt.Fprintf(stderr, "ledger query failed: %v\n", err)
		return 2
	}
	fmt.Fprintf(stdout, "ledger: network=%s checksum_root=%s supply=%s\n", cfg.Network, hex.EncodeToString(checksum[:]), supply.Decimal())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(stdout, "lattice-node running")
	<-ctx.Done()
	fmt.Fprintln(stdout, "lattice-node stopped")
	return 0
}

// mergeExplicitFlags starts from fileCfg and reapplies only the fields
// whose flags were explicitly set on the command line (tracked via
// fs.Visit), so a config file sets the baseline and flags override it
// field by field rather than one replacing the other wholesale.
func mergeExplicitFlags(fs *flag.FlagSet, fileCfg, flagCfg node.Config) node.Config {
	merged := fileCfg
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "network":
			merged.Network = flagCfg.Network
		case "datadir":
			merged.DataDir = flagCfg.DataDir
		case "log-level":
			merged.LogLevel = flagCfg.LogLevel
		case "state-canary":
			merged.StateBlockParseCanaryHex = flagCfg.StateBlockParseCanaryHex
		case "bootstrap-weight-max-blocks":
			merged.BootstrapWeightMaxBlocks = flagCfg.BootstrapWeightMaxBlocks
		}
	})
	return merged
}

// totalSupply sums accounts[*].balance + pending[*].amount, the invariant
// that should equal 2^128-1 on any network at any time after genesis.
func totalSupply(t *store.Txn) (amount.Amount, error) {
	total := amount.Zero
	if err := t.ForEachAccount(func(_ block.Account, info store.AccountInfo) error {
		sum, err := amount.Add(total, info.Balance)
		if err != nil {
			return err
		}
		total = sum
		return nil
	}); err != nil {
		return amount.Zero, err
	}
	if err := t.ForEachPending(func(_ store.PendingKey, entry store.PendingEntry) error {
		sum, err := amount.Add(total, entry.Amount)
		if err != nil {
			return err
		}
		total = sum
		return nil
	}); err != nil {
		return amount.Zero, err
	}
	return total, nil
}

func printConfig(w io.Writer, cfg node.Config) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

func decodeHash(hexStr string) (block.Hash, error) {
	raw, err := hex.DecodeString(hexStr)
	if err != nil || len(raw) != 32 {
		return block.Hash{}, fmt.Errorf("invalid hex hash %q", hexStr)
	}
	var h block.Hash
	copy(h[:], raw)
	return h, nil
}
