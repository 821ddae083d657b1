package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/latticecoin/node/block"
	"github.com/latticecoin/node/crypto"
	"github.com/latticecoin/node/ledger"
	"github.com/latticecoin/node/node"
	"github.com/latticecoin/node/store"
)

// Request is a single line-delimited JSON op read from stdin, mirroring
// the request/response op-dispatch pattern used by the consensus-check
// sidecar tool: one process per op, exit after replying.
type Request struct {
	Op         string `json:"op"`
	BlockHex   string `json:"block_hex,omitempty"`
	HashHex    string `json:"hash_hex,omitempty"`
	DataDir    string `json:"datadir,omitempty"`
	Network    string `json:"network,omitempty"`
	AccountHex string `json:"account_hex,omitempty"`
}

type Response struct {
	Ok      bool           `json:"ok"`
	Err     string         `json:"err,omitempty"`
	HashHex string         `json:"hash_hex,omitempty"`
	Block   map[string]any `json:"block,omitempty"`
	Code    string         `json:"code,omitempty"`
	Balance string         `json:"balance,omitempty"`
}

func main() {
	os.Exit(run(os.Stdin, os.Stdout))
}

func run(stdin io.Reader, stdout io.Writer) int {
	var req Request
	if err := json.NewDecoder(stdin).Decode(&req); err != nil {
		writeResp(stdout, Response{Ok: false, Err: fmt.Sprintf("bad request: %v", err)})
		return 1
	}

	switch req.Op {
	case "parse_block":
		raw, err := hex.DecodeString(req.BlockHex)
		if err != nil {
			writeResp(stdout, Response{Ok: false, Err: "bad hex"})
			return 1
		}
		b, err := block.Decode(raw)
		if err != nil {
			writeResp(stdout, Response{Ok: false, Err: err.Error()})
			return 1
		}
		doc, err := b.JSON()
		if err != nil {
			writeResp(stdout, Response{Ok: false, Err: err.Error()})
			return 1
		}
		hash := b.Hash(crypto.Native{})
		writeResp(stdout, Response{Ok: true, HashHex: hex.EncodeToString(hash[:]), Block: doc})
		return 0

	case "hash_block":
		raw, err := hex.DecodeString(req.BlockHex)
		if err != nil {
			writeResp(stdout, Response{Ok: false, Err: "bad hex"})
			return 1
		}
		b, err := block.Decode(raw)
		if err != nil {
			writeResp(stdout, Response{Ok: false, Err: err.Error()})
			return 1
		}
		hash := b.Hash(crypto.Native{})
		writeResp(stdout, Response{Ok: true, HashHex: hex.EncodeToString(hash[:])})
		return 0

	case "process_block":
		raw, err := hex.DecodeString(req.BlockHex)
		if err != nil {
			writeResp(stdout, Response{Ok: false, Err: "bad hex"})
			return 1
		}
		b, err := block.Decode(raw)
		if err != nil {
			writeResp(stdout, Response{Ok: false, Err: err.Error()})
			return 1
		}
		code, err := processBlock(req.DataDir, req.Network, b)
		if err != nil {
			writeResp(stdout, Response{Ok: false, Err: err.Error()})
			return 1
		}
		writeResp(stdout, Response{Ok: true, Code: code})
		return 0

	case "rollback":
		hash, err := decodeHashHex(req.HashHex)
		if err != nil {
			writeResp(stdout, Response{Ok: false, Err: "bad hash_hex"})
			return 1
		}
		if err := rollbackBlock(req.DataDir, req.Network, hash); err != nil {
			writeResp(stdout, Response{Ok: false, Err: err.Error()})
			return 1
		}
		writeResp(stdout, Response{Ok: true})
		return 0

	case "balance":
		account, err := decodeAccountHex(req.AccountHex)
		if err != nil {
			writeResp(stdout, Response{Ok: false, Err: "bad account_hex"})
			return 1
		}
		bal, err := accountBalance(req.DataDir, req.Network, account)
		if err != nil {
			writeResp(stdout, Response{Ok: false, Err: err.Error()})
			return 1
		}
		writeResp(stdout, Response{Ok: true, Balance: bal})
		return 0

	default:
		writeResp(stdout, Response{Ok: false, Err: "unknown op"})
		return 1
	}
}

func writeResp(w io.Writer, resp Response) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(resp)
}

func openStore(datadir, network string) (*store.DB, *ledger.Ledger, error) {
	if datadir == "" {
		datadir = node.DefaultDataDir()
	}
	if network == "" {
		network = "test"
	}
	db, err := store.OpenNetwork(datadir, network)
	if err != nil {
		return nil, nil, err
	}
	provider := crypto.Native{}
	if err := store.InitGenesis(db, provider, network); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, ledger.New(provider), nil
}

func processBlock(datadir, network string, b block.Block) (string, error) {
	db, l, err := openStore(datadir, network)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var code ledger.ProcessCode
	err = db.Update(func(t *store.Txn) error {
		result, err := l.Process(t, b)
		if err != nil {
			return err
		}
		code = result.Code
		return nil
	})
	if err != nil {
		return "", err
	}
	return string(code), nil
}

func rollbackBlock(datadir, network string, hash block.Hash) error {
	db, l, err := openStore(datadir, network)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(t *store.Txn) error {
		return l.Rollback(t, hash)
	})
}

func accountBalance(datadir, network string, account block.Account) (string, error) {
	db, l, err := openStore(datadir, network)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var result string
	err = db.View(func(t *store.Txn) error {
		info, err := t.GetAccount(account)
		if err != nil {
			return err
		}
		bal, err := l.Balance(t, info.Head)
		if err != nil {
			return err
		}
		result = bal.Decimal()
		return nil
	})
	return result, err
}

func decodeHashHex(s string) (block.Hash, error) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return block.Hash{}, fmt.Errorf("invalid hash %q", s)
	}
	var h block.Hash
	copy(h[:], raw)
	return h, nil
}

func decodeAccountHex(s string) (block.Account, error) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return block.Account{}, fmt.Errorf("invalid account %q", s)
	}
	var a block.Account
	copy(a[:], raw)
	return a, nil
}
