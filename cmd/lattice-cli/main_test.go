package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/latticecoin/node/amount"
	"github.com/latticecoin/node/block"
)

func runOp(t *testing.T, req Request) Response {
	t.Helper()
	var in bytes.Buffer
	if err := json.NewEncoder(&in).Encode(req); err != nil {
		t.Fatalf("encode request: %v", err)
	}
	var out bytes.Buffer
	run(&in, &out)
	var resp Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", out.String(), err)
	}
	return resp
}

func TestRunUnknownOp(t *testing.T) {
	resp := runOp(t, Request{Op: "nope"})
	if resp.Ok {
		t.Fatalf("expected failure for unknown op")
	}
}

func TestRunBadJSON(t *testing.T) {
	var out bytes.Buffer
	code := run(strings.NewReader("{not json"), &out)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestParseAndHashBlockAgree(t *testing.T) {
	send := &block.Send{
		PreviousHash: block.Hash{1},
		Destination:  block.Account{2},
		BalanceAfter: amount.FromUint64(5),
	}
	raw := block.Encode(send)
	hexBlock := hex.EncodeToString(raw)

	hashResp := runOp(t, Request{Op: "hash_block", BlockHex: hexBlock})
	if !hashResp.Ok {
		t.Fatalf("hash_block failed: %s", hashResp.Err)
	}

	parseResp := runOp(t, Request{Op: "parse_block", BlockHex: hexBlock})
	if !parseResp.Ok {
		t.Fatalf("parse_block failed: %s", parseResp.Err)
	}
	if parseResp.HashHex != hashResp.HashHex {
		t.Fatalf("hash mismatch: parse=%s hash=%s", parseResp.HashHex, hashResp.HashHex)
	}
	if parseResp.Block["type"] != "send" {
		t.Fatalf("expected type send, got %v", parseResp.Block["type"])
	}
}

func TestParseBlockBadHex(t *testing.T) {
	resp := runOp(t, Request{Op: "parse_block", BlockHex: "zz"})
	if resp.Ok {
		t.Fatalf("expected failure for bad hex")
	}
}

func TestBalanceQueriesGenesisAccount(t *testing.T) {
	dir := t.TempDir()
	accountHex := hex.EncodeToString(append([]byte{0x01}, make([]byte, 31)...))
	resp := runOp(t, Request{Op: "balance", DataDir: dir, Network: "test", AccountHex: accountHex})
	if !resp.Ok {
		t.Fatalf("balance query failed: %s", resp.Err)
	}
	if resp.Balance == "" {
		t.Fatalf("expected nonzero balance string")
	}
}

