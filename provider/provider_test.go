// Copyright 2026 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package provider

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/eth/tracers/logger"
)

func TestTransactionReceipt(t *testing.T) {
	node := newMockNode(t, 1)
	to := common.HexToAddress("0xb0b")
	hash := common.HexToHash("0x01")
	node.eth.receipts[hash] = &Receipt{TxHash: hash, BlockNumber: 7, To: &to, Status: 1}

	p := NewRPCProvider(node.client)
	receipt, err := p.TransactionReceipt(context.Background(), hash)
	if err != nil {
		t.Fatalf("TransactionReceipt: %v", err)
	}
	if receipt.TxHash != hash || uint64(receipt.BlockNumber) != 7 {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
	if receipt.To == nil || *receipt.To != to {
		t.Fatalf("recipient mismatch: %v", receipt.To)
	}
	if receipt.IsCreation() {
		t.Fatal("call receipt reported as creation")
	}

	_, err = p.TransactionReceipt(context.Background(), common.HexToHash("0x02"))
	if !errors.Is(err, ErrUnknownTransaction) {
		t.Fatalf("expected ErrUnknownTransaction, got %v", err)
	}
}

func TestCodeAt(t *testing.T) {
	node := newMockNode(t, 1)
	addr := common.HexToAddress("0xc0de")
	node.eth.code[addr] = []byte{0x60, 0x80}

	code, err := NewRPCProvider(node.client).CodeAt(context.Background(), addr, nil)
	if err != nil {
		t.Fatalf("CodeAt: %v", err)
	}
	if len(code) != 2 || code[0] != 0x60 {
		t.Fatalf("unexpected code %x", code)
	}
}

func TestExtendTraceTransaction(t *testing.T) {
	node := newMockNode(t, 1)
	hash := common.HexToHash("0x01")
	node.debug.traces[hash] = &Trace{
		Gas: 21000,
		StructLogs: []StructLog{
			{Pc: 0, Op: "PUSH1", Depth: 1},
			{Pc: 2, Op: "STOP", Depth: 1},
		},
	}

	dp := Extend(NewRPCProvider(node.client))
	cfg := &TraceConfig{Config: &logger.Config{EnableMemory: true}}
	trace, err := dp.TraceTransaction(context.Background(), hash, cfg)
	if err != nil {
		t.Fatalf("TraceTransaction: %v", err)
	}
	if trace.Len() != 2 || trace.StructLogs[1].Op != "STOP" {
		t.Fatalf("unexpected trace: %+v", trace)
	}
	if len(node.debug.configs) != 1 || node.debug.configs[0].Config == nil || !node.debug.configs[0].EnableMemory {
		t.Fatalf("trace config not forwarded: %+v", node.debug.configs)
	}

	_, err = dp.TraceTransaction(context.Background(), common.HexToHash("0x03"), nil)
	if !errors.Is(err, ErrUnknownTransaction) {
		t.Fatalf("expected ErrUnknownTransaction, got %v", err)
	}
}

func TestExtendIdempotent(t *testing.T) {
	node := newMockNode(t, 1)
	base := NewRPCProvider(node.client)

	once := Extend(base)
	twice := Extend(once)
	if once != twice {
		t.Fatal("extending an extended provider must return the same instance")
	}
	if unwrap(twice) != ExecutionDataProvider(base) {
		t.Fatal("extension wraps more than one layer")
	}
}

func TestNetworkName(t *testing.T) {
	tests := []struct {
		id   *big.Int
		want string
	}{
		{big.NewInt(1), "Main"},
		{big.NewInt(11155111), "Sepolia"},
		{big.NewInt(17000), "Holesky"},
		{big.NewInt(1337), CustomNetwork},
		{nil, CustomNetwork},
	}
	for _, tt := range tests {
		if have := NetworkName(tt.id); have != tt.want {
			t.Errorf("NetworkName(%v): have %q, want %q", tt.id, have, tt.want)
		}
	}
}

func TestDetectNetwork(t *testing.T) {
	node := newMockNode(t, 11155111)
	p := NewRPCProvider(node.client)

	network, err := p.DetectNetwork(context.Background())
	if err != nil {
		t.Fatalf("DetectNetwork: %v", err)
	}
	if network.Name != "Sepolia" || network.ChainID.Int64() != 11155111 {
		t.Fatalf("unexpected network %+v", network)
	}

	node.eth.mu.Lock()
	node.eth.failID = true
	node.eth.mu.Unlock()
	if _, err := p.DetectNetwork(context.Background()); !errors.Is(err, ErrNetworkUnavailable) {
		t.Fatalf("expected ErrNetworkUnavailable, got %v", err)
	}
}

func TestStackBack(t *testing.T) {
	l := StructLog{Stack: []string{
		"0x0",
		"000000000000000000000000000000000000000000000000000000000000beef",
		"0xff",
	}}
	top, err := l.StackBack(0)
	if err != nil || top.Uint64() != 0xff {
		t.Fatalf("top word: %v %v", top, err)
	}
	second, err := l.StackBack(1)
	if err != nil || second.Uint64() != 0xbeef {
		t.Fatalf("second word: %v %v", second, err)
	}
	bottom, err := l.StackBack(2)
	if err != nil || !bottom.IsZero() {
		t.Fatalf("bottom word: %v %v", bottom, err)
	}
	if _, err := l.StackBack(3); err == nil {
		t.Fatal("expected underflow")
	}
}
