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
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// mockEthAPI implements the eth_* methods used by RPCProvider.
type mockEthAPI struct {
	mu       sync.Mutex
	chainID  *big.Int
	receipts map[common.Hash]*Receipt
	code     map[common.Address][]byte
	failID   bool
}

func (m *mockEthAPI) ChainId(ctx context.Context) (*hexutil.Big, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failID {
		return nil, errors.New("chain id unavailable")
	}
	return (*hexutil.Big)(m.chainID), nil
}

func (m *mockEthAPI) GetTransactionReceipt(ctx context.Context, hash common.Hash) (*Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.receipts[hash], nil
}

func (m *mockEthAPI) GetCode(ctx context.Context, addr common.Address, block rpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.code[addr], nil
}

// mockDebugAPI implements debug_traceTransaction.
type mockDebugAPI struct {
	mu      sync.Mutex
	traces  map[common.Hash]*Trace
	configs []*TraceConfig
}

func (m *mockDebugAPI) TraceTransaction(ctx context.Context, hash common.Hash, cfg *TraceConfig) (*Trace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs = append(m.configs, cfg)
	trace, ok := m.traces[hash]
	if !ok {
		return nil, errors.New("transaction " + hash.Hex() + " not found")
	}
	return trace, nil
}

type mockNode struct {
	eth    *mockEthAPI
	debug  *mockDebugAPI
	server *rpc.Server
	client *rpc.Client
}

func newMockNode(t *testing.T, chainID int64) *mockNode {
	t.Helper()

	n := &mockNode{
		eth: &mockEthAPI{
			chainID:  big.NewInt(chainID),
			receipts: make(map[common.Hash]*Receipt),
			code:     make(map[common.Address][]byte),
		},
		debug:  &mockDebugAPI{traces: make(map[common.Hash]*Trace)},
		server: rpc.NewServer(),
	}
	if err := n.server.RegisterName("eth", n.eth); err != nil {
		t.Fatalf("register mock eth API: %v", err)
	}
	if err := n.server.RegisterName("debug", n.debug); err != nil {
		t.Fatalf("register mock debug API: %v", err)
	}
	n.client = rpc.DialInProc(n.server)
	t.Cleanup(func() {
		n.client.Close()
		n.server.Stop()
	})
	return n
}

// staticDetector reports a fixed network or error.
type staticDetector struct {
	network Network
	err     error
	calls   int
}

func (d *staticDetector) DetectNetwork(ctx context.Context) (Network, error) {
	d.calls++
	return d.network, d.err
}
