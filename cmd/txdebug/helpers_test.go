// Copyright 2026 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"math/big"
	"net/http/httptest"
	"testing"

	"github.com/Shard-Labs/remix-project/provider"
	"github.com/Shard-Labs/remix-project/resolver"
	"github.com/Shard-Labs/remix-project/sourcemap"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

var (
	contractAddr = common.HexToAddress("0x0a")
	txHash       = common.HexToHash("0xa1")
	unknownHash  = common.HexToHash("0xdead")
)

// contractBundle maps pc 0, 1 and 2 to lines 0, 1 and 2 of a.sol.
func contractBundle() *resolver.CompilationBundle {
	return &resolver.CompilationBundle{
		Sources: sourcemap.Sources{"a.sol": {Content: "contract A {\n  uint x;\n}\n"}},
		Target:  "a.sol",
		ASTs:    sourcemap.SyntaxTrees{"a.sol": sourcemap.SyntaxTree(`{"src":"0:25:0"}`)},
		SourceMap: resolver.SourceMap{Runtime: map[uint64]resolver.SourceRef{
			0: {Start: 0, Length: 12},
			1: {Start: 15, Length: 7},
			2: {Start: 23, Length: 1},
		}},
	}
}

type mockEthAPI struct{}

func (mockEthAPI) ChainId(ctx context.Context) (*hexutil.Big, error) {
	return (*hexutil.Big)(big.NewInt(1337)), nil
}

func (mockEthAPI) GetTransactionReceipt(ctx context.Context, hash common.Hash) (*provider.Receipt, error) {
	if hash != txHash {
		return nil, nil
	}
	to := contractAddr
	return &provider.Receipt{TxHash: hash, To: &to, Status: 1}, nil
}

func (mockEthAPI) GetCode(ctx context.Context, addr common.Address, block rpc.BlockNumberOrHash) (hexutil.Bytes, error) {
	return hexutil.Bytes{0x60, 0x01, 0x00}, nil
}

type mockDebugAPI struct{}

func (mockDebugAPI) TraceTransaction(ctx context.Context, hash common.Hash, cfg *provider.TraceConfig) (*provider.Trace, error) {
	if hash != txHash {
		return nil, errors.New("transaction " + hash.Hex() + " not found")
	}
	return &provider.Trace{Gas: 21003, StructLogs: []provider.StructLog{
		{Pc: 0, Op: "PUSH1", Depth: 1},
		{Pc: 1, Op: "PUSH1", Depth: 1},
		{Pc: 2, Op: "STOP", Depth: 1},
	}}, nil
}

// newMockNode serves the eth and debug namespaces over HTTP.
func newMockNode(t *testing.T) string {
	t.Helper()

	server := rpc.NewServer()
	if err := server.RegisterName("eth", mockEthAPI{}); err != nil {
		t.Fatalf("register mock eth API: %v", err)
	}
	if err := server.RegisterName("debug", mockDebugAPI{}); err != nil {
		t.Fatalf("register mock debug API: %v", err)
	}
	httpSrv := httptest.NewServer(server)
	t.Cleanup(func() {
		httpSrv.Close()
		server.Stop()
	})
	return httpSrv.URL
}

// newTestBackend creates a backend against a mock node whose workspace
// holds the bundle of contractAddr.
func newTestBackend(t *testing.T, editor *eventHub) *backend {
	t.Helper()

	cfg := defaultConfig()
	cfg.RPCEndpoint = newMockNode(t)
	cfg.Workspace = t.TempDir()
	ws := resolver.NewWorkspace(cfg.Workspace, nil)
	if err := ws.Store(context.Background(), contractAddr, contractBundle()); err != nil {
		t.Fatalf("seed workspace: %v", err)
	}

	var (
		b   *backend
		err error
	)
	if editor != nil {
		b, err = newBackend(context.Background(), cfg, editor, editor)
	} else {
		b, err = newBackend(context.Background(), cfg, logEditor{}, resolver.LogNotifier{})
	}
	if err != nil {
		t.Fatalf("newBackend: %v", err)
	}
	t.Cleanup(b.Close)
	return b
}
