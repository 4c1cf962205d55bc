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

package resolver

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type staticCode map[common.Address][]byte

func (c staticCode) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return c[account], nil
}

func TestWorkspaceRoundTrip(t *testing.T) {
	ws := NewWorkspace(t.TempDir(), nil)
	addr := common.HexToAddress("0xabcdef")

	if bundle, err := ws.Compile(context.Background(), addr); err != nil || bundle != nil {
		t.Fatalf("empty workspace: have (%v, %v), want (nil, nil)", bundle, err)
	}
	if err := ws.Store(context.Background(), addr, testBundle()); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ws.Dir(), "0x0000000000000000000000000000000000abcdef.json")); err != nil {
		t.Fatalf("bundle file missing: %v", err)
	}
	bundle, err := ws.Compile(context.Background(), addr)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if bundle.Target != "main.sol" || bundle.Sources["main.sol"].Content != "contract C {}" {
		t.Fatalf("unexpected bundle %+v", bundle)
	}
	if ref, ok := bundle.Lookup(0, false); !ok || ref.Length != 13 {
		t.Fatalf("source map lost: %+v %v", ref, ok)
	}
}

func TestWorkspaceCorruptBundle(t *testing.T) {
	ws := NewWorkspace(t.TempDir(), nil)
	addr := common.HexToAddress("0x01")

	if err := os.MkdirAll(ws.Dir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ws.path(addr), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ws.Compile(context.Background(), addr); !errors.Is(err, ErrCompilationFailed) {
		t.Fatalf("expected ErrCompilationFailed, got %v", err)
	}
}

func TestWorkspaceCodeHash(t *testing.T) {
	addr := common.HexToAddress("0xc0de")
	code := staticCode{addr: {0x60, 0x80, 0x60, 0x40}}
	ws := NewWorkspace(t.TempDir(), code)

	bundle := testBundle()
	bundle.CodeHash = crypto.Keccak256Hash(code[addr])
	if err := ws.Store(context.Background(), addr, bundle); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if have, err := ws.Compile(context.Background(), addr); err != nil || have == nil {
		t.Fatalf("matching code hash: have (%v, %v)", have, err)
	}

	// Redeployed code no longer matches the stored bundle.
	code[addr] = []byte{0x00}
	if have, err := ws.Compile(context.Background(), addr); err != nil || have != nil {
		t.Fatalf("stale bundle must be ignored, have (%v, %v)", have, err)
	}
}

func TestWorkspaceAsResolverStore(t *testing.T) {
	ws := NewWorkspace(t.TempDir(), nil)
	remote := &fakeCompiler{bundle: testBundle()}
	addr := common.HexToAddress("0x77")

	r := New(Config{Local: ws, Remote: remote, Store: ws, Notifier: new(recordingNotifier)})
	if _, err := r.Resolve(context.Background(), addr.Hex(), nil); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// A fresh resolver finds the persisted bundle locally.
	notes := new(recordingNotifier)
	r = New(Config{Local: ws, Remote: remote, Store: ws, Notifier: notes})
	if _, err := r.Resolve(context.Background(), addr.Hex(), nil); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if remote.count() != 1 {
		t.Fatalf("remote called %d times, want 1", remote.count())
	}
	if kinds := notes.kinds(); len(kinds) != 1 || kinds[0] != UsingLocalCompilation {
		t.Fatalf("unexpected notifications %v", kinds)
	}
}
