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
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
)

// DebugDir is the workspace directory holding bundles of debugged contracts.
const DebugDir = ".debug"

// CodeReader fetches deployed bytecode.
type CodeReader interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// Workspace serves bundles stored as <root>/.debug/<address>.json. It is
// both the local compiler and the store for remotely compiled bundles.
type Workspace struct {
	dir  string
	code CodeReader // optional, used to reject stale bundles
	log  log.Logger

	mu      sync.Mutex
	written map[common.Address]common.Hash // content hash of the last Store per address
}

// NewWorkspace opens the debug directory below root. If code is non-nil,
// bundles pinned to a code hash are checked against the deployed bytecode.
func NewWorkspace(root string, code CodeReader) *Workspace {
	return &Workspace{
		dir:  filepath.Join(root, DebugDir),
		code:    code,
		log:     log.New("module", "workspace"),
		written: make(map[common.Address]common.Hash),
	}
}

// Dir returns the directory bundles are kept in.
func (w *Workspace) Dir() string {
	return w.dir
}

func (w *Workspace) path(address common.Address) string {
	return filepath.Join(w.dir, strings.ToLower(address.Hex())+".json")
}

// Compile implements LocalCompiler.
func (w *Workspace) Compile(ctx context.Context, address common.Address) (*CompilationBundle, error) {
	data, err := os.ReadFile(w.path(address))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read workspace bundle: %w", err)
	}
	var bundle CompilationBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("%w: corrupt workspace bundle %s: %v", ErrCompilationFailed, w.path(address), err)
	}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompilationFailed, err)
	}
	if bundle.CodeHash != (common.Hash{}) && w.code != nil {
		code, err := w.code.CodeAt(ctx, address, nil)
		if err != nil {
			return nil, fmt.Errorf("fetch code of %s: %w", address.Hex(), err)
		}
		if have := crypto.Keccak256Hash(code); have != bundle.CodeHash {
			workspaceStaleCounter.Inc(1)
			w.log.Warn("Ignoring stale workspace bundle", "address", address, "want", bundle.CodeHash, "have", have)
			return nil, nil
		}
	}
	return &bundle, nil
}

// Store implements Store. The bundle is written to a temporary file first
// and renamed into place.
func (w *Workspace) Store(ctx context.Context, address common.Address, bundle *CompilationBundle) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create debug directory: %w", err)
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	path := w.path(address)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	// Recorded before the rename so the watcher never sees an unknown write.
	w.mu.Lock()
	prev, hadPrev := w.written[address]
	w.written[address] = crypto.Keccak256Hash(data)
	w.mu.Unlock()

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		w.mu.Lock()
		if hadPrev {
			w.written[address] = prev
		} else {
			delete(w.written, address)
		}
		w.mu.Unlock()
		return fmt.Errorf("install bundle: %w", err)
	}
	w.log.Debug("Stored bundle", "address", address, "path", path)
	return nil
}

// ownWrite reports whether the bundle file of address holds exactly what
// the last Store wrote.
func (w *Workspace) ownWrite(address common.Address) bool {
	w.mu.Lock()
	want, ok := w.written[address]
	w.mu.Unlock()
	if !ok {
		return false
	}
	data, err := os.ReadFile(w.path(address))
	if err != nil {
		return false
	}
	return crypto.Keccak256Hash(data) == want
}

// forget drops the record of the last Store of address.
func (w *Workspace) forget(address common.Address) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.written, address)
}
