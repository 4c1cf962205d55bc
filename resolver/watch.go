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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/fsnotify/fsnotify"
)

// WorkspaceWatcher evicts cached bundles whose workspace file is created,
// rewritten or removed, so the next resolution reads the new compilation.
// Files installed by the workspace's own Store are not changes.
type WorkspaceWatcher struct {
	ws       *Workspace
	resolver *Resolver
	watcher  *fsnotify.Watcher
	wg       sync.WaitGroup
	log      log.Logger
}

// WatchWorkspace starts watching the debug directory of ws. The directory
// is created if missing.
func WatchWorkspace(ws *Workspace, r *Resolver) (*WorkspaceWatcher, error) {
	if err := os.MkdirAll(ws.Dir(), 0o755); err != nil {
		return nil, fmt.Errorf("create debug directory: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(ws.Dir()); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", ws.Dir(), err)
	}
	w := &WorkspaceWatcher{
		ws:       ws,
		resolver: r,
		watcher:  fsw,
		log:      log.New("module", "workspace", "dir", ws.Dir()),
	}
	w.wg.Add(1)
	go w.loop()

	w.log.Debug("Watching workspace")
	return w, nil
}

func (w *WorkspaceWatcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			address, ok := bundleAddress(ev.Name)
			if !ok {
				continue
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				w.ws.forget(address)
			} else if w.ws.ownWrite(address) {
				continue
			}
			if _, cached := w.resolver.Cached(address); cached {
				w.resolver.Evict(address)
				workspaceEvictCounter.Inc(1)
				w.log.Debug("Evicted changed bundle", "address", address, "op", ev.Op)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("Workspace watcher failure", "err", err)
		}
	}
}

// Close stops watching.
func (w *WorkspaceWatcher) Close() error {
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

// bundleAddress returns the account of a bundle file name.
func bundleAddress(path string) (common.Address, bool) {
	hex, ok := strings.CutSuffix(filepath.Base(path), ".json")
	if !ok || !common.IsHexAddress(hex) {
		return common.Address{}, false
	}
	return common.HexToAddress(hex), true
}
