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
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/grafana/pyroscope-go"
)

// Runner manages the daemon lifecycle.
type Runner struct {
	cfg     *Config
	backend *backend
	events  *eventHub
	server  *Server

	profiler *pyroscope.Profiler

	mu      sync.Mutex
	running bool
}

// NewRunner dials the configured endpoints and creates the controller.
func NewRunner(ctx context.Context, cfg *Config) (*Runner, error) {
	events := new(eventHub)
	b, err := newBackend(ctx, cfg, events, events)
	if err != nil {
		return nil, err
	}
	events.watch(b.ctrl)
	b.ctrl.OnBreakpointAdded(func(path string, row int) {
		log.Debug("Breakpoint added", "path", path, "row", row)
	})
	b.ctrl.OnBreakpointCleared(func(path string, row int) {
		log.Debug("Breakpoint cleared", "path", path, "row", row)
	})

	return &Runner{
		cfg:     cfg,
		backend: b,
		events:  events,
	}, nil
}

// Start starts the RPC server.
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("already running")
	}
	setupMetrics(r.cfg)
	profiler, err := startProfiler(r.cfg)
	if err != nil {
		return fmt.Errorf("failed to start profiler: %w", err)
	}

	srv, err := NewServer(r.cfg.ListenAddr, r.cfg.CORSDomains, NewDebuggerAPI(r.backend.ctrl, r.events))
	if err != nil {
		stopProfiler(profiler)
		return fmt.Errorf("failed to start debugger server: %w", err)
	}
	r.server = srv
	r.profiler = profiler
	r.running = true
	return nil
}

// Stop stops the server and releases the backend.
func (r *Runner) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return nil
	}
	r.running = false

	if err := r.server.Close(); err != nil {
		log.Error("Failed to close debugger server", "err", err)
	}
	r.server = nil
	stopProfiler(r.profiler)
	r.profiler = nil
	r.backend.Close()
	return nil
}

// Close releases the backend of a runner that never started.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		r.backend.Close()
	}
}
