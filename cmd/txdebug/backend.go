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

	"github.com/Shard-Labs/remix-project/provider"
	"github.com/Shard-Labs/remix-project/resolver"
	"github.com/Shard-Labs/remix-project/session"
	"github.com/ethereum/go-ethereum/log"
)

// backend wires the execution node, the source resolver and the session
// controller of one editor.
type backend struct {
	provider *provider.RPCProvider
	binder   *provider.Binder
	remote   *resolver.RemoteCompiler
	resolver *resolver.Resolver
	watcher  *resolver.WorkspaceWatcher
	ctrl     *session.Controller
}

// newBackend dials the execution node and the verification service and
// creates a controller that highlights through editor.
func newBackend(ctx context.Context, cfg *Config, editor session.Editor, notifier resolver.Notifier) (*backend, error) {
	base, err := provider.DialRPC(ctx, cfg.RPCEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", cfg.RPCEndpoint, err)
	}
	base.SetTimeout(cfg.RPCTimeout)
	b := &backend{provider: base}

	b.binder = provider.NewBinder(base, base, cfg.DebugNodes)
	b.binder.SetDialer(func(ctx context.Context, endpoint string) (provider.ExecutionDataProvider, error) {
		p, err := provider.DialRPC(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		p.SetTimeout(cfg.RPCTimeout)
		return p, nil
	})

	var ws *resolver.Workspace
	rcfg := resolver.Config{Notifier: notifier}
	if cfg.Workspace != "" {
		ws = resolver.NewWorkspace(cfg.Workspace, base)
		rcfg.Local, rcfg.Store = ws, ws
		log.Debug("Using workspace compilation results", "dir", ws.Dir())
	}
	if cfg.VerifierEndpoint != "" {
		network, err := base.DetectNetwork(ctx)
		if err != nil {
			log.Warn("Network detection failed, querying verified sources as custom network", "err", err)
			network.Name = provider.CustomNetwork
		}
		remote, err := resolver.DialRemoteCompiler(ctx, cfg.VerifierEndpoint, network.Name)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to dial verification service %s: %w", cfg.VerifierEndpoint, err)
		}
		remote.SetTimeout(cfg.RPCTimeout)
		b.remote = remote
		rcfg.Remote = remote
	}
	b.resolver = resolver.New(rcfg)
	if ws != nil {
		if b.watcher, err = resolver.WatchWorkspace(ws, b.resolver); err != nil {
			log.Warn("Workspace changes will not refresh cached sources", "dir", ws.Dir(), "err", err)
		}
	}

	b.ctrl, err = session.New(session.Config{
		Binder:      b.binder,
		Resolver:    b.resolver,
		Editor:      editor,
		TraceConfig: cfg.TraceConfig(),
	})
	if err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// Close detaches the controller and releases all connections.
func (b *backend) Close() {
	if b.ctrl != nil {
		b.ctrl.Close()
	}
	if b.watcher != nil {
		b.watcher.Close()
	}
	if b.remote != nil {
		b.remote.Close()
	}
	b.binder.Close()
	b.provider.Close()
}
