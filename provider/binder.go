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
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

// DialFunc opens a provider for a debug node endpoint.
type DialFunc func(ctx context.Context, endpoint string) (ExecutionDataProvider, error)

// Binder selects the provider a debug session runs against: a debug node
// registered for the detected network, or the default provider.
type Binder struct {
	fallback ExecutionDataProvider
	detector NetworkDetector
	nodes    map[string]string // network name -> debug node endpoint
	dial     DialFunc

	mu    sync.Mutex
	bound map[string]DebugProvider // dialed debug nodes by network name
	log   log.Logger
}

// NewBinder creates a binder. A nil detector always binds the fallback.
func NewBinder(fallback ExecutionDataProvider, detector NetworkDetector, nodes map[string]string) *Binder {
	registered := make(map[string]string, len(nodes))
	for name, endpoint := range nodes {
		registered[name] = endpoint
	}
	return &Binder{
		fallback: fallback,
		detector: detector,
		nodes:    registered,
		dial:     dialRPC,
		bound:    make(map[string]DebugProvider),
		log:      log.New("module", "binder"),
	}
}

func dialRPC(ctx context.Context, endpoint string) (ExecutionDataProvider, error) {
	return DialRPC(ctx, endpoint)
}

// SetDialer replaces the function used to open debug node connections.
func (b *Binder) SetDialer(dial DialFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dial = dial
}

// Default returns the fallback provider, extended with the debug namespace.
func (b *Binder) Default() DebugProvider {
	return Extend(b.fallback)
}

// Bind returns the provider to debug against. Detection and dial failures
// degrade to the default provider; only a cancelled context is reported.
func (b *Binder) Bind(ctx context.Context) (DebugProvider, error) {
	if b.detector == nil {
		return b.Default(), nil
	}
	network, err := b.detector.DetectNetwork(ctx)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(err, ErrNetworkUnavailable):
		bindFallbackCounter.Inc(1)
		b.log.Warn("Network detection failed, using default provider", "err", err)
		return b.Default(), nil
	default:
		bindFallbackCounter.Inc(1)
		b.log.Error("Unexpected network detection failure, using default provider", "err", err)
		return b.Default(), nil
	}
	return b.bindNetwork(ctx, network)
}

func (b *Binder) bindNetwork(ctx context.Context, network Network) (DebugProvider, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p, ok := b.bound[network.Name]; ok {
		return p, nil
	}
	endpoint, ok := b.nodes[network.Name]
	if !ok {
		b.log.Debug("No debug node registered, using default provider", "network", network.Name)
		return Extend(b.fallback), nil
	}
	p, err := b.dial(ctx, endpoint)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		bindFallbackCounter.Inc(1)
		b.log.Warn("Failed to dial debug node, using default provider", "network", network.Name, "endpoint", endpoint, "err", err)
		return Extend(b.fallback), nil
	}
	dp := Extend(p)
	b.bound[network.Name] = dp
	debugNodeBindCounter.Inc(1)
	b.log.Info("Bound debug node", "network", network.Name, "endpoint", endpoint)
	return dp, nil
}

// Close releases dialed debug node connections.
func (b *Binder) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for name, p := range b.bound {
		if c, ok := unwrap(p).(interface{ Close() }); ok {
			c.Close()
		}
		delete(b.bound, name)
	}
}

func unwrap(p DebugProvider) ExecutionDataProvider {
	if ext, ok := p.(*debugExtension); ok {
		return ext.Unwrap()
	}
	return p
}
