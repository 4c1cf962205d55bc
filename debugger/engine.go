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

// Package debugger steps through the struct-log trace of a transaction and
// maps every step to the source range that produced it.
package debugger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Shard-Labs/remix-project/provider"
	"github.com/Shard-Labs/remix-project/resolver"
	"github.com/Shard-Labs/remix-project/sourcemap"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotLoaded       = errors.New("trace not loaded")
	ErrStepOutOfRange  = errors.New("step out of range")
	errIncompleteSetup = errors.New("incomplete engine config")
)

// ResolveFunc returns the compilation bundle of the code running at
// address. Failures wrapping resolver.ErrSourceUnavailable put the address in
// bytecode-only mode.
type ResolveFunc func(ctx context.Context, address string, receipt *provider.Receipt) (*resolver.CompilationBundle, error)

// Config holds the collaborators of an Engine.
type Config struct {
	Provider    provider.DebugProvider
	Receipt     *provider.Receipt
	Resolve     ResolveFunc
	Convert     sourcemap.Converter  // defaults to sourcemap.Default
	TraceConfig *provider.TraceConfig // nil uses the node defaults
}

// Location is the source range of one step.
type Location struct {
	Address string                       `json:"address"`
	Path    string                       `json:"path"`
	Range   sourcemap.LineColumnLocation `json:"range"`
	Raw     sourcemap.RawLocation        `json:"raw"`
}

type outcome struct {
	bundle *resolver.CompilationBundle // nil in bytecode-only mode
}

// Engine holds one loaded transaction. Location lookups are safe for
// concurrent use once Load has returned.
type Engine struct {
	cfg   Config
	hash  common.Hash
	trace *provider.Trace
	code  codeMap

	mu       sync.Mutex
	outcomes map[string]outcome
	group    singleflight.Group
	log      log.Logger
}

// New creates an engine. Provider, Receipt and Resolve are required.
func New(cfg Config) (*Engine, error) {
	if cfg.Provider == nil || cfg.Receipt == nil || cfg.Resolve == nil {
		return nil, errIncompleteSetup
	}
	if cfg.Convert == nil {
		cfg.Convert = sourcemap.Default
	}
	return &Engine{
		cfg:      cfg,
		outcomes: make(map[string]outcome),
		log:      log.New("module", "debugger"),
	}, nil
}

// Load fetches the trace of the transaction and warms the sources of the
// contract it enters.
func (e *Engine) Load(ctx context.Context, hash common.Hash) (*provider.Trace, error) {
	trace, err := e.cfg.Provider.TraceTransaction(ctx, hash, e.cfg.TraceConfig)
	if err != nil {
		return nil, err
	}
	e.hash = hash
	e.trace = trace
	e.code = buildCodeMap(trace.StructLogs, entryFrame(e.cfg.Receipt))
	e.log.Debug("Loaded trace", "hash", hash, "steps", trace.Len(), "failed", trace.Failed)

	if trace.Len() > 0 {
		if _, err := e.bundle(ctx, e.code.addresses[0]); err != nil {
			return nil, err
		}
	}
	return trace, nil
}

// Hash returns the transaction being debugged.
func (e *Engine) Hash() common.Hash {
	return e.hash
}

// Trace returns the loaded trace, or nil.
func (e *Engine) Trace() *provider.Trace {
	return e.trace
}

// Len returns the number of steps.
func (e *Engine) Len() int {
	if e.trace == nil {
		return 0
	}
	return e.trace.Len()
}

// Step returns the struct log of step i.
func (e *Engine) Step(i int) (*provider.StructLog, error) {
	if err := e.check(i); err != nil {
		return nil, err
	}
	return &e.trace.StructLogs[i], nil
}

// Address returns the account whose code runs at step i, or a contract
// creation placeholder.
func (e *Engine) Address(i int) (string, error) {
	if err := e.check(i); err != nil {
		return "", err
	}
	return e.code.addresses[i], nil
}

func (e *Engine) check(i int) error {
	if e.trace == nil {
		return ErrNotLoaded
	}
	if i < 0 || i >= e.trace.Len() {
		return fmt.Errorf("%w: %d of %d", ErrStepOutOfRange, i, e.trace.Len())
	}
	return nil
}

// Location returns the source range of step i. It returns nil without error
// when no source is available for the step.
func (e *Engine) Location(ctx context.Context, i int) (*Location, error) {
	if err := e.check(i); err != nil {
		return nil, err
	}
	address := e.code.addresses[i]
	bundle, err := e.bundle(ctx, address)
	if err != nil || bundle == nil {
		return nil, err
	}
	ref, ok := bundle.Lookup(e.trace.StructLogs[i].Pc, e.code.creation[i])
	if !ok || ref.Start < 0 {
		return nil, nil
	}
	path, ok := bundle.FileName(ref.File)
	if !ok {
		return nil, nil
	}
	lc, err := e.cfg.Convert.Convert(ref.Raw(), ref.File, bundle.Sources, bundle.ASTs)
	if errors.Is(err, sourcemap.ErrUnresolvedLocation) {
		e.log.Debug("Unresolved source location", "step", i, "address", address, "raw", ref.Raw())
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Location{Address: address, Path: path, Range: lc, Raw: ref.Raw()}, nil
}

// bundle resolves the sources of address once per engine. Only context
// errors are returned, source failures yield a nil bundle. Unexpected
// resolver failures are not remembered and retried on the next lookup.
func (e *Engine) bundle(ctx context.Context, address string) (*resolver.CompilationBundle, error) {
	e.mu.Lock()
	o, ok := e.outcomes[address]
	e.mu.Unlock()
	if ok {
		return o.bundle, nil
	}
	ch := e.group.DoChan(address, func() (any, error) {
		e.mu.Lock()
		o, ok := e.outcomes[address]
		e.mu.Unlock()
		if ok {
			return o.bundle, nil
		}
		bundle, err := e.cfg.Resolve(context.WithoutCancel(ctx), address, e.cfg.Receipt)
		if err != nil {
			if !errors.Is(err, resolver.ErrSourceUnavailable) {
				e.log.Warn("Unexpected source resolution failure", "address", address, "err", err)
				return nil, err
			}
			bundle = nil
		}
		e.mu.Lock()
		e.outcomes[address] = outcome{bundle: bundle}
		e.mu.Unlock()
		return bundle, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, nil
		}
		return res.Val.(*resolver.CompilationBundle), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Preload resolves the sources of every account in the trace, running at
// most limit resolutions at a time. It returns the number of accounts with
// sources.
func (e *Engine) Preload(ctx context.Context, limit int) (int, error) {
	if e.trace == nil {
		return 0, ErrNotLoaded
	}
	seen := make(map[string]struct{})
	var addresses []string
	for _, address := range e.code.addresses {
		if _, ok := seen[address]; !ok {
			seen[address] = struct{}{}
			addresses = append(addresses, address)
		}
	}
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	var (
		mu       sync.Mutex
		resolved int
	)
	for _, address := range addresses {
		g.Go(func() error {
			bundle, err := e.bundle(gctx, address)
			if err != nil {
				return err
			}
			if bundle != nil {
				mu.Lock()
				resolved++
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return resolved, err
	}
	return resolved, nil
}

// NextBreakpoint returns the first step after from that stops on a
// breakpoint, skipping the steps still on the line of from.
func (e *Engine) NextBreakpoint(ctx context.Context, from int, bps *Breakpoints) (int, *Location, bool, error) {
	return e.seekBreakpoint(ctx, from, 1, bps)
}

// PreviousBreakpoint is the backwards counterpart of NextBreakpoint.
func (e *Engine) PreviousBreakpoint(ctx context.Context, from int, bps *Breakpoints) (int, *Location, bool, error) {
	return e.seekBreakpoint(ctx, from, -1, bps)
}

func (e *Engine) seekBreakpoint(ctx context.Context, from, dir int, bps *Breakpoints) (int, *Location, bool, error) {
	if e.trace == nil {
		return 0, nil, false, ErrNotLoaded
	}
	if bps.Len() == 0 {
		return 0, nil, false, nil
	}
	var current *Location
	if from >= 0 && from < e.trace.Len() {
		loc, err := e.Location(ctx, from)
		if err != nil {
			return 0, nil, false, err
		}
		current = loc
	}
	leaving := current != nil
	for i := from + dir; i >= 0 && i < e.trace.Len(); i += dir {
		if err := ctx.Err(); err != nil {
			return 0, nil, false, err
		}
		loc, err := e.Location(ctx, i)
		if err != nil {
			return 0, nil, false, err
		}
		if loc == nil {
			continue
		}
		if leaving {
			if sameLine(loc, current) {
				continue
			}
			leaving = false
		}
		if bps.Hit(loc) {
			return i, loc, true, nil
		}
	}
	return 0, nil, false, nil
}

func sameLine(a, b *Location) bool {
	return a.Path == b.Path && a.Range.Start.Line == b.Range.Start.Line
}
