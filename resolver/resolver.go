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

// Package resolver maps contract addresses to compiled source bundles. A
// bundle is looked up in a process-wide cache first, then produced by a local
// compiler, and finally by a remote source verification service.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/Shard-Labs/remix-project/provider"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrSourceUnavailable is returned when no strategy could produce a
	// bundle. Debugging continues in bytecode-only mode.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrCompilationFailed is reported by compilers that found sources but
	// could not compile them.
	ErrCompilationFailed = errors.New("compilation failed")

	// ErrNotFound is reported by the verification service when it has no
	// sources for an address.
	ErrNotFound = errors.New("contract not found")

	// ErrServiceUnavailable is reported when the verification service cannot
	// be reached.
	ErrServiceUnavailable = errors.New("verification service unavailable")
)

// LocalCompiler produces bundles from sources available to the local
// workspace. It returns (nil, nil) when it knows nothing about an address.
type LocalCompiler interface {
	Compile(ctx context.Context, address common.Address) (*CompilationBundle, error)
}

// VerificationService fetches verified sources of an address and compiles
// them. Failures are reported as ErrNotFound, ErrCompilationFailed or
// ErrServiceUnavailable.
type VerificationService interface {
	FetchAndCompile(ctx context.Context, address common.Address) (*CompilationBundle, error)
}

// Store persists bundles produced by the verification service.
type Store interface {
	Store(ctx context.Context, address common.Address, bundle *CompilationBundle) error
}

var creationMarker = regexp.MustCompile(`^\(Contract Creation - Step \d+\)$`)

// CreationMarker returns the address placeholder used for the code being
// deployed by the step with the given index.
func CreationMarker(step int) string {
	return fmt.Sprintf("(Contract Creation - Step %d)", step)
}

// IsContractCreation reports whether address is a creation placeholder rather
// than a real account.
func IsContractCreation(address string) bool {
	return creationMarker.MatchString(address)
}

// TargetAddress derives the account whose sources should be resolved.
func TargetAddress(address string, receipt *provider.Receipt) (common.Address, bool) {
	target := address
	if IsContractCreation(address) {
		target = ""
		if receipt != nil && receipt.ContractAddress != nil {
			target = receipt.ContractAddress.Hex()
		}
	}
	if target == "" && receipt != nil {
		switch {
		case receipt.ContractAddress != nil:
			target = receipt.ContractAddress.Hex()
		case receipt.To != nil:
			target = receipt.To.Hex()
		}
	}
	if !common.IsHexAddress(target) {
		return common.Address{}, false
	}
	return common.HexToAddress(target), true
}

// Config holds the collaborators of a Resolver. Every field is optional.
type Config struct {
	Local    LocalCompiler
	Remote   VerificationService
	Store    Store
	Notifier Notifier
}

// Resolver resolves and caches compilation bundles. It is safe for
// concurrent use.
type Resolver struct {
	local    LocalCompiler
	remote   VerificationService
	store    Store
	notifier Notifier

	mu    sync.RWMutex
	cache map[common.Address]*CompilationBundle
	group singleflight.Group
	log   log.Logger
}

// New creates a resolver with an empty cache.
func New(cfg Config) *Resolver {
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Resolver{
		local:    cfg.Local,
		remote:   cfg.Remote,
		store:    cfg.Store,
		notifier: notifier,
		cache:    make(map[common.Address]*CompilationBundle),
		log:      log.New("module", "resolver"),
	}
}

// Resolve returns the bundle of the contract targeted by address within the
// transaction described by receipt.
func (r *Resolver) Resolve(ctx context.Context, address string, receipt *provider.Receipt) (*CompilationBundle, error) {
	target, ok := TargetAddress(address, receipt)
	if !ok {
		cause := fmt.Errorf("no target address for %q", address)
		resolveFailureCounter.Inc(1)
		r.notifier.Notify(Notification{Kind: NoTarget, Err: cause})
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, cause)
	}
	if bundle, ok := r.Cached(target); ok {
		cacheHitCounter.Inc(1)
		return bundle, nil
	}
	cacheMissCounter.Inc(1)

	// The shared lookup outlives any single caller; each caller only stops
	// waiting for it.
	ch := r.group.DoChan(target.Hex(), func() (any, error) {
		if bundle, ok := r.Cached(target); ok {
			return bundle, nil
		}
		return r.resolve(context.WithoutCancel(ctx), target)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*CompilationBundle), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Resolver) resolve(ctx context.Context, target common.Address) (*CompilationBundle, error) {
	start := time.Now()
	defer resolveTimer.UpdateSince(start)

	var localErr error
	if r.local != nil {
		bundle, err := r.local.Compile(ctx, target)
		switch {
		case err == nil && bundle != nil:
			if err := bundle.Validate(); err != nil {
				localErr = fmt.Errorf("%w: %v", ErrCompilationFailed, err)
				break
			}
			r.insert(target, bundle)
			localHitCounter.Inc(1)
			r.notifier.Notify(Notification{Kind: UsingLocalCompilation, Address: target})
			return bundle, nil
		case err != nil:
			localErr = err
		}
		if localErr != nil {
			r.log.Warn("Local compilation failed", "address", target, "err", localErr)
		}
	}

	if r.remote == nil {
		kind := VerificationUnavailable
		cause := error(ErrServiceUnavailable)
		if localErr != nil {
			kind, cause = CompilationFailed, localErr
		}
		return nil, r.fail(target, kind, cause)
	}
	bundle, err := r.remote.FetchAndCompile(ctx, target)
	if err == nil {
		if verr := bundle.Validate(); verr != nil {
			err = fmt.Errorf("%w: %v", ErrCompilationFailed, verr)
		}
	}
	if err != nil {
		return nil, r.fail(target, remoteKind(err), err)
	}
	r.insert(target, bundle)
	remoteHitCounter.Inc(1)
	if r.store != nil {
		if err := r.store.Store(ctx, target, bundle); err != nil {
			r.log.Warn("Failed to persist bundle", "address", target, "err", err)
		}
	}
	r.notifier.Notify(Notification{Kind: UsingVerifiedSources, Address: target})
	return bundle, nil
}

func remoteKind(err error) Kind {
	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound
	case errors.Is(err, ErrCompilationFailed):
		return CompilationFailed
	default:
		return VerificationUnavailable
	}
}

// fail emits the single notification of a failed resolution.
func (r *Resolver) fail(target common.Address, kind Kind, cause error) error {
	resolveFailureCounter.Inc(1)
	r.notifier.Notify(Notification{Kind: kind, Address: target, Err: cause})
	return fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, target.Hex(), cause)
}

func (r *Resolver) insert(target common.Address, bundle *CompilationBundle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache[target] = bundle
	cacheSizeGauge.Update(int64(len(r.cache)))
}

// Cached returns the cached bundle of address, if any.
func (r *Resolver) Cached(address common.Address) (*CompilationBundle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bundle, ok := r.cache[address]
	return bundle, ok
}

// Evict drops the cached bundle of address.
func (r *Resolver) Evict(address common.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.cache, address)
	cacheSizeGauge.Update(int64(len(r.cache)))
}

// Flush empties the cache.
func (r *Resolver) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = make(map[common.Address]*CompilationBundle)
	cacheSizeGauge.Update(0)
}
