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
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Extend decorates p with the debug namespace. Providers that already serve
// traces, including ones returned by an earlier Extend, are returned as is.
func Extend(p ExecutionDataProvider) DebugProvider {
	if dp, ok := p.(DebugProvider); ok {
		return dp
	}
	return &debugExtension{ExecutionDataProvider: p}
}

// debugExtension adds debug_traceTransaction on top of a plain provider.
type debugExtension struct {
	ExecutionDataProvider
}

// Unwrap returns the decorated provider.
func (e *debugExtension) Unwrap() ExecutionDataProvider {
	return e.ExecutionDataProvider
}

// TraceTransaction implements DebugProvider.
func (e *debugExtension) TraceTransaction(ctx context.Context, hash common.Hash, cfg *TraceConfig) (*Trace, error) {
	start := time.Now()
	defer traceFetchTimer.UpdateSince(start)

	var trace *Trace
	if err := e.CallContext(ctx, &trace, "debug_traceTransaction", hash, cfg); err != nil {
		traceFetchErrors.Inc(1)
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnknownTransaction, hash, err)
		}
		return nil, fmt.Errorf("debug_traceTransaction(%s): %w", hash, err)
	}
	if trace == nil {
		traceFetchErrors.Inc(1)
		return nil, fmt.Errorf("%w: %s: empty trace", ErrUnknownTransaction, hash)
	}
	traceStepsMeter.Mark(int64(trace.Len()))
	return trace, nil
}
