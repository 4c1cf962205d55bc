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
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
)

// Error codes returned by the verification service.
const (
	NotFoundErrorCode          = -32004
	CompilationFailedErrorCode = -32005
)

const defaultRemoteTimeout = 60 * time.Second

// RemoteCompiler is a JSON-RPC client of a source verification service
// exposing sources_fetchAndCompile.
type RemoteCompiler struct {
	client  *rpc.Client
	network string
	timeout time.Duration
}

// NewRemoteCompiler wraps an RPC client. Lookups are scoped to network.
func NewRemoteCompiler(client *rpc.Client, network string) *RemoteCompiler {
	return &RemoteCompiler{client: client, network: network, timeout: defaultRemoteTimeout}
}

// DialRemoteCompiler connects to the verification service at endpoint.
func DialRemoteCompiler(ctx context.Context, endpoint, network string) (*RemoteCompiler, error) {
	client, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("dial verification service %s: %w", endpoint, err)
	}
	return NewRemoteCompiler(client, network), nil
}

// SetTimeout bounds each request.
func (c *RemoteCompiler) SetTimeout(d time.Duration) {
	c.timeout = d
}

// Close terminates the underlying connection.
func (c *RemoteCompiler) Close() {
	c.client.Close()
}

// FetchAndCompile implements VerificationService.
func (c *RemoteCompiler) FetchAndCompile(ctx context.Context, address common.Address) (*CompilationBundle, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	var bundle *CompilationBundle
	if err := c.client.CallContext(ctx, &bundle, "sources_fetchAndCompile", address, c.network); err != nil {
		return nil, classifyRemoteError(address, err)
	}
	if bundle == nil {
		return nil, fmt.Errorf("%w: %s on %s", ErrNotFound, address.Hex(), c.network)
	}
	return bundle, nil
}

// classifyRemoteError maps service error codes onto the resolver taxonomy.
// Anything that is not a service-level error is a transport failure.
func classifyRemoteError(address common.Address, err error) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case NotFoundErrorCode:
			return fmt.Errorf("%w: %s: %v", ErrNotFound, address.Hex(), err)
		case CompilationFailedErrorCode:
			return fmt.Errorf("%w: %s: %v", ErrCompilationFailed, address.Hex(), err)
		}
	}
	return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
}
