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
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
)

// RPCProvider serves execution data from a JSON-RPC endpoint. It does not
// expose traces by itself; wrap it with Extend for that.
type RPCProvider struct {
	endpoint string
	client   *rpc.Client
	eth      *ethclient.Client
	timeout  time.Duration
}

// NewRPCProvider creates a provider on top of an established RPC client.
func NewRPCProvider(client *rpc.Client) *RPCProvider {
	return &RPCProvider{
		client:  client,
		eth:     ethclient.NewClient(client),
		timeout: 30 * time.Second,
	}
}

// DialRPC connects to the given endpoint.
func DialRPC(ctx context.Context, endpoint string) (*RPCProvider, error) {
	client, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", endpoint, err)
	}
	p := NewRPCProvider(client)
	p.endpoint = endpoint
	log.Debug("Connected to execution node", "endpoint", endpoint)
	return p, nil
}

// SetTimeout bounds every call issued by the provider. Zero disables the bound.
func (p *RPCProvider) SetTimeout(d time.Duration) {
	p.timeout = d
}

// Endpoint returns the dialed endpoint, empty for providers built from a client.
func (p *RPCProvider) Endpoint() string {
	return p.endpoint
}

// Client returns the underlying RPC client.
func (p *RPCProvider) Client() *rpc.Client {
	return p.client
}

// Close tears down the connection.
func (p *RPCProvider) Close() {
	p.client.Close()
}

func (p *RPCProvider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.timeout)
}

// CallContext implements ExecutionDataProvider.
func (p *RPCProvider) CallContext(ctx context.Context, result any, method string, args ...any) error {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.client.CallContext(ctx, result, method, args...)
}

// TransactionReceipt implements ExecutionDataProvider.
func (p *RPCProvider) TransactionReceipt(ctx context.Context, hash common.Hash) (*Receipt, error) {
	var receipt *Receipt
	if err := p.CallContext(ctx, &receipt, "eth_getTransactionReceipt", hash); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnknownTransaction, hash, err)
		}
		return nil, fmt.Errorf("eth_getTransactionReceipt(%s): %w", hash, err)
	}
	if receipt == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransaction, hash)
	}
	return receipt, nil
}

// CodeAt implements ExecutionDataProvider.
func (p *RPCProvider) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.eth.CodeAt(ctx, account, blockNumber)
}

// DetectNetwork implements NetworkDetector using the node's chain id.
func (p *RPCProvider) DetectNetwork(ctx context.Context) (Network, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	id, err := p.eth.ChainID(ctx)
	if err != nil {
		return Network{}, fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}
	return Network{Name: NetworkName(id), ChainID: id}, nil
}
