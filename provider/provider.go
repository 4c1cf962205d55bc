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

// Package provider implements access to execution data (receipts, code and
// opcode-level traces) of a chain, and the selection of the node serving it.
package provider

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrUnknownTransaction is returned when a node knows nothing about the
	// requested transaction hash.
	ErrUnknownTransaction = errors.New("unknown transaction")

	// ErrNetworkUnavailable is returned when the network behind a provider
	// cannot be detected.
	ErrNetworkUnavailable = errors.New("network unavailable")
)

// ExecutionDataProvider gives access to the chain data needed to debug a
// transaction.
type ExecutionDataProvider interface {
	// CallContext performs a raw JSON-RPC call against the backing node.
	CallContext(ctx context.Context, result any, method string, args ...any) error

	// TransactionReceipt returns the receipt of a mined transaction, or
	// ErrUnknownTransaction.
	TransactionReceipt(ctx context.Context, hash common.Hash) (*Receipt, error)

	// CodeAt returns the code deployed at account at the given block. A nil
	// block selects the latest state.
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// DebugProvider is an ExecutionDataProvider able to replay transactions and
// return their opcode-level trace.
type DebugProvider interface {
	ExecutionDataProvider

	// TraceTransaction replays the transaction and returns its struct-log trace.
	TraceTransaction(ctx context.Context, hash common.Hash, cfg *TraceConfig) (*Trace, error)
}

// isNotFound reports whether a node error means the requested object is
// unknown to it.
func isNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "not found") || strings.Contains(msg, "unknown transaction")
}
