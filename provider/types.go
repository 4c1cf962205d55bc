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
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/eth/tracers/logger"
	"github.com/holiman/uint256"
)

// Receipt mirrors the eth_getTransactionReceipt response. Unlike
// types.Receipt it keeps the sender and recipient of the transaction.
type Receipt struct {
	TxHash           common.Hash     `json:"transactionHash"`
	BlockHash        common.Hash     `json:"blockHash"`
	BlockNumber      hexutil.Uint64  `json:"blockNumber"`
	TransactionIndex hexutil.Uint    `json:"transactionIndex"`
	From             common.Address  `json:"from"`
	To               *common.Address `json:"to"`
	ContractAddress  *common.Address `json:"contractAddress"`
	Status           hexutil.Uint64  `json:"status"`
	GasUsed          hexutil.Uint64  `json:"gasUsed"`
}

// IsCreation reports whether the receipt belongs to a contract creation.
func (r *Receipt) IsCreation() bool {
	return r.To == nil && r.ContractAddress != nil
}

// TraceConfig holds the parameters of debug_traceTransaction. A nil Tracer
// selects the struct logger.
type TraceConfig struct {
	*logger.Config
	Tracer  *string `json:"tracer,omitempty"`
	Timeout *string `json:"timeout,omitempty"`
}

// Trace is the struct-logger result of debug_traceTransaction.
type Trace struct {
	Gas         uint64      `json:"gas"`
	Failed      bool        `json:"failed"`
	ReturnValue string      `json:"returnValue"`
	StructLogs  []StructLog `json:"structLogs"`
}

// Len returns the number of steps in the trace.
func (t *Trace) Len() int {
	return len(t.StructLogs)
}

// StructLog is one executed opcode.
type StructLog struct {
	Pc            uint64            `json:"pc"`
	Op            string            `json:"op"`
	Gas           uint64            `json:"gas"`
	GasCost       uint64            `json:"gasCost"`
	Depth         int               `json:"depth"`
	Error         string            `json:"error,omitempty"`
	Stack         []string          `json:"stack,omitempty"`
	Memory        []string          `json:"memory,omitempty"`
	Storage       map[string]string `json:"storage,omitempty"`
	RefundCounter uint64            `json:"refund,omitempty"`
}

// StackBack returns the n'th word from the top of the stack.
func (l *StructLog) StackBack(n int) (*uint256.Int, error) {
	if n < 0 || n >= len(l.Stack) {
		return nil, fmt.Errorf("stack underflow: want word %d of %d", n, len(l.Stack))
	}
	// Nodes disagree on the 0x prefix and zero padding, FromHex wants neither.
	word := strings.TrimLeft(strings.TrimPrefix(l.Stack[len(l.Stack)-1-n], "0x"), "0")
	if word == "" {
		word = "0"
	}
	return uint256.FromHex("0x" + word)
}
