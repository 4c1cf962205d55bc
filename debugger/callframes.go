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

package debugger

import (
	"github.com/Shard-Labs/remix-project/provider"
	"github.com/Shard-Labs/remix-project/resolver"
	"github.com/ethereum/go-ethereum/common"
)

type frame struct {
	address  string
	creation bool // executing init code
	marker   bool // address is a creation placeholder
	start    int  // first step of the frame
}

// codeMap records, for every step of a trace, the account whose code is
// executing and whether that code is init code.
type codeMap struct {
	addresses []string
	creation  []bool
}

// entryFrame returns the outermost frame of the transaction.
func entryFrame(receipt *provider.Receipt) frame {
	if receipt.To == nil {
		return frame{address: resolver.CreationMarker(0), creation: true, marker: true}
	}
	return frame{address: receipt.To.Hex()}
}

// buildCodeMap walks the struct logs tracking call depth. A call-like
// opcode followed by a deeper step enters the callee, a shallower step
// returns to the caller.
func buildCodeMap(logs []provider.StructLog, entry frame) codeMap {
	m := codeMap{
		addresses: make([]string, len(logs)),
		creation:  make([]bool, len(logs)),
	}
	frames := []frame{entry}
	for i := range logs {
		step := &logs[i]
		for len(frames) > 1 && len(frames) > step.Depth {
			m.returnFrom(frames[len(frames)-1], logs, i)
			frames = frames[:len(frames)-1]
		}
		cur := frames[len(frames)-1]
		m.addresses[i] = cur.address
		m.creation[i] = cur.creation

		if i+1 >= len(logs) || logs[i+1].Depth != step.Depth+1 {
			continue
		}
		next := frame{address: cur.address, creation: cur.creation, marker: cur.marker, start: i + 1}
		switch step.Op {
		case "CALL", "CALLCODE", "DELEGATECALL", "STATICCALL":
			if callee, err := step.StackBack(1); err == nil {
				next = frame{address: common.Address(callee.Bytes20()).Hex(), start: i + 1}
			}
		case "CREATE", "CREATE2":
			next = frame{address: resolver.CreationMarker(i), creation: true, marker: true, start: i + 1}
		}
		frames = append(frames, next)
	}
	return m
}

// returnFrom finishes a frame that ends before step i. The first step back
// in the parent of a successful CREATE has the new account on top of the
// stack, which replaces the placeholder recorded for the init code.
func (m *codeMap) returnFrom(f frame, logs []provider.StructLog, i int) {
	if !f.marker || f.start == 0 {
		return
	}
	created, err := logs[i].StackBack(0)
	if err != nil || created.IsZero() {
		return
	}
	address := common.Address(created.Bytes20()).Hex()
	for j := f.start; j < i; j++ {
		if m.addresses[j] == f.address {
			m.addresses[j] = address
		}
	}
}
