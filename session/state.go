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

package session

// State is the phase of the controller.
type State int

const (
	Idle State = iota
	Binding
	Resolving
	Tracing
	Active
	Detached
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Binding:
		return "binding"
	case Resolving:
		return "resolving"
	case Tracing:
		return "tracing"
	case Active:
		return "active"
	case Detached:
		return "detached"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DebugRequest identifies one call to Debug. Sequence strictly increases
// with every call, also when the same hash is debugged again.
type DebugRequest struct {
	TargetHash string `json:"hash"`
	Sequence   uint64 `json:"sequence"`
}

// Status is a snapshot of the controller.
type Status struct {
	State   State        `json:"state"`
	Request DebugRequest `json:"request"`
	Steps   int          `json:"steps"`
	Step    int          `json:"step"`
}
