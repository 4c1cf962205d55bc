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
	"errors"
	"fmt"

	"github.com/Shard-Labs/remix-project/sourcemap"
	"github.com/ethereum/go-ethereum/common"
)

// SourceRef is the source-map entry of one instruction.
type SourceRef struct {
	Start  int `json:"start"`
	Length int `json:"length"`
	File   int `json:"file"`
}

// Raw returns the byte range of the entry.
func (r SourceRef) Raw() sourcemap.RawLocation {
	return sourcemap.RawLocation{Start: r.Start, Length: r.Length}
}

// SourceMap binds program counters of the runtime and creation bytecode to
// source ranges. The tables are produced by whoever compiled the bundle.
type SourceMap struct {
	Runtime  map[uint64]SourceRef `json:"runtime,omitempty"`
	Creation map[uint64]SourceRef `json:"creation,omitempty"`
}

// CompilationBundle is the resolved source set of one contract. Bundles are
// shared through the resolver cache and must not be modified once returned.
type CompilationBundle struct {
	Sources   sourcemap.Sources     `json:"sources"`
	Target    string                `json:"target"`
	ASTs      sourcemap.SyntaxTrees `json:"ast"`
	SourceMap SourceMap             `json:"sourceMap"`

	// CodeHash optionally pins the bundle to the keccak256 of the deployed
	// runtime code it was compiled from.
	CodeHash common.Hash `json:"codeHash,omitempty"`
}

// Validate checks the bundle is usable for source mapping.
func (b *CompilationBundle) Validate() error {
	if b == nil {
		return errors.New("nil bundle")
	}
	if len(b.Sources) == 0 {
		return errors.New("bundle has no sources")
	}
	if _, ok := b.Sources[b.Target]; !ok {
		return fmt.Errorf("bundle target %q not among its sources", b.Target)
	}
	return nil
}

// Lookup returns the source-map entry of the instruction at pc.
func (b *CompilationBundle) Lookup(pc uint64, creation bool) (SourceRef, bool) {
	table := b.SourceMap.Runtime
	if creation {
		table = b.SourceMap.Creation
	}
	ref, ok := table[pc]
	return ref, ok
}

// FileName returns the name of the source with the given compilation index.
func (b *CompilationBundle) FileName(index int) (string, bool) {
	return sourcemap.FileName(index, b.ASTs)
}
