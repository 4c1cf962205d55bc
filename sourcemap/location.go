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

// Package sourcemap converts raw source-map byte ranges into line/column
// ranges of the original source files.
package sourcemap

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RawLocation is a byte range within one compilation unit, as carried by a
// compiler source map. A negative Start means the instruction has no mapping.
type RawLocation struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// End returns the exclusive end offset of the range.
func (l RawLocation) End() int {
	return l.Start + l.Length
}

func (l RawLocation) String() string {
	return fmt.Sprintf("%d:%d", l.Start, l.Length)
}

// Position is a zero-based line/column pair. Columns count bytes of the
// source content.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// LineColumnLocation is a text range inside one source file.
type LineColumnLocation struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (l LineColumnLocation) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", l.Start.Line, l.Start.Column, l.End.Line, l.End.Column)
}

// Source is the content of one source file.
type Source struct {
	Content string `json:"content"`
}

// Sources maps file names to their contents.
type Sources map[string]Source

// SyntaxTree is a solc-style JSON AST. Every node that maps to source text
// carries a "src" attribute of the form "start:length:fileIndex".
type SyntaxTree = json.RawMessage

// SyntaxTrees maps file names to their syntax trees.
type SyntaxTrees map[string]SyntaxTree

// ParseSrc splits a solc "start:length:fileIndex" attribute.
func ParseSrc(src string) (start, length, file int, err error) {
	parts := strings.Split(src, ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("malformed src attribute %q", src)
	}
	if start, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("malformed src start %q: %w", src, err)
	}
	if length, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("malformed src length %q: %w", src, err)
	}
	if file, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, fmt.Errorf("malformed src file index %q: %w", src, err)
	}
	return start, length, file, nil
}
