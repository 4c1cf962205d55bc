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
	"cmp"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Breakpoint is a source line, 0-indexed.
type Breakpoint struct {
	Path string `json:"path"`
	Line int    `json:"line"`
}

// Breakpoints is a thread safe set of breakpoints.
type Breakpoints struct {
	set mapset.Set[Breakpoint]
}

func NewBreakpoints() *Breakpoints {
	return &Breakpoints{set: mapset.NewSet[Breakpoint]()}
}

// Add inserts a breakpoint and reports whether it was new.
func (b *Breakpoints) Add(path string, line int) bool {
	return b.set.Add(Breakpoint{Path: path, Line: line})
}

// Remove deletes a breakpoint and reports whether it was present.
func (b *Breakpoints) Remove(path string, line int) bool {
	bp := Breakpoint{Path: path, Line: line}
	if !b.set.Contains(bp) {
		return false
	}
	b.set.Remove(bp)
	return true
}

func (b *Breakpoints) Has(path string, line int) bool {
	return b.set.Contains(Breakpoint{Path: path, Line: line})
}

func (b *Breakpoints) Len() int {
	return b.set.Cardinality()
}

func (b *Breakpoints) Clear() {
	b.set.Clear()
}

// List returns the breakpoints ordered by path and line.
func (b *Breakpoints) List() []Breakpoint {
	list := b.set.ToSlice()
	slices.SortFunc(list, func(x, y Breakpoint) int {
		if c := cmp.Compare(x.Path, y.Path); c != 0 {
			return c
		}
		return cmp.Compare(x.Line, y.Line)
	})
	return list
}

// Hit reports whether loc starts on a breakpoint line.
func (b *Breakpoints) Hit(loc *Location) bool {
	if loc == nil {
		return false
	}
	return b.Has(loc.Path, loc.Range.Start.Line)
}
