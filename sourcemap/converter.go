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

package sourcemap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
)

// ErrUnresolvedLocation is returned when a raw location cannot be attributed
// to any source node, e.g. for compiler-generated code. Callers should treat
// it as "nothing to highlight".
var ErrUnresolvedLocation = errors.New("unresolved source location")

// Converter converts raw source-map locations into line/column ranges.
type Converter interface {
	Convert(raw RawLocation, fileIndex int, sources Sources, asts SyntaxTrees) (LineColumnLocation, error)
}

// ConverterFunc adapts a plain function to the Converter interface.
type ConverterFunc func(raw RawLocation, fileIndex int, sources Sources, asts SyntaxTrees) (LineColumnLocation, error)

// Convert implements Converter.
func (f ConverterFunc) Convert(raw RawLocation, fileIndex int, sources Sources, asts SyntaxTrees) (LineColumnLocation, error) {
	return f(raw, fileIndex, sources, asts)
}

// Default is the stateless converter backed by Convert.
var Default Converter = ConverterFunc(Convert)

// Convert maps the byte range raw inside the compilation unit fileIndex to
// the line/column range bracketing exactly the same bytes. The result only
// depends on the arguments.
func Convert(raw RawLocation, fileIndex int, sources Sources, asts SyntaxTrees) (LineColumnLocation, error) {
	if raw.Start < 0 || raw.Length < 0 {
		return LineColumnLocation{}, fmt.Errorf("%w: no mapping for %s", ErrUnresolvedLocation, raw)
	}
	name, ok := FileName(fileIndex, asts)
	if !ok {
		return LineColumnLocation{}, fmt.Errorf("%w: unknown file index %d", ErrUnresolvedLocation, fileIndex)
	}
	source, ok := sources[name]
	if !ok {
		return LineColumnLocation{}, fmt.Errorf("%w: no content for %s", ErrUnresolvedLocation, name)
	}
	if raw.Start > len(source.Content) || raw.Length > len(source.Content)-raw.Start {
		return LineColumnLocation{}, fmt.Errorf("%w: range %s exceeds %s (%d bytes)", ErrUnresolvedLocation, raw, name, len(source.Content))
	}
	if !enclosed(gjson.ParseBytes(asts[name]), fileIndex, raw.Start, raw.End()) {
		return LineColumnLocation{}, fmt.Errorf("%w: range %s outside any node of %s", ErrUnresolvedLocation, raw, name)
	}
	lines := lineStarts(source.Content)
	return LineColumnLocation{
		Start: position(lines, raw.Start),
		End:   position(lines, raw.End()),
	}, nil
}

// FileName returns the name of the compilation unit whose AST root is
// attributed to fileIndex. Names are scanned in sorted order so duplicates
// resolve deterministically.
func FileName(fileIndex int, asts SyntaxTrees) (string, bool) {
	names := make([]string, 0, len(asts))
	for name := range asts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		src := gjson.GetBytes(asts[name], "src")
		if !src.Exists() {
			continue
		}
		if _, _, file, err := ParseSrc(src.String()); err == nil && file == fileIndex {
			return name, true
		}
	}
	return "", false
}

// enclosed reports whether any node of the given unit spans [start, end).
func enclosed(node gjson.Result, fileIndex, start, end int) bool {
	if !node.IsObject() && !node.IsArray() {
		return false
	}
	if node.IsObject() {
		if src := node.Get("src"); src.Type == gjson.String {
			s, l, f, err := ParseSrc(src.String())
			if err == nil && f == fileIndex && s >= 0 && s <= start && end-s <= l {
				return true
			}
		}
	}
	found := false
	node.ForEach(func(_, child gjson.Result) bool {
		if enclosed(child, fileIndex, start, end) {
			found = true
		}
		return !found
	})
	return found
}

// lineStarts returns the byte offset of every line start in content.
func lineStarts(content string) []int {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func position(lines []int, offset int) Position {
	// Last line whose start is <= offset.
	line := sort.SearchInts(lines, offset+1) - 1
	return Position{Line: line, Column: offset - lines[line]}
}
