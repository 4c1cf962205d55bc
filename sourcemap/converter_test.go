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
	"math"
	"testing"
)

// testContent is 25 bytes over three lines; line 1 occupies bytes [10,20).
const testContent = "abcdefghi\n0123456789\nxyz\n"

func testInputs() (Sources, SyntaxTrees) {
	sources := Sources{
		"lib.sol":  {Content: "library L {}\n"},
		"main.sol": {Content: testContent},
	}
	asts := SyntaxTrees{
		"lib.sol": SyntaxTree(`{"nodeType":"SourceUnit","src":"0:13:0","nodes":[]}`),
		"main.sol": SyntaxTree(`{
			"nodeType": "SourceUnit",
			"src": "0:25:1",
			"nodes": [
				{"nodeType": "ContractDefinition", "src": "10:10:1", "nodes": [
					{"nodeType": "VariableDeclaration", "src": "12:3:1"}
				]}
			]
		}`),
	}
	return sources, asts
}

func TestConvertBracketsRange(t *testing.T) {
	sources, asts := testInputs()

	loc, err := Convert(RawLocation{Start: 10, Length: 10}, 1, sources, asts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	want := LineColumnLocation{
		Start: Position{Line: 1, Column: 0},
		End:   Position{Line: 1, Column: 10},
	}
	if loc != want {
		t.Fatalf("location mismatch: have %v, want %v", loc, want)
	}
	// The bracketed bytes are exactly the ten digits of line 1.
	if got := testContent[10:20]; got != "0123456789" {
		t.Fatalf("fixture drifted: %q", got)
	}
}

func TestConvertMultiLine(t *testing.T) {
	sources, asts := testInputs()

	loc, err := Convert(RawLocation{Start: 3, Length: 19}, 1, sources, asts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	want := LineColumnLocation{
		Start: Position{Line: 0, Column: 3},
		End:   Position{Line: 2, Column: 1},
	}
	if loc != want {
		t.Fatalf("location mismatch: have %v, want %v", loc, want)
	}
}

func TestConvertDeterministic(t *testing.T) {
	sources, asts := testInputs()
	raw := RawLocation{Start: 12, Length: 3}

	first, err := Default.Convert(raw, 1, sources, asts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Default.Convert(raw, 1, sources, asts)
		if err != nil {
			t.Fatalf("Convert #%d: %v", i, err)
		}
		if again != first {
			t.Fatalf("non-deterministic result: %v != %v", again, first)
		}
	}
}

func TestConvertUnresolved(t *testing.T) {
	sources, asts := testInputs()

	tests := []struct {
		name      string
		raw       RawLocation
		fileIndex int
		asts      SyntaxTrees
	}{
		{"no mapping", RawLocation{Start: -1, Length: 0}, 1, asts},
		{"unknown file", RawLocation{Start: 0, Length: 1}, 7, asts},
		{"past end of content", RawLocation{Start: 20, Length: 10}, 1, asts},
		{"start past end of content", RawLocation{Start: 30, Length: 0}, 1, asts},
		{"overflowing length", RawLocation{Start: 5, Length: math.MaxInt}, 1, asts},
		{"outside all nodes", RawLocation{Start: 2, Length: 3}, 1, SyntaxTrees{
			"main.sol": SyntaxTree(`{"src":"0:0:1","nodes":[{"src":"10:10:1"}]}`),
		}},
		{"node of other unit", RawLocation{Start: 2, Length: 3}, 1, SyntaxTrees{
			"main.sol": SyntaxTree(`{"src":"0:0:1","nodes":[{"src":"0:25:0"}]}`),
		}},
	}
	for _, tt := range tests {
		_, err := Convert(tt.raw, tt.fileIndex, sources, tt.asts)
		if !errors.Is(err, ErrUnresolvedLocation) {
			t.Errorf("%s: expected ErrUnresolvedLocation, got %v", tt.name, err)
		}
	}
}

func TestFileName(t *testing.T) {
	_, asts := testInputs()

	if name, ok := FileName(0, asts); !ok || name != "lib.sol" {
		t.Errorf("file 0: have %q/%v, want lib.sol", name, ok)
	}
	if name, ok := FileName(1, asts); !ok || name != "main.sol" {
		t.Errorf("file 1: have %q/%v, want main.sol", name, ok)
	}
	if _, ok := FileName(2, asts); ok {
		t.Error("file 2 should be unknown")
	}
}

func TestParseSrc(t *testing.T) {
	start, length, file, err := ParseSrc("12:34:5")
	if err != nil {
		t.Fatalf("ParseSrc: %v", err)
	}
	if start != 12 || length != 34 || file != 5 {
		t.Fatalf("unexpected parse: %d %d %d", start, length, file)
	}
	for _, bad := range []string{"", "1:2", "a:2:3", "1:b:3", "1:2:c"} {
		if _, _, _, err := ParseSrc(bad); err == nil {
			t.Errorf("ParseSrc(%q) should fail", bad)
		}
	}
}
