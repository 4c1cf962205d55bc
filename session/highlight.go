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

import (
	"context"
	"sync"

	"github.com/Shard-Labs/remix-project/sourcemap"
	"github.com/ethereum/go-ethereum/log"
)

// Editor receives highlight commands.
type Editor interface {
	Highlight(ctx context.Context, loc sourcemap.LineColumnLocation, path string) error
	DiscardHighlight(ctx context.Context) error
}

// HighlightChannel forwards source locations to the editor. Delivery is
// best effort: editor errors are logged, never returned.
type HighlightChannel struct {
	editor Editor

	mu         sync.Mutex
	active     bool // the editor shows a highlight
	suppressed bool
	log        log.Logger
}

func NewHighlightChannel(editor Editor) *HighlightChannel {
	return &HighlightChannel{editor: editor, log: log.New("module", "highlight")}
}

// Highlight marks loc in path as the current location.
func (h *HighlightChannel) Highlight(ctx context.Context, loc sourcemap.LineColumnLocation, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.suppressed {
		return
	}
	highlightCounter.Inc(1)
	h.active = true
	if err := h.editor.Highlight(ctx, loc, path); err != nil {
		h.log.Warn("Failed to highlight", "path", path, "range", loc, "err", err)
	}
}

// DiscardHighlight clears the current highlight. Without one it does
// nothing.
func (h *HighlightChannel) DiscardHighlight(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.discard(ctx)
}

func (h *HighlightChannel) discard(ctx context.Context) {
	if !h.active {
		return
	}
	h.active = false
	if err := h.editor.DiscardHighlight(ctx); err != nil {
		h.log.Warn("Failed to discard highlight", "err", err)
	}
}

// suppress clears the editor once and drops every later command.
func (h *HighlightChannel) suppress(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.discard(ctx)
	h.suppressed = true
}

// Highlighted reports whether the editor currently shows a highlight.
func (h *HighlightChannel) Highlighted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}
