// Copyright 2026 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"

	"github.com/Shard-Labs/remix-project/resolver"
	"github.com/Shard-Labs/remix-project/session"
	"github.com/Shard-Labs/remix-project/sourcemap"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
)

// HighlightEvent is a decoration change for the connected editor.
type HighlightEvent struct {
	Kind  string                        `json:"kind"` // "highlight" or "discard"
	Path  string                        `json:"path,omitempty"`
	Range *sourcemap.LineColumnLocation `json:"range,omitempty"`
}

// NotificationEvent is a source resolution report.
type NotificationEvent struct {
	Kind    string         `json:"kind"`
	Address common.Address `json:"address"`
	Message string         `json:"message"`
	Error   string         `json:"error,omitempty"`
}

// SessionEvent reports the outcome of a debug request.
type SessionEvent struct {
	Kind    string               `json:"kind"` // "ready" or "failed"
	Request session.DebugRequest `json:"request"`
	Steps   int                  `json:"steps,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// eventHub fans controller output out to RPC subscribers.
type eventHub struct {
	highlights    event.FeedOf[HighlightEvent]
	notifications event.FeedOf[NotificationEvent]
	sessions      event.FeedOf[SessionEvent]
}

// Highlight implements session.Editor by publishing to subscribers.
func (h *eventHub) Highlight(ctx context.Context, loc sourcemap.LineColumnLocation, path string) error {
	h.highlights.Send(HighlightEvent{Kind: "highlight", Path: path, Range: &loc})
	highlightEventCounter.Inc(1)
	return nil
}

// DiscardHighlight implements session.Editor.
func (h *eventHub) DiscardHighlight(ctx context.Context) error {
	h.highlights.Send(HighlightEvent{Kind: "discard"})
	return nil
}

// Notify implements resolver.Notifier. Notifications are logged as well.
func (h *eventHub) Notify(n resolver.Notification) {
	resolver.LogNotifier{}.Notify(n)

	ev := NotificationEvent{Kind: n.Kind.String(), Address: n.Address, Message: n.Message()}
	if n.Err != nil {
		ev.Error = n.Err.Error()
	}
	h.notifications.Send(ev)
}

// watch publishes the session outcomes of ctrl.
func (h *eventHub) watch(ctrl *session.Controller) {
	ctrl.OnSessionReady(func(s *session.Session) {
		h.sessions.Send(SessionEvent{Kind: "ready", Request: s.Request(), Steps: s.Trace().Len()})
	})
	ctrl.OnDebugFailed(func(req session.DebugRequest, err error) {
		h.sessions.Send(SessionEvent{Kind: "failed", Request: req, Error: err.Error()})
	})
}

// logEditor writes highlights to the log. It serves the trace command,
// which has no editor attached.
type logEditor struct{}

func (logEditor) Highlight(ctx context.Context, loc sourcemap.LineColumnLocation, path string) error {
	log.Trace("Highlight", "path", path, "range", loc)
	return nil
}

func (logEditor) DiscardHighlight(ctx context.Context) error {
	log.Trace("Discard highlight")
	return nil
}
