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

	"github.com/Shard-Labs/remix-project/debugger"
	"github.com/Shard-Labs/remix-project/provider"
)

// Session is a loaded transaction. Its highlights reach the editor only
// while its request is the controller's current one.
type Session struct {
	ctrl   *Controller
	req    DebugRequest
	engine *debugger.Engine

	mu   sync.Mutex
	step int
}

// Request returns the request that opened the session.
func (s *Session) Request() DebugRequest {
	return s.req
}

// Engine returns the debug engine of the session.
func (s *Session) Engine() *debugger.Engine {
	return s.engine
}

// Trace returns the loaded trace.
func (s *Session) Trace() *provider.Trace {
	return s.engine.Trace()
}

// Step returns the step last jumped to.
func (s *Session) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// JumpTo moves to step and highlights its source range, or clears the
// highlight when the step has none. A superseded session does not move and
// returns no location.
func (s *Session) JumpTo(ctx context.Context, step int) (*debugger.Location, error) {
	loc, err := s.engine.Location(ctx, step)
	if err != nil {
		return nil, err
	}
	delivered := s.ctrl.deliver(s.req, func() {
		if loc == nil {
			s.ctrl.highlight.DiscardHighlight(ctx)
		} else {
			s.ctrl.highlight.Highlight(ctx, loc.Range, loc.Path)
		}
		s.mu.Lock()
		s.step = step
		s.mu.Unlock()
	})
	if !delivered {
		return nil, nil
	}
	return loc, nil
}

// NextBreakpoint jumps to the next step stopping on a breakpoint. It
// reports false when there is none.
func (s *Session) NextBreakpoint(ctx context.Context) (int, bool, error) {
	step, _, found, err := s.engine.NextBreakpoint(ctx, s.Step(), s.ctrl.breakpoints)
	return s.jumpFound(ctx, step, found, err)
}

// PreviousBreakpoint jumps to the previous step stopping on a breakpoint.
func (s *Session) PreviousBreakpoint(ctx context.Context) (int, bool, error) {
	step, _, found, err := s.engine.PreviousBreakpoint(ctx, s.Step(), s.ctrl.breakpoints)
	return s.jumpFound(ctx, step, found, err)
}

func (s *Session) jumpFound(ctx context.Context, step int, found bool, err error) (int, bool, error) {
	if err != nil || !found {
		return s.Step(), false, err
	}
	if _, err := s.JumpTo(ctx, step); err != nil {
		return s.Step(), false, err
	}
	return step, true, nil
}
