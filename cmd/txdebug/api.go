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
	"errors"

	"github.com/Shard-Labs/remix-project/debugger"
	"github.com/Shard-Labs/remix-project/provider"
	"github.com/Shard-Labs/remix-project/session"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rpc"
)

var (
	errDetached  = errors.New("debugger is detached")
	errNoSession = errors.New("no active debug session")
)

// subscriptionBuffer is the number of events queued per subscriber.
const subscriptionBuffer = 64

// DebuggerAPI exposes the session controller of one editor over RPC.
type DebuggerAPI struct {
	ctrl   *session.Controller
	events *eventHub
}

// NewDebuggerAPI creates a new DebuggerAPI instance.
func NewDebuggerAPI(ctrl *session.Controller, events *eventHub) *DebuggerAPI {
	return &DebuggerAPI{ctrl: ctrl, events: events}
}

// StepInfo describes one step of the active session.
type StepInfo struct {
	Step    int    `json:"step"`
	Pc      uint64 `json:"pc"`
	Op      string `json:"op"`
	Depth   int    `json:"depth"`
	Address string `json:"address"`
}

// BreakpointJump is the result of a breakpoint search.
type BreakpointJump struct {
	Step  int  `json:"step"`
	Found bool `json:"found"`
}

// Debug starts debugging a transaction. The outcome is published on the
// sessions subscription.
func (api *DebuggerAPI) Debug(hash string) (session.DebugRequest, error) {
	req, ok := api.ctrl.Debug(hash)
	if !ok {
		return session.DebugRequest{}, errDetached
	}
	return req, nil
}

// GetTrace returns the trace of a transaction without starting a session.
func (api *DebuggerAPI) GetTrace(ctx context.Context, hash string) (*provider.Trace, error) {
	return api.ctrl.GetTrace(ctx, hash)
}

// Status returns the controller state.
func (api *DebuggerAPI) Status() session.Status {
	return api.ctrl.Status()
}

func (api *DebuggerAPI) session() (*session.Session, error) {
	sess := api.ctrl.Current()
	if sess == nil {
		return nil, errNoSession
	}
	return sess, nil
}

// Step returns the opcode and code address of a step of the active session.
func (api *DebuggerAPI) Step(step int) (*StepInfo, error) {
	sess, err := api.session()
	if err != nil {
		return nil, err
	}
	entry, err := sess.Engine().Step(step)
	if err != nil {
		return nil, err
	}
	address, err := sess.Engine().Address(step)
	if err != nil {
		return nil, err
	}
	return &StepInfo{Step: step, Pc: entry.Pc, Op: entry.Op, Depth: entry.Depth, Address: address}, nil
}

// JumpTo moves the active session to a step and returns its source range,
// or null for steps without source.
func (api *DebuggerAPI) JumpTo(ctx context.Context, step int) (*debugger.Location, error) {
	sess, err := api.session()
	if err != nil {
		return nil, err
	}
	return sess.JumpTo(ctx, step)
}

// NextBreakpoint moves to the next step stopping on a breakpoint.
func (api *DebuggerAPI) NextBreakpoint(ctx context.Context) (BreakpointJump, error) {
	sess, err := api.session()
	if err != nil {
		return BreakpointJump{}, err
	}
	step, found, err := sess.NextBreakpoint(ctx)
	return BreakpointJump{Step: step, Found: found}, err
}

// PreviousBreakpoint moves to the previous step stopping on a breakpoint.
func (api *DebuggerAPI) PreviousBreakpoint(ctx context.Context) (BreakpointJump, error) {
	sess, err := api.session()
	if err != nil {
		return BreakpointJump{}, err
	}
	step, found, err := sess.PreviousBreakpoint(ctx)
	return BreakpointJump{Step: step, Found: found}, err
}

// BreakpointAdded forwards a breakpoint set in the editor.
func (api *DebuggerAPI) BreakpointAdded(path string, row int) {
	api.ctrl.BreakpointAdded(path, row)
}

// BreakpointCleared forwards a breakpoint removed in the editor.
func (api *DebuggerAPI) BreakpointCleared(path string, row int) {
	api.ctrl.BreakpointCleared(path, row)
}

// Breakpoints lists the breakpoints known to the debugger.
func (api *DebuggerAPI) Breakpoints() []debugger.Breakpoint {
	return api.ctrl.Breakpoints().List()
}

// ContentChanged forwards an editor content change.
func (api *DebuggerAPI) ContentChanged() {
	api.ctrl.ContentChanged()
}

// Deactivate detaches the debugger from the editor.
func (api *DebuggerAPI) Deactivate() {
	api.ctrl.Deactivate()
}

// Highlights streams editor decoration changes.
func (api *DebuggerAPI) Highlights(ctx context.Context) (*rpc.Subscription, error) {
	return subscribe(ctx, &api.events.highlights)
}

// Notifications streams source resolution reports.
func (api *DebuggerAPI) Notifications(ctx context.Context) (*rpc.Subscription, error) {
	return subscribe(ctx, &api.events.notifications)
}

// Sessions streams the outcome of debug requests.
func (api *DebuggerAPI) Sessions(ctx context.Context) (*rpc.Subscription, error) {
	return subscribe(ctx, &api.events.sessions)
}

func subscribe[T any](ctx context.Context, feed *event.FeedOf[T]) (*rpc.Subscription, error) {
	notifier, supported := rpc.NotifierFromContext(ctx)
	if !supported {
		return &rpc.Subscription{}, rpc.ErrNotificationsUnsupported
	}
	sub := notifier.CreateSubscription()

	events := make(chan T, subscriptionBuffer)
	feedSub := feed.Subscribe(events)
	subscriptionGauge.Inc(1)
	go func() {
		defer subscriptionGauge.Dec(1)
		defer feedSub.Unsubscribe()
		for {
			select {
			case ev := <-events:
				notifier.Notify(sub.ID, ev)
			case <-sub.Err():
				return
			case <-notifier.Closed():
				return
			}
		}
	}()
	return sub, nil
}
