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

// Package session orchestrates transaction debugging for an editor. A
// Controller turns debug requests into loaded debug sessions, discards the
// results of superseded requests and keeps the editor's highlight and
// breakpoint state in sync.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Shard-Labs/remix-project/debugger"
	"github.com/Shard-Labs/remix-project/provider"
	"github.com/Shard-Labs/remix-project/resolver"
	"github.com/Shard-Labs/remix-project/sourcemap"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
)

var (
	// ErrInvalidHash is returned for hashes that are not 32 bytes of hex.
	ErrInvalidHash = errors.New("invalid transaction hash")

	errStaleRequest = errors.New("stale debug request")
)

// Binder selects the provider a transaction is debugged with.
type Binder interface {
	Bind(ctx context.Context) (provider.DebugProvider, error)
}

// SourceResolver resolves the compiled sources of a contract.
type SourceResolver interface {
	Resolve(ctx context.Context, address string, receipt *provider.Receipt) (*resolver.CompilationBundle, error)
}

// Config holds the collaborators of a Controller.
type Config struct {
	Binder      Binder
	Resolver    SourceResolver
	Converter   sourcemap.Converter // defaults to sourcemap.Default
	Editor      Editor
	TraceConfig *provider.TraceConfig
}

// Controller is the debug session controller of one editor. It is safe
// for concurrent use; once deactivated it cannot be reused.
type Controller struct {
	cfg         Config
	highlight   *HighlightChannel
	breakpoints *debugger.Breakpoints

	// deliverMu serializes request allocation against delivery of results,
	// so no result of a superseded request lands after Debug returns.
	deliverMu sync.Mutex

	mu      sync.Mutex
	state   State
	current DebugRequest
	session *Session

	breakpointAdded   listenerList[breakpointListener]
	breakpointCleared listenerList[breakpointListener]
	contentChanged    listenerList[func()]
	sessionReady      listenerList[func(*Session)]
	debugFailed       listenerList[func(DebugRequest, error)]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    log.Logger
}

// New creates an idle controller. Binder, Resolver and Editor are required.
func New(cfg Config) (*Controller, error) {
	if cfg.Binder == nil || cfg.Resolver == nil || cfg.Editor == nil {
		return nil, errors.New("session: binder, resolver and editor are required")
	}
	if cfg.Converter == nil {
		cfg.Converter = sourcemap.Default
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		cfg:         cfg,
		highlight:   NewHighlightChannel(cfg.Editor),
		breakpoints: debugger.NewBreakpoints(),
		ctx:         ctx,
		cancel:      cancel,
		log:         log.New("module", "session"),
	}, nil
}

// Debug starts debugging the transaction hash in the background and
// supersedes every earlier request. It returns false once the controller
// is detached.
func (c *Controller) Debug(hash string) (DebugRequest, bool) {
	c.deliverMu.Lock()
	c.mu.Lock()
	if c.state == Detached {
		c.mu.Unlock()
		c.deliverMu.Unlock()
		c.log.Debug("Ignoring debug request on detached controller", "hash", hash)
		return DebugRequest{}, false
	}
	req := DebugRequest{TargetHash: hash, Sequence: c.current.Sequence + 1}
	c.current = req
	c.state = Binding
	c.session = nil
	c.mu.Unlock()
	c.highlight.DiscardHighlight(c.ctx)
	c.deliverMu.Unlock()

	debugRequestCounter.Inc(1)
	c.log.Debug("New debug request", "hash", hash, "seq", req.Sequence)

	c.wg.Add(1)
	go c.run(req)
	return req, true
}

func (c *Controller) run(req DebugRequest) {
	defer c.wg.Done()

	start := time.Now()
	engine, err := c.load(c.ctx, req.TargetHash, &req)
	switch {
	case errors.Is(err, errStaleRequest):
		staleDropCounter.Inc(1)
		c.log.Debug("Dropped stale debug request", "hash", req.TargetHash, "seq", req.Sequence)
		return
	case err != nil:
		c.fail(req, err)
		return
	case engine == nil:
		c.transition(req, Idle)
		return
	}
	sess := &Session{ctrl: c, req: req, engine: engine}
	if !c.activate(req, sess) {
		staleDropCounter.Inc(1)
		c.log.Debug("Dropped stale debug session", "hash", req.TargetHash, "seq", req.Sequence)
		return
	}
	if engine.Len() > 0 {
		if _, err := sess.JumpTo(c.ctx, 0); err != nil {
			c.log.Warn("Failed to show first step", "hash", req.TargetHash, "err", err)
		}
	}
	ready := c.deliver(req, func() {
		pipelineTimer.UpdateSince(start)
		c.log.Info("Debug session ready", "hash", req.TargetHash, "seq", req.Sequence, "steps", engine.Len())
		for _, fn := range c.sessionReady.snapshot() {
			fn(sess)
		}
	})
	if !ready {
		c.log.Debug("Dropped stale debug session", "hash", req.TargetHash, "seq", req.Sequence)
	}
}

// GetTrace loads the trace of the transaction hash. An empty hash yields no
// trace and no error. Sources that cannot be resolved are reported through
// the resolver's notifier, the trace is returned regardless.
func (c *Controller) GetTrace(ctx context.Context, hash string) (*provider.Trace, error) {
	engine, err := c.load(ctx, hash, nil)
	if err != nil || engine == nil {
		return nil, err
	}
	return engine.Trace(), nil
}

// load binds a provider, fetches the receipt and loads the trace. With a
// request it advances the state machine and stops once the request is
// superseded.
func (c *Controller) load(ctx context.Context, hash string, req *DebugRequest) (*debugger.Engine, error) {
	if hash == "" {
		return nil, nil
	}
	raw, err := hexutil.Decode(hash)
	if err != nil || len(raw) != common.HashLength {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHash, hash)
	}
	txHash := common.BytesToHash(raw)

	p, err := c.cfg.Binder.Bind(ctx)
	if err != nil {
		return nil, fmt.Errorf("bind provider: %w", err)
	}
	if err := c.advance(req, Resolving); err != nil {
		return nil, err
	}
	receipt, err := p.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}
	engine, err := debugger.New(debugger.Config{
		Provider:    p,
		Receipt:     receipt,
		Resolve:     c.cfg.Resolver.Resolve,
		Convert:     c.cfg.Converter,
		TraceConfig: c.cfg.TraceConfig,
	})
	if err != nil {
		return nil, err
	}
	if err := c.advance(req, Tracing); err != nil {
		return nil, err
	}
	if _, err := engine.Load(ctx, txHash); err != nil {
		return nil, err
	}
	return engine, nil
}

func (c *Controller) isCurrent(req DebugRequest) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != Detached && c.current.Sequence == req.Sequence
}

// advance moves a pipeline to the given state unless its request was
// superseded. Without a request it does nothing.
func (c *Controller) advance(req *DebugRequest, state State) error {
	if req == nil {
		return nil
	}
	if !c.transition(*req, state) {
		return errStaleRequest
	}
	return nil
}

func (c *Controller) transition(req DebugRequest, state State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Detached || c.current.Sequence != req.Sequence {
		return false
	}
	c.state = state
	return true
}

func (c *Controller) activate(req DebugRequest, sess *Session) bool {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Detached || c.current.Sequence != req.Sequence {
		return false
	}
	c.state = Active
	c.session = sess
	return true
}

func (c *Controller) fail(req DebugRequest, err error) {
	reported := c.deliver(req, func() {
		c.transition(req, Idle)
		debugFailureCounter.Inc(1)
		c.log.Error("Debugging failed", "hash", req.TargetHash, "seq", req.Sequence, "err", err)
		for _, fn := range c.debugFailed.snapshot() {
			fn(req, err)
		}
	})
	if !reported {
		c.log.Debug("Dropped failure of stale debug request", "hash", req.TargetHash, "seq", req.Sequence, "err", err)
	}
}

// deliver runs fn if req is still the current request.
func (c *Controller) deliver(req DebugRequest, fn func()) bool {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	if !c.isCurrent(req) {
		staleDropCounter.Inc(1)
		return false
	}
	fn()
	return true
}

// Deactivate detaches the controller from the editor. The current highlight
// is discarded once and later highlights and debug requests are dropped.
func (c *Controller) Deactivate() {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	c.mu.Lock()
	if c.state == Detached {
		c.mu.Unlock()
		return
	}
	c.state = Detached
	c.session = nil
	c.mu.Unlock()

	c.highlight.suppress(c.ctx)
	c.log.Info("Debugger detached")
}

// Close deactivates the controller and waits for running pipelines.
func (c *Controller) Close() {
	c.Deactivate()
	c.cancel()
	c.wg.Wait()
}

// Wait blocks until every started pipeline has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Current returns the active session, or nil.
func (c *Controller) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Status returns a snapshot of the controller.
func (c *Controller) Status() Status {
	c.mu.Lock()
	st := Status{State: c.state, Request: c.current}
	sess := c.session
	c.mu.Unlock()

	if sess != nil {
		st.Steps = sess.engine.Len()
		st.Step = sess.Step()
	}
	return st
}

// Breakpoints returns the breakpoints set in the editor.
func (c *Controller) Breakpoints() *debugger.Breakpoints {
	return c.breakpoints
}

// OnBreakpointAdded registers a listener for breakpoints set in the editor.
func (c *Controller) OnBreakpointAdded(fn func(path string, row int)) {
	c.breakpointAdded.add(fn)
}

// OnBreakpointCleared registers a listener for breakpoints removed in the
// editor.
func (c *Controller) OnBreakpointCleared(fn func(path string, row int)) {
	c.breakpointCleared.add(fn)
}

// OnEditorContentChanged registers a listener for edits of open sources.
func (c *Controller) OnEditorContentChanged(fn func()) {
	c.contentChanged.add(fn)
}

// OnSessionReady registers a listener called with each session that
// becomes active. Listeners run while no newer request can start, so they
// must hand the session off rather than call back into the controller or
// the session.
func (c *Controller) OnSessionReady(fn func(*Session)) {
	c.sessionReady.add(fn)
}

// OnDebugFailed registers a listener for fatal failures of the current
// request. Failures of superseded requests are not reported. The same
// restriction as for OnSessionReady applies.
func (c *Controller) OnDebugFailed(fn func(DebugRequest, error)) {
	c.debugFailed.add(fn)
}

// BreakpointAdded records a breakpoint set in the editor and notifies the
// listeners.
func (c *Controller) BreakpointAdded(path string, row int) {
	c.breakpoints.Add(path, row)
	dispatchBreakpoint(&c.breakpointAdded, path, row)
}

// BreakpointCleared removes a breakpoint and notifies the listeners.
func (c *Controller) BreakpointCleared(path string, row int) {
	c.breakpoints.Remove(path, row)
	dispatchBreakpoint(&c.breakpointCleared, path, row)
}

// ContentChanged notifies the listeners that the editor content changed.
func (c *Controller) ContentChanged() {
	for _, fn := range c.contentChanged.snapshot() {
		fn()
	}
}
