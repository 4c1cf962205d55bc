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
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/Shard-Labs/remix-project/provider"
	"github.com/Shard-Labs/remix-project/resolver"
	"github.com/Shard-Labs/remix-project/sourcemap"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	addrA = common.HexToAddress("0x0a")
	addrB = common.HexToAddress("0x0b")

	hashA       = common.HexToHash("0xa1").Hex() // three steps in A
	hashB       = common.HexToHash("0xb1").Hex() // one step in B
	hashUnknown = common.HexToHash("0xdead").Hex()
)

// bundleA maps pc 0, 1 and 2 to lines 0, 1 and 2 of a.sol.
func bundleA() *resolver.CompilationBundle {
	return &resolver.CompilationBundle{
		Sources: sourcemap.Sources{"a.sol": {Content: "contract A {\n  uint x;\n}\n"}},
		Target:  "a.sol",
		ASTs:    sourcemap.SyntaxTrees{"a.sol": sourcemap.SyntaxTree(`{"src":"0:25:0"}`)},
		SourceMap: resolver.SourceMap{Runtime: map[uint64]resolver.SourceRef{
			0: {Start: 0, Length: 12},
			1: {Start: 15, Length: 7},
			2: {Start: 23, Length: 1},
		}},
	}
}

func bundleB() *resolver.CompilationBundle {
	return &resolver.CompilationBundle{
		Sources:   sourcemap.Sources{"b.sol": {Content: "contract B {}\n"}},
		Target:    "b.sol",
		ASTs:      sourcemap.SyntaxTrees{"b.sol": sourcemap.SyntaxTree(`{"src":"0:14:0"}`)},
		SourceMap: resolver.SourceMap{Runtime: map[uint64]resolver.SourceRef{0: {Start: 0, Length: 13}}},
	}
}

type fakeProvider struct {
	receipts map[common.Hash]*provider.Receipt
	traces   map[common.Hash]*provider.Trace
}

func newFakeProvider() *fakeProvider {
	p := &fakeProvider{
		receipts: make(map[common.Hash]*provider.Receipt),
		traces:   make(map[common.Hash]*provider.Trace),
	}
	p.receipts[common.HexToHash(hashA)] = &provider.Receipt{To: &addrA}
	p.traces[common.HexToHash(hashA)] = &provider.Trace{StructLogs: []provider.StructLog{
		{Pc: 0, Op: "PUSH1", Depth: 1},
		{Pc: 1, Op: "PUSH1", Depth: 1},
		{Pc: 2, Op: "STOP", Depth: 1},
	}}
	p.receipts[common.HexToHash(hashB)] = &provider.Receipt{To: &addrB}
	p.traces[common.HexToHash(hashB)] = &provider.Trace{StructLogs: []provider.StructLog{
		{Pc: 0, Op: "STOP", Depth: 1},
	}}
	return p
}

func (p *fakeProvider) CallContext(ctx context.Context, result any, method string, args ...any) error {
	return errors.New("not supported")
}

func (p *fakeProvider) TransactionReceipt(ctx context.Context, hash common.Hash) (*provider.Receipt, error) {
	if r, ok := p.receipts[hash]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: %s", provider.ErrUnknownTransaction, hash)
}

func (p *fakeProvider) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return nil, nil
}

func (p *fakeProvider) TraceTransaction(ctx context.Context, hash common.Hash, cfg *provider.TraceConfig) (*provider.Trace, error) {
	if t, ok := p.traces[hash]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", provider.ErrUnknownTransaction, hash)
}

// gatedBinder holds the n'th Bind call until gates[n] is closed.
type gatedBinder struct {
	p     provider.DebugProvider
	mu    sync.Mutex
	gates []chan struct{}
	calls int
}

func (b *gatedBinder) Bind(ctx context.Context) (provider.DebugProvider, error) {
	b.mu.Lock()
	var gate chan struct{}
	if b.calls < len(b.gates) {
		gate = b.gates[b.calls]
	}
	b.calls++
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return b.p, nil
}

// mapService serves bundles by address and reports everything else as
// not found.
type mapService map[common.Address]*resolver.CompilationBundle

func (s mapService) FetchAndCompile(ctx context.Context, address common.Address) (*resolver.CompilationBundle, error) {
	if b, ok := s[address]; ok {
		return b, nil
	}
	return nil, resolver.ErrNotFound
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []resolver.Notification
}

func (n *recordingNotifier) Notify(note resolver.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func (n *recordingNotifier) all() []resolver.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]resolver.Notification(nil), n.notes...)
}

type editorCall struct {
	op   string // "highlight" or "discard"
	path string
	loc  sourcemap.LineColumnLocation
}

type recordingEditor struct {
	mu    sync.Mutex
	calls []editorCall
	err   error
}

func (e *recordingEditor) Highlight(ctx context.Context, loc sourcemap.LineColumnLocation, path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, editorCall{op: "highlight", path: path, loc: loc})
	return e.err
}

func (e *recordingEditor) DiscardHighlight(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, editorCall{op: "discard"})
	return e.err
}

func (e *recordingEditor) history() []editorCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]editorCall(nil), e.calls...)
}

func (e *recordingEditor) last() (editorCall, bool) {
	calls := e.history()
	if len(calls) == 0 {
		return editorCall{}, false
	}
	return calls[len(calls)-1], true
}

type testEnv struct {
	ctrl     *Controller
	binder   *gatedBinder
	editor   *recordingEditor
	notifier *recordingNotifier
	ready    chan *Session
	failed   chan error
}

func newTestEnv(t *testing.T, service mapService, gates ...chan struct{}) *testEnv {
	t.Helper()
	return newTestEnvWithConverter(t, service, nil, gates...)
}

// newTestEnvWithConverter is newTestEnv with a custom source converter. A
// nil converter selects sourcemap.Default.
func newTestEnvWithConverter(t *testing.T, service mapService, conv sourcemap.Converter, gates ...chan struct{}) *testEnv {
	t.Helper()

	env := &testEnv{
		binder:   &gatedBinder{p: newFakeProvider(), gates: gates},
		editor:   new(recordingEditor),
		notifier: new(recordingNotifier),
		ready:    make(chan *Session, 16),
		failed:   make(chan error, 16),
	}
	ctrl, err := New(Config{
		Binder:    env.binder,
		Resolver:  resolver.New(resolver.Config{Remote: service, Notifier: env.notifier}),
		Converter: conv,
		Editor:    env.editor,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctrl.OnSessionReady(func(s *Session) { env.ready <- s })
	ctrl.OnDebugFailed(func(req DebugRequest, err error) { env.failed <- err })
	t.Cleanup(ctrl.Close)
	env.ctrl = ctrl
	return env
}

func defaultService() mapService {
	return mapService{addrA: bundleA(), addrB: bundleB()}
}

func waitSession(t *testing.T, ch <-chan *Session) *Session {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a debug session")
		return nil
	}
}

func (env *testEnv) waitBindCalls(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		env.binder.mu.Lock()
		calls := env.binder.calls
		env.binder.mu.Unlock()
		if calls >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d bind calls", n)
}

// gatedConverter holds the first conversion in a.sol until release is
// closed.
type gatedConverter struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedConverter() *gatedConverter {
	return &gatedConverter{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedConverter) Convert(raw sourcemap.RawLocation, fileIndex int, sources sourcemap.Sources, asts sourcemap.SyntaxTrees) (sourcemap.LineColumnLocation, error) {
	if _, ok := sources["a.sol"]; ok {
		g.once.Do(func() {
			close(g.entered)
			<-g.release
		})
	}
	return sourcemap.Convert(raw, fileIndex, sources, asts)
}
