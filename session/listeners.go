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

import "sync"

// listenerList keeps callbacks in registration order. Listeners are never
// removed.
type listenerList[F any] struct {
	mu  sync.RWMutex
	fns []F
}

func (l *listenerList[F]) add(fn F) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fns = append(l.fns, fn)
}

// snapshot returns the listeners so they can be called without holding
// the lock. Listeners may register further listeners.
func (l *listenerList[F]) snapshot() []F {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]F(nil), l.fns...)
}

type breakpointListener = func(path string, row int)

func dispatchBreakpoint(l *listenerList[breakpointListener], path string, row int) {
	for _, fn := range l.snapshot() {
		fn(path, row)
	}
}
