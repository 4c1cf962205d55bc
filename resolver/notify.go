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

package resolver

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// Kind classifies a resolution notification.
type Kind int

const (
	UsingLocalCompilation Kind = iota
	UsingVerifiedSources
	CompilationFailed
	NotFound
	VerificationUnavailable
	NoTarget // no account could be derived from the step and receipt
)

func (k Kind) String() string {
	switch k {
	case UsingLocalCompilation:
		return "usingLocalCompilation"
	case UsingVerifiedSources:
		return "usingVerifiedSources"
	case CompilationFailed:
		return "compilationFailed"
	case NotFound:
		return "notFound"
	case VerificationUnavailable:
		return "sourceVerificationNotAvailable"
	case NoTarget:
		return "noTargetAddress"
	default:
		return "unknown"
	}
}

// SourceUnavailable reports whether the kind means debugging continues
// without source code.
func (k Kind) SourceUnavailable() bool {
	return k == CompilationFailed || k == NotFound || k == VerificationUnavailable || k == NoTarget
}

// Notification is a user-facing report about a resolution.
type Notification struct {
	Kind    Kind
	Address common.Address
	Err     error
}

// Message renders the notification for display.
func (n Notification) Message() string {
	switch n.Kind {
	case UsingLocalCompilation:
		return "Using compilation result from the local workspace"
	case UsingVerifiedSources:
		return "Compiled verified sources of " + n.Address.Hex()
	case CompilationFailed:
		return "Compilation failed, continuing without source code debugging"
	case NotFound:
		return "Contract " + n.Address.Hex() + " not found in source code repository, continuing without source code debugging"
	case VerificationUnavailable:
		return "Source verification not available, continuing without source code debugging"
	case NoTarget:
		return "No contract address to resolve sources for, continuing without source code debugging"
	default:
		return n.Kind.String()
	}
}

// Notifier receives resolution notifications.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to the log.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(n Notification) {
	if n.Kind.SourceUnavailable() {
		log.Warn(n.Message(), "address", n.Address, "kind", n.Kind, "err", n.Err)
		return
	}
	log.Info(n.Message(), "address", n.Address, "kind", n.Kind)
}
