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

import "github.com/ethereum/go-ethereum/metrics"

var (
	cacheHitCounter       = metrics.NewRegisteredCounter("txdebug/resolver/cache/hit", nil)
	cacheMissCounter      = metrics.NewRegisteredCounter("txdebug/resolver/cache/miss", nil)
	cacheSizeGauge        = metrics.NewRegisteredGauge("txdebug/resolver/cache/size", nil)
	localHitCounter       = metrics.NewRegisteredCounter("txdebug/resolver/local/hit", nil)
	remoteHitCounter      = metrics.NewRegisteredCounter("txdebug/resolver/remote/hit", nil)
	resolveFailureCounter = metrics.NewRegisteredCounter("txdebug/resolver/failures", nil)
	resolveTimer          = metrics.NewRegisteredTimer("txdebug/resolver/latency", nil)

	workspaceStaleCounter = metrics.NewRegisteredCounter("txdebug/resolver/workspace/stale", nil)
	workspaceEvictCounter = metrics.NewRegisteredCounter("txdebug/resolver/workspace/evict", nil)
)
