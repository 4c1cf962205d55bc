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
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/grafana/pyroscope-go"
)

// startProfiler pushes continuous profiles to cfg.PyroscopeServer. It
// returns nil when profiling is disabled.
func startProfiler(cfg *Config) (*pyroscope.Profiler, error) {
	if !cfg.PyroscopeEnabled {
		return nil, nil
	}
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: "txdebug",
		ServerAddress:   cfg.PyroscopeServer,
		Logger:          &pyroscopeLogger{Logger: log.Root()},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, err
	}
	log.Info("Enabling continuous profiling", "server", cfg.PyroscopeServer)
	return profiler, nil
}

func stopProfiler(p *pyroscope.Profiler) {
	if p == nil {
		return
	}
	if err := p.Stop(); err != nil {
		log.Warn("Failed to stop profiler", "err", err)
	}
}

// pyroscopeLogger routes profiler output into the default logger.
type pyroscopeLogger struct {
	log.Logger
}

func (l *pyroscopeLogger) Debugf(format string, v ...any) {
	l.Debug(fmt.Sprintf("Pyroscope: "+format, v...))
}

func (l *pyroscopeLogger) Infof(format string, v ...any) {
	l.Info(fmt.Sprintf("Pyroscope: "+format, v...))
}

func (l *pyroscopeLogger) Errorf(format string, v ...any) {
	l.Error(fmt.Sprintf("Pyroscope: "+format, v...))
}
