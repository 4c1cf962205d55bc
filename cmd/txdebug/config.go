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
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/Shard-Labs/remix-project/provider"
	"github.com/ethereum/go-ethereum/eth/tracers/logger"
	"github.com/naoina/toml"
)

// Config holds the debugger daemon configuration.
type Config struct {
	// Execution node
	RPCEndpoint string
	RPCTimeout  time.Duration
	DebugNodes  map[string]string // network name -> debug node endpoint

	// Sources
	Workspace        string
	VerifierEndpoint string

	// Tracing
	TraceMemory  bool
	TraceStorage bool
	PreloadLimit int

	// Debugger RPC server
	ListenAddr  string
	CORSDomains []string

	// Metrics and profiling
	MetricsEnabled   bool
	MetricsAddr      string
	PyroscopeEnabled bool
	PyroscopeServer  string

	// Logging
	Verbosity     int
	LogFile       string
	LogMaxSize    int // megabytes
	LogMaxBackups int
}

func defaultConfig() *Config {
	return &Config{
		RPCEndpoint:  rpcEndpointFlag.Value,
		RPCTimeout:   rpcTimeoutFlag.Value,
		DebugNodes:   make(map[string]string),
		Workspace:    workspaceFlag.Value,
		TraceStorage: traceStorageFlag.Value,
		PreloadLimit: preloadLimitFlag.Value,
		ListenAddr:   listenAddrFlag.Value,
		MetricsAddr:  metricsAddrFlag.Value,
		Verbosity:    verbosityFlag.Value,

		PyroscopeServer: pyroscopeServerFlag.Value,
		LogMaxSize:   logMaxSizeFlag.Value,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.RPCEndpoint == "" {
		return fmt.Errorf("rpc endpoint is required")
	}
	if c.RPCTimeout < 0 {
		return fmt.Errorf("rpc timeout must not be negative")
	}
	for name, endpoint := range c.DebugNodes {
		if name == "" {
			return fmt.Errorf("debug node %q has no network name", endpoint)
		}
		if endpoint == "" {
			return fmt.Errorf("debug node for network %s has no endpoint", name)
		}
	}
	if c.PreloadLimit < 0 {
		return fmt.Errorf("preload limit must not be negative")
	}
	if c.MetricsEnabled && c.MetricsAddr == "" {
		return fmt.Errorf("metrics address is required when metrics are enabled")
	}
	if c.PyroscopeEnabled && c.PyroscopeServer == "" {
		return fmt.Errorf("pyroscope server is required when profiling is enabled")
	}
	if c.Verbosity < 0 || c.Verbosity > 5 {
		return fmt.Errorf("verbosity must be between 0 and 5, got %d", c.Verbosity)
	}
	if c.LogFile != "" && c.LogMaxSize <= 0 {
		return fmt.Errorf("log file size limit must be positive")
	}
	if c.LogMaxBackups < 0 {
		return fmt.Errorf("log backups must not be negative")
	}
	return nil
}

// TraceConfig returns the struct logger settings used for every trace.
func (c *Config) TraceConfig() *provider.TraceConfig {
	return &provider.TraceConfig{
		Config: &logger.Config{
			EnableMemory:   c.TraceMemory,
			DisableStorage: !c.TraceStorage,
		},
	}
}

// parseDebugNodes parses <network>=<endpoint> pairs.
func parseDebugNodes(pairs []string) (map[string]string, error) {
	nodes := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, endpoint, ok := strings.Cut(pair, "=")
		if !ok || name == "" || endpoint == "" {
			return nil, fmt.Errorf("invalid debug node %q, want <network>=<endpoint>", pair)
		}
		nodes[name] = endpoint
	}
	return nodes, nil
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

func loadConfigFile(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}
