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

// txdebug steps through mined transactions and maps every step onto the
// contract sources it executes.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var (
	app = &cli.App{
		Name:  "txdebug",
		Usage: "Transaction debug session controller",
	}

	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file (flags override its values)",
	}
	rpcEndpointFlag = &cli.StringFlag{
		Name:  "rpc",
		Usage: "Execution node RPC endpoint",
		Value: "http://localhost:8545",
	}
	rpcTimeoutFlag = &cli.DurationFlag{
		Name:  "rpc-timeout",
		Usage: "Timeout of a single execution node request (0 = none)",
		Value: 30 * time.Second,
	}
	debugNodeFlag = &cli.StringSliceFlag{
		Name:  "debug-node",
		Usage: "Debug node of a network as <network>=<endpoint>, e.g. Main=http://archive:8545",
	}
	workspaceFlag = &cli.StringFlag{
		Name:  "workspace",
		Usage: "Workspace holding local compilation results (empty = disabled)",
		Value: ".",
	}
	verifierEndpointFlag = &cli.StringFlag{
		Name:  "verifier",
		Usage: "RPC endpoint of the source verification service (empty = disabled)",
	}
	traceMemoryFlag = &cli.BoolFlag{
		Name:  "trace-memory",
		Usage: "Capture EVM memory in traces",
		Value: false,
	}
	traceStorageFlag = &cli.BoolFlag{
		Name:  "trace-storage",
		Usage: "Capture storage slots in traces",
		Value: true,
	}
	preloadLimitFlag = &cli.IntFlag{
		Name:  "preload-limit",
		Usage: "Concurrent source resolutions when preloading a trace (0 = no preload)",
		Value: 4,
	}
	listenAddrFlag = &cli.StringFlag{
		Name:  "listen-addr",
		Usage: "Listen address for the debugger RPC server (HTTP and WebSocket)",
		Value: "localhost:8570",
	}
	corsDomainFlag = &cli.StringSliceFlag{
		Name:  "cors-domain",
		Usage: "Origins allowed to call the debugger RPC server from a browser",
	}
	metricsEnabledFlag = &cli.BoolFlag{
		Name:  "metrics",
		Usage: "Enable metrics collection and the expvar endpoint",
		Value: false,
	}
	metricsAddrFlag = &cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "Listen address of the metrics endpoint",
		Value: "127.0.0.1:6070",
	}
	pyroscopeEnabledFlag = &cli.BoolFlag{
		Name:  "pyroscope",
		Usage: "Enable continuous profiling to a Pyroscope server",
		Value: false,
	}
	pyroscopeServerFlag = &cli.StringFlag{
		Name:  "pyroscope.server",
		Usage: "Pyroscope server URL to push profiles to",
		Value: "http://localhost:4040",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 3,
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log.file",
		Usage: "Write logs to a rotated file in addition to the terminal",
	}
	logMaxSizeFlag = &cli.IntFlag{
		Name:  "log.maxsize",
		Usage: "Maximum size in megabytes of the log file before it is rotated",
		Value: 100,
	}
	logMaxBackupsFlag = &cli.IntFlag{
		Name:  "log.maxbackups",
		Usage: "Maximum number of rotated log files to retain (0 = all)",
		Value: 0,
	}

	daemonFlags = []cli.Flag{
		configFileFlag,
		rpcEndpointFlag,
		rpcTimeoutFlag,
		debugNodeFlag,
		workspaceFlag,
		verifierEndpointFlag,
		traceMemoryFlag,
		traceStorageFlag,
		preloadLimitFlag,
		listenAddrFlag,
		corsDomainFlag,
		metricsEnabledFlag,
		metricsAddrFlag,
		pyroscopeEnabledFlag,
		pyroscopeServerFlag,
		verbosityFlag,
		logFileFlag,
		logMaxSizeFlag,
		logMaxBackupsFlag,
	}

	serveCommand = &cli.Command{
		Name:   "serve",
		Usage:  "Run the debugger RPC server",
		Action: runDaemon,
		Flags:  daemonFlags,
	}
	traceCommand = &cli.Command{
		Name:      "trace",
		Usage:     "Debug one transaction and print the source location of every step",
		ArgsUsage: "<txhash>",
		Action:    runTrace,
		Flags:     daemonFlags,
	}
)

func init() {
	app.Action = runDaemon
	app.Flags = daemonFlags
	app.Commands = []*cli.Command{
		serveCommand,
		traceCommand,
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup builds and validates the configuration and installs the logger.
func setup(ctx *cli.Context) (*Config, error) {
	cfg, err := buildConfigFromCLI(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	setupLogging(cfg)
	return cfg, nil
}

func runDaemon(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}

	// Create and start runner
	runner, err := NewRunner(ctx.Context, cfg)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if err := runner.Start(); err != nil {
		runner.Close()
		return fmt.Errorf("failed to start: %w", err)
	}

	log.Info("Transaction debugger started", "rpc", cfg.RPCEndpoint, "workspace", cfg.Workspace, "networks", len(cfg.DebugNodes))

	// Wait for signal
	sig := <-sigCh
	log.Info("Received signal, shutting down", "signal", sig)

	return runner.Stop()
}

func buildConfigFromCLI(ctx *cli.Context) (*Config, error) {
	cfg := defaultConfig()
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfigFile(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if ctx.IsSet(rpcEndpointFlag.Name) {
		cfg.RPCEndpoint = ctx.String(rpcEndpointFlag.Name)
	}
	if ctx.IsSet(rpcTimeoutFlag.Name) {
		cfg.RPCTimeout = ctx.Duration(rpcTimeoutFlag.Name)
	}
	if ctx.IsSet(debugNodeFlag.Name) {
		nodes, err := parseDebugNodes(ctx.StringSlice(debugNodeFlag.Name))
		if err != nil {
			return nil, err
		}
		if cfg.DebugNodes == nil {
			cfg.DebugNodes = make(map[string]string, len(nodes))
		}
		for name, endpoint := range nodes {
			cfg.DebugNodes[name] = endpoint
		}
	}
	if ctx.IsSet(workspaceFlag.Name) {
		cfg.Workspace = ctx.String(workspaceFlag.Name)
	}
	if ctx.IsSet(verifierEndpointFlag.Name) {
		cfg.VerifierEndpoint = ctx.String(verifierEndpointFlag.Name)
	}
	if ctx.IsSet(traceMemoryFlag.Name) {
		cfg.TraceMemory = ctx.Bool(traceMemoryFlag.Name)
	}
	if ctx.IsSet(traceStorageFlag.Name) {
		cfg.TraceStorage = ctx.Bool(traceStorageFlag.Name)
	}
	if ctx.IsSet(preloadLimitFlag.Name) {
		cfg.PreloadLimit = ctx.Int(preloadLimitFlag.Name)
	}
	if ctx.IsSet(listenAddrFlag.Name) {
		cfg.ListenAddr = ctx.String(listenAddrFlag.Name)
	}
	if ctx.IsSet(corsDomainFlag.Name) {
		cfg.CORSDomains = ctx.StringSlice(corsDomainFlag.Name)
	}
	if ctx.IsSet(metricsEnabledFlag.Name) {
		cfg.MetricsEnabled = ctx.Bool(metricsEnabledFlag.Name)
	}
	if ctx.IsSet(metricsAddrFlag.Name) {
		cfg.MetricsAddr = ctx.String(metricsAddrFlag.Name)
	}
	if ctx.IsSet(pyroscopeEnabledFlag.Name) {
		cfg.PyroscopeEnabled = ctx.Bool(pyroscopeEnabledFlag.Name)
	}
	if ctx.IsSet(pyroscopeServerFlag.Name) {
		cfg.PyroscopeServer = ctx.String(pyroscopeServerFlag.Name)
	}
	if ctx.IsSet(verbosityFlag.Name) {
		cfg.Verbosity = ctx.Int(verbosityFlag.Name)
	}
	if ctx.IsSet(logFileFlag.Name) {
		cfg.LogFile = ctx.String(logFileFlag.Name)
	}
	if ctx.IsSet(logMaxSizeFlag.Name) {
		cfg.LogMaxSize = ctx.Int(logMaxSizeFlag.Name)
	}
	if ctx.IsSet(logMaxBackupsFlag.Name) {
		cfg.LogMaxBackups = ctx.Int(logMaxBackupsFlag.Name)
	}
	return cfg, nil
}
