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
	"net"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/cors"
)

// Server serves the debugger API over HTTP and WebSocket on one port.
// Subscriptions need a WebSocket connection.
type Server struct {
	server   *rpc.Server
	listener net.Listener
	httpSrv  *http.Server
}

// NewServer registers api and starts serving on listenAddr. Browsers may
// only connect from corsDomains; without any, every origin is accepted.
func NewServer(listenAddr string, corsDomains []string, api *DebuggerAPI) (*Server, error) {
	server := rpc.NewServer()
	if err := server.RegisterName("debugger", api); err != nil {
		return nil, fmt.Errorf("failed to register debugger API: %w", err)
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		server.Stop()
		return nil, fmt.Errorf("failed to listen on %s: %w", listenAddr, err)
	}

	origins := corsDomains
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	ws := server.WebsocketHandler(origins)
	rpcHandler := newCorsHandler(server, origins)
	httpSrv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isWebsocket(r) {
			ws.ServeHTTP(w, r)
			return
		}
		rpcHandler.ServeHTTP(w, r)
	})}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("Debugger server error", "err", err)
		}
	}()

	log.Info("Debugger server started", "addr", listener.Addr())

	return &Server{
		server:   server,
		listener: listener,
		httpSrv:  httpSrv,
	}, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Close stops the server.
func (s *Server) Close() error {
	err := s.httpSrv.Close()
	s.server.Stop()
	return err
}

func newCorsHandler(srv http.Handler, allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodGet},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	})
	return c.Handler(srv)
}

// isWebsocket checks the header of an http request for a websocket upgrade request.
func isWebsocket(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket") &&
		strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade")
}
