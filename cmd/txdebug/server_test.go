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
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCorsHandler(t *testing.T) {
	handler := newCorsHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), []string{"https://remix.example"})

	tests := []struct {
		origin string
		allow  string
	}{
		{"https://remix.example", "https://remix.example"},
		{"https://evil.example", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", tt.origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if have := rec.Header().Get("Access-Control-Allow-Origin"); have != tt.allow {
			t.Errorf("origin %s: allowed %q, want %q", tt.origin, have, tt.allow)
		}
	}
}

func TestIsWebsocket(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if isWebsocket(req) {
		t.Fatal("plain request reported as websocket")
	}
	req.Header.Set("Upgrade", "WebSocket")
	req.Header.Set("Connection", "keep-alive, Upgrade")
	if !isWebsocket(req) {
		t.Fatal("upgrade request not recognized")
	}
}
