// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"curriculum/internal/catalog"
	"curriculum/internal/handlers"
	"curriculum/internal/middleware"
)

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

// newTestRouter serves the shared fixture from a file source with a small
// rate limit and a known admin token.
func newTestRouter(t *testing.T, limit int) http.Handler {
	t.Helper()

	src := catalog.FileSource{Path: "../catalog/testdata/catalog.json"}
	cat, err := catalog.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	holder := catalog.NewHolder(cat)

	hash, err := middleware.HashToken("admin-token")
	if err != nil {
		t.Fatalf("HashToken: %v", err)
	}

	limiter := middleware.NewRateLimiter(limit, time.Minute)

	return New(Options{
		Catalog:        handlers.NewCatalog(holder, nil),
		Admin:          handlers.NewAdmin(catalog.NewReloader(holder, src), nil, nil),
		Limiter:        limiter,
		AdminTokenHash: hash,
	})
}

func TestRoutes(t *testing.T) {
	h := newTestRouter(t, 100)

	tests := []struct {
		name   string
		method string
		target string
		token  string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"tracks", http.MethodGet, "/api/tracks", "", http.StatusOK},
		{"units", http.MethodGet, "/api/tracks/dapp-development/units", "", http.StatusOK},
		{"lessons", http.MethodGet, "/api/tracks/dapp-development/units/tokens/lessons", "", http.StatusOK},
		{"hidden lesson", http.MethodGet, "/api/tracks/dapp-development/units/tokens/lessons/program-testing", "", http.StatusOK},
		{"unknown lesson", http.MethodGet, "/api/tracks/dapp-development/units/tokens/lessons/nope", "", http.StatusNotFound},
		{"unknown track", http.MethodGet, "/api/tracks/nope/units", "", http.StatusNotFound},
		{"export yaml", http.MethodGet, "/api/catalog?format=yaml", "", http.StatusOK},
		{"stats", http.MethodGet, "/api/catalog/stats", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/nothing", "", http.StatusNotFound},
		{"wrong method", http.MethodPost, "/api/tracks", "", http.StatusMethodNotAllowed},
		{"admin without token", http.MethodPost, "/admin/reload", "", http.StatusUnauthorized},
		{"admin wrong token", http.MethodPost, "/admin/reload", "guess", http.StatusUnauthorized},
		{"admin reload", http.MethodPost, "/admin/reload", "admin-token", http.StatusOK},
		{"admin publish read-only", http.MethodPost, "/admin/publish", "admin-token", http.StatusNotImplemented},
		{"admin document without history", http.MethodGet, "/admin/history/1", "admin-token", http.StatusNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("%s %s: got %d, want %d (%s)", tt.method, tt.target, rec.Code, tt.want, rec.Body.String())
			}
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("secure headers missing")
			}
			if rec.Header().Get("Content-Type") == "" {
				t.Error("Content-Type missing")
			}
		})
	}
}

func TestRateLimitAppliesToAPI(t *testing.T) {
	h := newTestRouter(t, 2)

	get := func(target string) int {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.RemoteAddr = "10.1.1.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := get("/api/tracks"); code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i+1, code)
		}
	}
	if code := get("/api/tracks"); code != http.StatusTooManyRequests {
		t.Errorf("got %d, want 429", code)
	}
	if code := get("/health"); code != http.StatusOK {
		t.Errorf("health should not be rate limited, got %d", code)
	}
}
