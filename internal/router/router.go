// Package router sets up all HTTP routes and middleware chains for the
// curriculum catalog service. It organizes routes into the public API
// and the token-protected admin group.
package router

import (
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"curriculum/internal/handlers"
	"curriculum/internal/middleware"
)

// Options carries the pieces New wires together. Limiter and Admin may be
// nil to leave rate limiting or the admin group out.
type Options struct {
	Catalog        *handlers.Catalog
	Admin          *handlers.Admin
	Limiter        *middleware.RateLimiter
	AdminTokenHash string
	TrustedProxies []netip.Prefix
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.TrustProxies(opts.TrustedProxies))
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Health check, no rate limit, no auth.
	r.Get("/health", healthHandler)

	// Read-only catalog API.
	r.Route("/api", func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Middleware)
		}

		r.Get("/tracks", opts.Catalog.ListTracks)
		r.Route("/tracks/{track}", func(r chi.Router) {
			r.Get("/units", opts.Catalog.ListUnits)
			r.Get("/units/{unit}/lessons", opts.Catalog.ListLessons)
			r.Get("/units/{unit}/lessons/{lesson}", opts.Catalog.GetLesson)
		})

		r.Get("/catalog", opts.Catalog.Export)
		r.Get("/catalog/stats", opts.Catalog.Stats)
	})

	// Admin routes, bearer token checked against ADMIN_TOKEN_HASH.
	if opts.Admin != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireToken(opts.AdminTokenHash))

			r.Post("/reload", opts.Admin.Reload)
			r.Post("/publish", opts.Admin.Publish)
			r.Get("/history", opts.Admin.History)
			r.Get("/history/{version}", opts.Admin.Document)
		})
	}

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
