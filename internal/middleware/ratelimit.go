// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter caps how many catalog API requests one client may make in a
// sliding window. Clients are keyed by the peer address only; forwarding
// headers are honored solely through TrustProxies, which rewrites
// RemoteAddr for requests arriving from a trusted proxy.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	clients map[string][]time.Time // admitted request times, oldest first
}

// NewRateLimiter admits limit requests per client in any window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		clients: make(map[string][]time.Time),
	}
}

// take records a request for key if the budget allows it. It returns the
// requests left in the window and, when rejected, how long until the
// oldest admitted request leaves the window.
func (rl *RateLimiter) take(key string) (remaining int, wait time.Duration, ok bool) {
	now := rl.now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	times := rl.clients[key]
	i := 0
	for i < len(times) && !times[i].After(cutoff) {
		i++
	}
	times = times[i:]

	if len(times) >= rl.limit {
		rl.clients[key] = times
		return 0, times[0].Sub(cutoff), false
	}

	times = append(times, now)
	rl.clients[key] = times
	return rl.limit - len(times), 0, true
}

// Sweep forgets clients with no request inside the window.
func (rl *RateLimiter) Sweep() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, times := range rl.clients {
		if len(times) == 0 || !times[len(times)-1].After(cutoff) {
			delete(rl.clients, key)
		}
	}
}

// Run sweeps idle clients every interval until ctx is cancelled.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.Sweep()
		case <-ctx.Done():
			return
		}
	}
}

// Middleware enforces the limit. Every response reports the budget in
// X-RateLimit-Limit and X-RateLimit-Remaining; rejected requests get 429
// with Retry-After in whole seconds.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	limit := strconv.Itoa(rl.limit)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remaining, wait, ok := rl.take(peerHost(r.RemoteAddr))

		h := w.Header()
		h.Set("X-RateLimit-Limit", limit)
		h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			h.Set("Retry-After", strconv.Itoa(max(1, int(math.Ceil(wait.Seconds())))))
			writeError(w, http.StatusTooManyRequests, "Too Many Requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// peerHost strips the port from a RemoteAddr. Addresses rewritten by
// RealIP carry no port and are returned as is.
func peerHost(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
