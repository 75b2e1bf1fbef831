// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Holder publishes the current catalog. Readers take one snapshot with
// Current and use it for the whole request; a reload replaces the pointer
// and never touches a published tree.
type Holder struct {
	current atomic.Pointer[Catalog]
}

// NewHolder returns a Holder publishing c.
func NewHolder(c *Catalog) *Holder {
	h := &Holder{}
	h.current.Store(c)
	return h
}

// Current returns the published catalog.
func (h *Holder) Current() *Catalog {
	return h.current.Load()
}

// Swap publishes c and returns the catalog it replaced.
func (h *Holder) Swap(c *Catalog) *Catalog {
	return h.current.Swap(c)
}

// SwapFunc is called after a reload publishes a new catalog.
type SwapFunc func(ctx context.Context, old, next *Catalog)

// Reloader refreshes a Holder from a Source. Reloads are serialized; a
// failed reload leaves the published catalog in place.
type Reloader struct {
	holder *Holder
	source Source

	mu     sync.Mutex
	onSwap []SwapFunc
}

// NewReloader returns a Reloader for holder backed by source.
func NewReloader(holder *Holder, source Source) *Reloader {
	return &Reloader{holder: holder, source: source}
}

// OnSwap registers fn to run after every successful swap.
func (r *Reloader) OnSwap(fn SwapFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onSwap = append(r.onSwap, fn)
}

// Reload fetches and parses the source. If the content is unchanged the
// current catalog is kept and returned with changed == false.
func (r *Reloader) Reload(ctx context.Context) (cat *Catalog, changed bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := r.source.Fetch(ctx)
	if err != nil {
		return r.holder.Current(), false, err
	}
	next, err := Parse(raw.Data, raw.Format)
	if err != nil {
		slog.Warn("catalog reload rejected", "origin", raw.Origin, "error", err)
		return r.holder.Current(), false, err
	}

	old := r.holder.Current()
	if old != nil && old.Version() == next.Version() {
		slog.Debug("catalog unchanged", "origin", raw.Origin, "version", next.Version())
		return old, false, nil
	}

	r.holder.Swap(next)
	stats := next.Stats()
	slog.Info("catalog loaded",
		"origin", raw.Origin,
		"version", next.Version(),
		"tracks", stats.Tracks,
		"lessons", stats.Lessons,
	)
	for _, fn := range r.onSwap {
		fn(ctx, old, next)
	}
	return next, true, nil
}

// Watch reloads every interval until ctx is done. Errors are logged and
// the previous catalog stays published.
func (r *Reloader) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, _, err := r.Reload(ctx); err != nil {
				slog.Error("periodic catalog reload failed", "error", err)
			}
		}
	}
}
