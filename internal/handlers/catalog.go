// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"curriculum/internal/cache"
	"curriculum/internal/catalog"
	"curriculum/internal/models"
)

// Catalog groups the read-only catalog handlers. Each request works on a
// single snapshot taken from the holder, and encoded bodies are cached in
// Valkey under the snapshot's version.
type Catalog struct {
	holder *catalog.Holder
	cache  *cache.ResponseCache
}

// NewCatalog creates the catalog handler group. rc may be nil when
// caching is disabled.
func NewCatalog(holder *catalog.Holder, rc *cache.ResponseCache) *Catalog {
	return &Catalog{holder: holder, cache: rc}
}

type tracksResponse struct {
	Version string                `json:"version"`
	Tracks  []models.TrackSummary `json:"tracks"`
}

type unitsResponse struct {
	Track models.TrackSlug     `json:"track"`
	Title string               `json:"title"`
	Units []models.UnitSummary `json:"units"`
}

type lessonsResponse struct {
	Track   models.TrackSlug       `json:"track"`
	Unit    models.UnitSlug        `json:"unit"`
	Lessons []models.LessonSummary `json:"lessons"`
}

type statsResponse struct {
	Version string       `json:"version"`
	Stats   models.Stats `json:"stats"`
}

// ListTracks handles GET /api/tracks.
func (c *Catalog) ListTracks(w http.ResponseWriter, r *http.Request) {
	c.serve(w, r, jsonContentType, func(cat *catalog.Catalog) ([]byte, error) {
		return json.Marshal(tracksResponse{Version: cat.Version(), Tracks: cat.ListTracks()})
	})
}

// ListUnits handles GET /api/tracks/{track}/units.
func (c *Catalog) ListUnits(w http.ResponseWriter, r *http.Request) {
	track := models.TrackSlug(chi.URLParam(r, "track"))
	c.serve(w, r, jsonContentType, func(cat *catalog.Catalog) ([]byte, error) {
		t, err := cat.Track(track)
		if err != nil {
			return nil, err
		}
		units, err := cat.ListUnits(track)
		if err != nil {
			return nil, err
		}
		return json.Marshal(unitsResponse{Track: track, Title: t.Title, Units: units})
	})
}

// ListLessons handles GET /api/tracks/{track}/units/{unit}/lessons.
// Hidden lessons are listed only with ?include_hidden=true.
func (c *Catalog) ListLessons(w http.ResponseWriter, r *http.Request) {
	track := models.TrackSlug(chi.URLParam(r, "track"))
	unit := models.UnitSlug(chi.URLParam(r, "unit"))

	var opts catalog.ListOptions
	if v := r.URL.Query().Get("include_hidden"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "include_hidden must be a boolean")
			return
		}
		opts.IncludeHidden = b
	}

	c.serve(w, r, jsonContentType, func(cat *catalog.Catalog) ([]byte, error) {
		lessons, err := cat.ListLessons(track, unit, opts)
		if err != nil {
			return nil, err
		}
		return json.Marshal(lessonsResponse{Track: track, Unit: unit, Lessons: lessons})
	})
}

// GetLesson handles GET /api/tracks/{track}/units/{unit}/lessons/{lesson}.
// Hidden lessons resolve like any other.
func (c *Catalog) GetLesson(w http.ResponseWriter, r *http.Request) {
	track := models.TrackSlug(chi.URLParam(r, "track"))
	unit := models.UnitSlug(chi.URLParam(r, "unit"))
	lesson := models.LessonSlug(chi.URLParam(r, "lesson"))

	c.serve(w, r, jsonContentType, func(cat *catalog.Catalog) ([]byte, error) {
		l, err := cat.GetLesson(track, unit, lesson)
		if err != nil {
			return nil, err
		}
		return json.Marshal(l)
	})
}

// Export handles GET /api/catalog and returns the whole document in the
// requested format (?format=json|yaml, JSON by default).
func (c *Catalog) Export(w http.ResponseWriter, r *http.Request) {
	format := catalog.FormatJSON
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := catalog.ParseFormat(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		format = f
	}

	contentType := format.ContentType() + "; charset=utf-8"
	c.serve(w, r, contentType, func(cat *catalog.Catalog) ([]byte, error) {
		return catalog.Encode(cat.Document(), format)
	})
}

// Stats handles GET /api/catalog/stats.
func (c *Catalog) Stats(w http.ResponseWriter, r *http.Request) {
	c.serve(w, r, jsonContentType, func(cat *catalog.Catalog) ([]byte, error) {
		return json.Marshal(statsResponse{Version: cat.Version(), Stats: cat.Stats()})
	})
}

const jsonContentType = "application/json; charset=utf-8"

// serve takes one catalog snapshot and resolves the body from the response
// cache or render. Conditional request headers are only consulted once the
// resource is known to exist, so unknown slugs answer 404 even when
// If-None-Match names the current version.
func (c *Catalog) serve(w http.ResponseWriter, r *http.Request, contentType string, render func(*catalog.Catalog) ([]byte, error)) {
	cat := c.holder.Current()
	if cat == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog not loaded")
		return
	}

	version := cat.Version()
	etag := `"` + version + `"`
	key := r.URL.RequestURI()

	body, hit := c.cache.Get(r.Context(), version, key)
	if !hit {
		var err error
		if body, err = render(cat); err != nil {
			writeCatalogError(w, r, err)
			return
		}
		c.cache.Set(r.Context(), version, key, body)
	}

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	cacheStatus := "MISS"
	if hit {
		cacheStatus = "HIT"
	}
	writeBody(w, etag, contentType, cacheStatus, body)
}

func writeBody(w http.ResponseWriter, etag, contentType, cacheStatus string, body []byte) {
	h := w.Header()
	h.Set("ETag", etag)
	h.Set("Content-Type", contentType)
	h.Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// etagMatches reports whether an If-None-Match header names etag. Weak
// validators compare equal to their strong form.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
