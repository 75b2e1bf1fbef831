// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"curriculum/internal/catalog"
	"curriculum/internal/models"
)

func TestListTracks(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Catalog.ListTracks(rec, httptest.NewRequest(http.MethodGet, "/api/tracks", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var body tracksResponse
	decodeJSON(t, rec, &body)

	want := []models.TrackSlug{"dapp-development", "onchain-development", "intro"}
	if len(body.Tracks) != len(want) {
		t.Fatalf("tracks: got %d, want %d", len(body.Tracks), len(want))
	}
	for i, slug := range want {
		if body.Tracks[i].Slug != slug {
			t.Errorf("tracks[%d]: got %q, want %q", i, body.Tracks[i].Slug, slug)
		}
	}
	if body.Version != env.Holder.Current().Version() {
		t.Errorf("version: got %q, want current version", body.Version)
	}
}

func TestListUnits(t *testing.T) {
	env := newTestEnv(t)

	t.Run("known track", func(t *testing.T) {
		req := withParams(httptest.NewRequest(http.MethodGet, "/api/tracks/dapp-development/units", nil),
			"track", "dapp-development")
		rec := httptest.NewRecorder()
		env.Catalog.ListUnits(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rec.Code)
		}
		var body unitsResponse
		decodeJSON(t, rec, &body)
		if len(body.Units) != 2 || body.Units[0].Slug != "introduction-to-cryptography" || body.Units[1].Slug != "tokens" {
			t.Errorf("units: got %+v", body.Units)
		}
		if body.Units[0].LessonCount != 7 {
			t.Errorf("lesson_count: got %d, want 7", body.Units[0].LessonCount)
		}
	})

	t.Run("track without units", func(t *testing.T) {
		req := withParams(httptest.NewRequest(http.MethodGet, "/api/tracks/intro/units", nil), "track", "intro")
		rec := httptest.NewRecorder()
		env.Catalog.ListUnits(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"units":[]`) {
			t.Errorf("expected an empty units array, got %s", rec.Body.String())
		}
	})

	t.Run("unknown track", func(t *testing.T) {
		req := withParams(httptest.NewRequest(http.MethodGet, "/api/tracks/nope/units", nil), "track", "nope")
		rec := httptest.NewRecorder()
		env.Catalog.ListUnits(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status: got %d, want 404", rec.Code)
		}
		var body errorResponse
		decodeJSON(t, rec, &body)
		if !strings.Contains(body.Error, "track") {
			t.Errorf("error: got %q", body.Error)
		}
	})
}

func TestListLessons(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		query  string
		unit   string
		status int
		want   []models.LessonSlug
	}{
		{
			name:   "hidden lessons filtered",
			unit:   "tokens",
			status: http.StatusOK,
			want:   []models.LessonSlug{"create-token-mint", "transfer-tokens", "delegate-tokens", "burn-tokens"},
		},
		{
			name:   "hidden lessons included",
			query:  "?include_hidden=true",
			unit:   "tokens",
			status: http.StatusOK,
			want:   []models.LessonSlug{"create-token-mint", "transfer-tokens", "delegate-tokens", "burn-tokens", "program-testing"},
		},
		{
			name:   "authored order",
			unit:   "introduction-to-cryptography",
			status: http.StatusOK,
			want: []models.LessonSlug{
				"cryptography-fundamentals", "keypairs", "read-from-network", "write-to-network",
				"transactions", "interact-with-wallets", "serialize-instruction-data",
			},
		},
		{name: "unknown unit", unit: "nope", status: http.StatusNotFound},
		{name: "bad flag", query: "?include_hidden=maybe", unit: "tokens", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/api/tracks/dapp-development/units/" + tt.unit + "/lessons" + tt.query
			req := withParams(httptest.NewRequest(http.MethodGet, target, nil),
				"track", "dapp-development", "unit", tt.unit)
			rec := httptest.NewRecorder()
			env.Catalog.ListLessons(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status: got %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			var body lessonsResponse
			decodeJSON(t, rec, &body)
			if len(body.Lessons) != len(tt.want) {
				t.Fatalf("lessons: got %d, want %d", len(body.Lessons), len(tt.want))
			}
			for i, slug := range tt.want {
				if body.Lessons[i].Slug != slug {
					t.Errorf("lessons[%d]: got %q, want %q", i, body.Lessons[i].Slug, slug)
				}
			}
		})
	}
}

func TestGetLesson(t *testing.T) {
	env := newTestEnv(t)

	t.Run("hidden lesson by slug", func(t *testing.T) {
		req := withParams(httptest.NewRequest(http.MethodGet, "/api/tracks/dapp-development/units/tokens/lessons/program-testing", nil),
			"track", "dapp-development", "unit", "tokens", "lesson", "program-testing")
		rec := httptest.NewRecorder()
		env.Catalog.GetLesson(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rec.Code)
		}
		var lesson models.Lesson
		decodeJSON(t, rec, &lesson)
		if lesson.Slug != "program-testing" || !lesson.IsHidden() {
			t.Errorf("lesson: got %+v", lesson)
		}
	})

	t.Run("lesson with lab", func(t *testing.T) {
		req := withParams(httptest.NewRequest(http.MethodGet, "/", nil),
			"track", "dapp-development", "unit", "introduction-to-cryptography", "lesson", "keypairs")
		rec := httptest.NewRecorder()
		env.Catalog.GetLesson(rec, req)

		var lesson models.Lesson
		decodeJSON(t, rec, &lesson)
		if !lesson.Lab.Present() {
			t.Error("expected keypairs to carry a lab")
		}
	})

	t.Run("unknown lesson", func(t *testing.T) {
		req := withParams(httptest.NewRequest(http.MethodGet, "/", nil),
			"track", "dapp-development", "unit", "tokens", "lesson", "nope")
		rec := httptest.NewRecorder()
		env.Catalog.GetLesson(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", rec.Code)
		}
	})
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)

	for _, format := range []catalog.Format{catalog.FormatJSON, catalog.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.Catalog.Export(rec, httptest.NewRequest(http.MethodGet, "/api/catalog?format="+string(format), nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, format.ContentType()) {
				t.Errorf("Content-Type: got %q", ct)
			}
			reparsed, err := catalog.Parse(rec.Body.Bytes(), format)
			if err != nil {
				t.Fatalf("export does not parse: %v", err)
			}
			if reparsed.Version() != env.Holder.Current().Version() {
				t.Error("exported document differs from the served catalog")
			}
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		rec := httptest.NewRecorder()
		env.Catalog.Export(rec, httptest.NewRequest(http.MethodGet, "/api/catalog?format=toml", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rec.Code)
		}
	})
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Catalog.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/stats", nil))

	var body statsResponse
	decodeJSON(t, rec, &body)
	want := models.Stats{Tracks: 3, Units: 3, Lessons: 15, HiddenLessons: 2, Labs: 7}
	if body.Stats != want {
		t.Errorf("stats: got %+v, want %+v", body.Stats, want)
	}
}

func TestConditionalRequests(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Catalog.ListTracks(rec, httptest.NewRequest(http.MethodGet, "/api/tracks", nil))
	etag := rec.Header().Get("ETag")
	if etag != `"`+env.Holder.Current().Version()+`"` {
		t.Fatalf("ETag: got %q", etag)
	}

	tests := []struct {
		header string
		want   int
	}{
		{etag, http.StatusNotModified},
		{"W/" + etag, http.StatusNotModified},
		{`"stale", ` + etag, http.StatusNotModified},
		{"*", http.StatusNotModified},
		{`"stale"`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tracks", nil)
			req.Header.Set("If-None-Match", tt.header)
			rec := httptest.NewRecorder()
			env.Catalog.ListTracks(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestConditionalRequestsUnknownSlugs(t *testing.T) {
	env := newTestEnv(t)
	etag := `"` + env.Holder.Current().Version() + `"`

	tests := []struct {
		name    string
		handler http.HandlerFunc
		target  string
		params  []string
	}{
		{"unknown track", env.Catalog.ListUnits, "/api/tracks/nope/units", []string{"track", "nope"}},
		{"unknown unit", env.Catalog.ListLessons, "/api/tracks/dapp-development/units/nope/lessons",
			[]string{"track", "dapp-development", "unit", "nope"}},
		{"unknown lesson", env.Catalog.GetLesson, "/api/tracks/dapp-development/units/tokens/lessons/nope",
			[]string{"track", "dapp-development", "unit", "tokens", "lesson", "nope"}},
	}

	for _, tt := range tests {
		for _, header := range []string{etag, "*"} {
			t.Run(tt.name+" "+header, func(t *testing.T) {
				req := withParams(httptest.NewRequest(http.MethodGet, tt.target, nil), tt.params...)
				req.Header.Set("If-None-Match", header)
				rec := httptest.NewRecorder()
				tt.handler(rec, req)
				if rec.Code != http.StatusNotFound {
					t.Errorf("status: got %d, want 404", rec.Code)
				}
				if rec.Header().Get("ETag") != "" {
					t.Error("404 must not carry an ETag")
				}
			})
		}
	}
}

func TestCatalogNotLoaded(t *testing.T) {
	h := NewCatalog(catalog.NewHolder(nil), nil)

	rec := httptest.NewRecorder()
	h.ListTracks(rec, httptest.NewRequest(http.MethodGet, "/api/tracks", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rec.Code)
	}
}
