// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Everything runs in memory; no PostgreSQL or Valkey is needed.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"curriculum/internal/catalog"
	"curriculum/internal/models"
)

// memoryStore is a versioned in-memory catalog store. It implements
// catalog.Source, Publisher and Historian.
type memoryStore struct {
	mu       sync.Mutex
	docs     []models.CatalogDocument
	fetchErr error
	pubErr   error
}

func (m *memoryStore) Fetch(_ context.Context) (catalog.Raw, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return catalog.Raw{}, m.fetchErr
	}
	if len(m.docs) == 0 {
		return catalog.Raw{}, errors.New("nothing published")
	}
	d := m.docs[len(m.docs)-1]
	return catalog.Raw{Data: []byte(d.Body), Format: catalog.Format(d.Format), Origin: "memory"}, nil
}

func (m *memoryStore) Publish(_ context.Context, raw catalog.Raw, cat *catalog.Catalog, note string) (*models.CatalogDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pubErr != nil {
		return nil, m.pubErr
	}
	d := models.CatalogDocument{
		ID:        uuid.New(),
		Version:   len(m.docs) + 1,
		Format:    string(raw.Format),
		Body:      string(raw.Data),
		Checksum:  cat.Version(),
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
	m.docs = append(m.docs, d)
	return &d, nil
}

func (m *memoryStore) History(_ context.Context, limit int) ([]models.CatalogDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CatalogDocument
	for i := len(m.docs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.docs[i])
	}
	return out, nil
}

func (m *memoryStore) FindByVersion(_ context.Context, version int) (*models.CatalogDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if version < 1 || version > len(m.docs) {
		return nil, nil
	}
	d := m.docs[version-1]
	return &d, nil
}

// testEnv bundles a loaded catalog with handler groups wired to it.
type testEnv struct {
	Holder  *catalog.Holder
	Store   *memoryStore
	Catalog *Catalog
	Admin   *Admin
}

func readFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../catalog/testdata/catalog.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := &memoryStore{}
	data := readFixture(t)
	cat, err := catalog.Parse(data, catalog.FormatJSON)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	if _, err := store.Publish(context.Background(), catalog.Raw{Data: data, Format: catalog.FormatJSON}, cat, "fixture"); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	holder := catalog.NewHolder(cat)
	reloader := catalog.NewReloader(holder, store)
	return &testEnv{
		Holder:  holder,
		Store:   store,
		Catalog: NewCatalog(holder, nil),
		Admin:   NewAdmin(reloader, store, store),
	}
}

// withParams attaches chi URL parameters to a request, as the router
// would after matching a route pattern.
func withParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
