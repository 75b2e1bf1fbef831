// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"curriculum/internal/catalog"
	"curriculum/internal/models"
)

// maxDocumentSize bounds the body accepted by Publish.
const maxDocumentSize = 5 << 20

// Publisher stores a validated catalog document where the configured
// source will find it on the next reload.
type Publisher interface {
	Publish(ctx context.Context, raw catalog.Raw, cat *catalog.Catalog, note string) (*models.CatalogDocument, error)
}

// Historian lists previously published documents, newest first, and
// retrieves a single version with its body. FindByVersion returns nil
// for an unknown version.
type Historian interface {
	History(ctx context.Context, limit int) ([]models.CatalogDocument, error)
	FindByVersion(ctx context.Context, version int) (*models.CatalogDocument, error)
}

// Admin groups the token-protected maintenance handlers.
type Admin struct {
	reloader  *catalog.Reloader
	publisher Publisher
	history   Historian
}

// NewAdmin creates the admin handler group. publisher and history are nil
// when the configured source is read-only or unversioned.
func NewAdmin(reloader *catalog.Reloader, publisher Publisher, history Historian) *Admin {
	return &Admin{reloader: reloader, publisher: publisher, history: history}
}

type reloadResponse struct {
	Version string       `json:"version"`
	Changed bool         `json:"changed"`
	Stats   models.Stats `json:"stats"`
}

type publishResponse struct {
	Document *models.CatalogDocument `json:"document"`
	reloadResponse
}

// Reload handles POST /admin/reload. A failed reload keeps serving the
// previous catalog and reports why.
func (a *Admin) Reload(w http.ResponseWriter, r *http.Request) {
	cat, changed, err := a.reloader.Reload(r.Context())
	if err != nil {
		a.reloadFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{Version: cat.Version(), Changed: changed, Stats: cat.Stats()})
}

// Publish handles POST /admin/publish. The body is a catalog document in
// JSON or YAML (from ?format= or the Content-Type). It is validated,
// stored through the publisher and then loaded.
func (a *Admin) Publish(w http.ResponseWriter, r *http.Request) {
	if a.publisher == nil {
		writeError(w, http.StatusNotImplemented, "the configured catalog source does not accept published documents")
		return
	}

	format, err := requestFormat(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "catalog document too large")
			return
		}
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	cat, err := catalog.Parse(data, format)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}

	raw := catalog.Raw{Data: data, Format: format, Origin: "admin"}
	doc, err := a.publisher.Publish(r.Context(), raw, cat, r.URL.Query().Get("note"))
	if err != nil {
		slog.Error("publish catalog failed", "error", err)
		writeError(w, http.StatusBadGateway, "could not store catalog document")
		return
	}
	slog.Info("catalog published", "version", doc.Version, "checksum", doc.Checksum, "remote", r.RemoteAddr)

	current, changed, err := a.reloader.Reload(r.Context())
	if err != nil {
		a.reloadFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, publishResponse{
		Document:       doc,
		reloadResponse: reloadResponse{Version: current.Version(), Changed: changed, Stats: current.Stats()},
	})
}

// History handles GET /admin/history?limit=N.
func (a *Admin) History(w http.ResponseWriter, r *http.Request) {
	if a.history == nil {
		writeError(w, http.StatusNotImplemented, "the configured catalog source keeps no history")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	docs, err := a.history.History(r.Context(), limit)
	if err != nil {
		slog.Error("catalog history failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if docs == nil {
		docs = []models.CatalogDocument{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// Document handles GET /admin/history/{version} and returns the stored
// body exactly as it was published.
func (a *Admin) Document(w http.ResponseWriter, r *http.Request) {
	if a.history == nil {
		writeError(w, http.StatusNotImplemented, "the configured catalog source keeps no history")
		return
	}

	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil || version < 1 {
		writeError(w, http.StatusBadRequest, "version must be a positive integer")
		return
	}

	doc, err := a.history.FindByVersion(r.Context(), version)
	if err != nil {
		slog.Error("catalog document lookup failed", "version", version, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "catalog version "+strconv.Itoa(version)+" not found")
		return
	}

	h := w.Header()
	h.Set("Content-Type", catalog.Format(doc.Format).ContentType()+"; charset=utf-8")
	h.Set("ETag", `"`+doc.Checksum+`"`)
	h.Set("X-Catalog-Version", strconv.Itoa(doc.Version))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, doc.Body)
}

func (a *Admin) reloadFailed(w http.ResponseWriter, r *http.Request, err error) {
	var schemaErr *catalog.SchemaError
	if errors.As(err, &schemaErr) {
		writeCatalogError(w, r, err)
		return
	}
	slog.Error("catalog reload failed", "error", err)
	writeError(w, http.StatusBadGateway, "catalog source unavailable")
}

// requestFormat reads the document format from ?format= or falls back to
// the request Content-Type. Anything not YAML is treated as JSON.
func requestFormat(r *http.Request) (catalog.Format, error) {
	if v := r.URL.Query().Get("format"); v != "" {
		return catalog.ParseFormat(v)
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return catalog.FormatJSON, nil
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return catalog.FormatYAML, nil
	}
	return catalog.FormatJSON, nil
}
