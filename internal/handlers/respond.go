// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers for the catalog API and
// its admin endpoints. Every response body is JSON except catalog exports,
// which may be YAML.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"curriculum/internal/catalog"
)

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error    string            `json:"error"`
	Problems []catalog.Problem `json:"problems,omitempty"`
}

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeCatalogError maps catalog errors to HTTP statuses: unknown slugs
// are 404, invalid documents 422, everything else 500.
func writeCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	var schemaErr *catalog.SchemaError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &schemaErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:    "invalid catalog document",
			Problems: schemaErr.Problems,
		})
	default:
		slog.Error("catalog request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// NotFound answers unknown routes with a JSON 404.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "no route for "+r.URL.Path)
}

// MethodNotAllowed answers known routes hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, r.Method+" not allowed on "+r.URL.Path)
}
