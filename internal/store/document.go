// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"curriculum/internal/catalog"
	"curriculum/internal/models"
)

// ErrNoDocument is returned when no catalog version has been published.
var ErrNoDocument = errors.New("no catalog document published")

// DocumentStore keeps published catalog versions in PostgreSQL. The
// latest version is the one served; older rows form the history.
type DocumentStore struct {
	db *sql.DB
}

// NewDocumentStore returns a new DocumentStore.
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

const documentColumns = `id, version, format, body, checksum, note, created_at`

// scanDocument scans a row into a CatalogDocument struct.
func scanDocument(scanner interface{ Scan(...any) error }) (*models.CatalogDocument, error) {
	var d models.CatalogDocument
	err := scanner.Scan(&d.ID, &d.Version, &d.Format, &d.Body, &d.Checksum, &d.Note, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Latest returns the highest published version.
func (s *DocumentStore) Latest(ctx context.Context) (*models.CatalogDocument, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+`
		FROM catalog_documents ORDER BY version DESC LIMIT 1`)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("latest catalog document: %w", err)
	}
	return d, nil
}

// FindByVersion retrieves a specific version. Returns nil if not found.
func (s *DocumentStore) FindByVersion(ctx context.Context, version int) (*models.CatalogDocument, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+`
		FROM catalog_documents WHERE version = $1`, version)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find catalog document %d: %w", version, err)
	}
	return d, nil
}

// History lists published versions, newest first, without bodies.
func (s *DocumentStore) History(ctx context.Context, limit int) ([]models.CatalogDocument, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, version, format, '' AS body, checksum, note, created_at
		FROM catalog_documents
		ORDER BY version DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list catalog history: %w", err)
	}
	defer rows.Close()

	var items []models.CatalogDocument
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog document: %w", err)
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

// Publish stores raw as the next version. The caller must have validated
// it; cat supplies the content checksum. Publishing a document identical
// to the latest version is a no-op that returns the latest row.
func (s *DocumentStore) Publish(ctx context.Context, raw catalog.Raw, cat *catalog.Catalog, note string) (*models.CatalogDocument, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Serialize publishers so version numbers stay dense.
	if _, err := tx.ExecContext(ctx, `LOCK TABLE catalog_documents IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return nil, fmt.Errorf("lock catalog documents: %w", err)
	}

	latest, err := scanDocument(tx.QueryRowContext(ctx, `SELECT `+documentColumns+`
		FROM catalog_documents ORDER BY version DESC LIMIT 1`))
	switch {
	case err == sql.ErrNoRows:
		latest = nil
	case err != nil:
		return nil, fmt.Errorf("latest catalog document: %w", err)
	case latest.Checksum == cat.Version():
		return latest, tx.Commit()
	}

	next := 1
	if latest != nil {
		next = latest.Version + 1
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO catalog_documents (id, version, format, body, checksum, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+documentColumns,
		uuid.New(), next, string(raw.Format), string(raw.Data), cat.Version(), note,
	)
	d, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf("publish catalog document: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit publish: %w", err)
	}
	return d, nil
}

// Fetch implements catalog.Source with the latest published version.
func (s *DocumentStore) Fetch(ctx context.Context) (catalog.Raw, error) {
	d, err := s.Latest(ctx)
	if err != nil {
		return catalog.Raw{}, err
	}
	format, err := catalog.ParseFormat(d.Format)
	if err != nil {
		return catalog.Raw{}, err
	}
	return catalog.Raw{
		Data:   []byte(d.Body),
		Format: format,
		Origin: "postgres:v" + strconv.Itoa(d.Version),
	}, nil
}
