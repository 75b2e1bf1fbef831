package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"curriculum/internal/catalog"
)

// Seed stores raw as catalog version 1 when no document has been published
// yet, so a fresh development database serves the bundled catalog. The
// document must be valid.
func Seed(ctx context.Context, db *sql.DB, raw catalog.Raw) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog_documents").Scan(&count); err != nil {
		return fmt.Errorf("seed check documents: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	cat, err := catalog.Parse(raw.Data, raw.Format)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO catalog_documents (id, version, format, body, checksum, note)
		VALUES ($1, 1, $2, $3, $4, $5)
		ON CONFLICT (version) DO NOTHING
	`, uuid.New(), string(raw.Format), string(raw.Data), cat.Version(), "seeded from "+raw.Origin)
	if err != nil {
		return fmt.Errorf("seed insert catalog: %w", err)
	}

	slog.Info("database seeded with catalog", "origin", raw.Origin, "version", cat.Version())
	return nil
}
