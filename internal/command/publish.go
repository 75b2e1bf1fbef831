// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package command

import (
	"context"
	"errors"
	"fmt"

	"curriculum/internal/catalog"
	"curriculum/internal/config"
	"curriculum/internal/database"
	"curriculum/internal/storage"
	"curriculum/internal/store"
)

// PublishCommand validates a document and stores it where a running
// service will pick it up on its next reload.
type PublishCommand struct {
	File   string `arg:"" help:"Catalog document to publish." type:"existingfile"`
	Note   string `help:"Free-form note stored with the version."`
	Input  string `help:"Input format (json or yaml); detected from the extension when empty." name:"input-format"`
	S3     bool   `help:"Upload to the S3 catalog object instead of PostgreSQL." name:"s3"`
	DryRun bool   `help:"Validate only; do not store anything." name:"dry-run"`
}

// Run publishes to PostgreSQL by default, or to S3 with --s3.
func (c *PublishCommand) Run(app *App) error {
	app.SetupLogger(false)
	ctx := context.Background()

	raw, err := readDocument(c.File, c.Input)
	if err != nil {
		return err
	}
	cat, err := catalog.Parse(raw.Data, raw.Format)
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}
	if c.DryRun {
		app.printf("%s: valid, version %s (dry run, nothing stored)\n", c.File, shortVersion(cat.Version()))
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if c.S3 {
		if !cfg.S3Configured() {
			return errors.New("S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY must be set to publish to s3")
		}
		client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
		if err != nil {
			return fmt.Errorf("init s3 storage: %w", err)
		}
		src := storage.ObjectSource{Client: client, Key: cfg.S3CatalogKey}
		if _, err := src.Publish(ctx, raw, cat, c.Note); err != nil {
			return err
		}
		app.printf("published %s to s3://%s/%s (version %s)\n", c.File, client.Bucket(), cfg.S3CatalogKey, shortVersion(cat.Version()))
		return nil
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		return err
	}

	doc, err := store.NewDocumentStore(db).Publish(ctx, raw, cat, c.Note)
	if err != nil {
		return err
	}
	// An unchanged document resolves to the existing latest version.
	app.printf("%s is catalog version %d (%s)\n", c.File, doc.Version, shortVersion(doc.Checksum))
	return nil
}
