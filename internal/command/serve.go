// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package command

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"curriculum/internal/cache"
	"curriculum/internal/catalog"
	"curriculum/internal/config"
	"curriculum/internal/database"
	"curriculum/internal/handlers"
	"curriculum/internal/middleware"
	"curriculum/internal/router"
	"curriculum/internal/storage"
	"curriculum/internal/store"
)

// ServeCommand runs the HTTP service until SIGINT or SIGTERM.
type ServeCommand struct{}

// backend is the catalog source selected by CATALOG_SOURCE together with
// the optional publishing side of it.
type backend struct {
	source    catalog.Source
	publisher handlers.Publisher
	history   handlers.Historian
	close     func()
}

// Run loads configuration, connects to services, sets up routing and
// serves with graceful shutdown.
func (c *ServeCommand) Run(app *App) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	app.SetupLogger(cfg.IsDev())

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"source", cfg.CatalogSource,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.close()

	// Valkey response cache (optional, the service works without it).
	var responseCache *cache.ResponseCache
	if cfg.CacheEnabled {
		var valkeyClient *redis.Client
		valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			return fmt.Errorf("connect valkey: %w", err)
		}
		defer valkeyClient.Close()
		responseCache = cache.NewResponseCache(valkeyClient, cfg.CacheTTL)
	}

	holder := catalog.NewHolder(nil)
	reloader := catalog.NewReloader(holder, be.source)
	reloader.OnSwap(func(ctx context.Context, _, _ *catalog.Catalog) {
		responseCache.InvalidateAll(ctx)
	})

	if _, _, err := reloader.Reload(ctx); err != nil {
		return fmt.Errorf("initial catalog load: %w", err)
	}

	if cfg.CatalogReloadInterval > 0 {
		slog.Info("periodic catalog reload enabled", "interval", cfg.CatalogReloadInterval.String())
		go reloader.Watch(ctx, cfg.CatalogReloadInterval)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	go limiter.Run(ctx, 5*time.Minute)
	if len(cfg.TrustedProxies) > 0 {
		slog.Info("forwarding headers trusted", "proxies", len(cfg.TrustedProxies))
	}

	var admin *handlers.Admin
	if cfg.AdminTokenHash != "" {
		admin = handlers.NewAdmin(reloader, be.publisher, be.history)
	} else {
		slog.Warn("ADMIN_TOKEN_HASH not set, admin endpoints disabled")
	}

	r := router.New(router.Options{
		Catalog:        handlers.NewCatalog(holder, responseCache),
		Admin:          admin,
		Limiter:        limiter,
		AdminTokenHash: cfg.AdminTokenHash,
		TrustedProxies: cfg.TrustedProxies,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// openBackend connects the configured catalog source.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.CatalogSource {
	case config.SourcePostgres:
		return openPostgres(ctx, cfg)

	case config.SourceS3:
		client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
		if err != nil {
			return nil, fmt.Errorf("init s3 storage: %w", err)
		}
		src := storage.ObjectSource{Client: client, Key: cfg.S3CatalogKey, Format: formatOrEmpty(cfg.CatalogFormat)}
		slog.Info("s3 catalog source", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket, "key", cfg.S3CatalogKey)
		return &backend{source: src, publisher: src, close: func() {}}, nil
	}

	slog.Info("file catalog source", "path", cfg.CatalogPath)
	return &backend{
		source: catalog.FileSource{Path: cfg.CatalogPath, Format: formatOrEmpty(cfg.CatalogFormat)},
		close:  func() {},
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (*backend, error) {
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*backend, error) {
		db.Close()
		return nil, err
	}

	if err := database.Migrate(db); err != nil {
		return fail(err)
	}

	// Seed the bundled catalog in development (no-op once a version exists).
	if cfg.IsDev() {
		if err := seedFromFile(ctx, db, cfg); err != nil {
			return fail(err)
		}
	}

	documents := store.NewDocumentStore(db)
	return &backend{
		source:    documents,
		publisher: documents,
		history:   documents,
		close:     func() { db.Close() },
	}, nil
}

func seedFromFile(ctx context.Context, db *sql.DB, cfg *config.Config) error {
	raw, err := catalog.FileSource{Path: cfg.CatalogPath, Format: formatOrEmpty(cfg.CatalogFormat)}.Fetch(ctx)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("no catalog file to seed from", "path", cfg.CatalogPath)
		return nil
	}
	if err != nil {
		return err
	}
	return database.Seed(ctx, db, raw)
}

// formatOrEmpty maps CATALOG_FORMAT to a Format. Config validation
// already rejected unknown values, so errors mean "detect".
func formatOrEmpty(s string) catalog.Format {
	f, err := catalog.ParseFormat(s)
	if err != nil {
		return ""
	}
	return f
}
