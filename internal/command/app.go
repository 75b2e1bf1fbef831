// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package command implements the curriculum command line: the HTTP server
// and the offline tools that validate, convert, list and publish catalog
// documents.
package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"curriculum/internal/catalog"
)

// CLI is the root command tree parsed by kong.
type CLI struct {
	Verbose bool `help:"Enable debug logging." short:"v"`

	Serve     *ServeCommand     `cmd:"" help:"Run the catalog HTTP service."`
	Validate  *ValidateCommand  `cmd:"" help:"Check catalog documents and report every problem."`
	Export    *ExportCommand    `cmd:"" help:"Re-encode a catalog document as JSON or YAML."`
	List      *ListCommand      `cmd:"" help:"Print tracks, units and lessons as a tree."`
	Publish   *PublishCommand   `cmd:"" help:"Validate a document and publish it as the next catalog version."`
	HashToken *HashTokenCommand `cmd:"" name:"hash-token" help:"Print the bcrypt hash to use as ADMIN_TOKEN_HASH."`
}

// Options returns the kong options shared by main and tests.
func Options() []kong.Option {
	return []kong.Option{
		kong.Name("curriculum"),
		kong.Description("Course catalog service and tools"),
		kong.UsageOnError(),
	}
}

// App carries process-wide settings into every subcommand's Run method.
type App struct {
	Verbose bool
	Stdout  io.Writer
}

// NewApp returns an App writing to the process's stdout.
func NewApp(verbose bool) *App {
	return &App{Verbose: verbose, Stdout: os.Stdout}
}

// SetupLogger installs the default slog text logger. debug lowers the
// level from info.
func (a *App) SetupLogger(debug bool) {
	level := slog.LevelInfo
	if debug || a.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Stdout, format, args...)
}

// readDocument loads a catalog document from disk. An empty format is
// detected from the file extension.
func readDocument(path, format string) (catalog.Raw, error) {
	src := catalog.FileSource{Path: path}
	if format != "" {
		f, err := catalog.ParseFormat(format)
		if err != nil {
			return catalog.Raw{}, err
		}
		src.Format = f
	}
	return src.Fetch(context.Background())
}
