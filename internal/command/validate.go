// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package command

import (
	"errors"
	"fmt"

	"curriculum/internal/catalog"
)

// ValidateCommand checks one or more documents and prints every problem.
type ValidateCommand struct {
	Files  []string `arg:"" name:"file" help:"Catalog documents to check."`
	Format string   `help:"Document format (json or yaml); detected from the extension when empty."`
}

// Run validates each file and fails if any of them is invalid.
func (c *ValidateCommand) Run(app *App) error {
	invalid := 0
	for _, path := range c.Files {
		raw, err := readDocument(path, c.Format)
		if err != nil {
			return err
		}

		cat, err := catalog.Parse(raw.Data, raw.Format)
		var schemaErr *catalog.SchemaError
		switch {
		case errors.As(err, &schemaErr):
			invalid++
			app.printf("%s: %d problem(s)\n", path, len(schemaErr.Problems))
			for _, p := range schemaErr.Problems {
				app.printf("  %s\n", p)
			}
		case err != nil:
			return fmt.Errorf("%s: %w", path, err)
		default:
			stats := cat.Stats()
			app.printf("%s: ok (%d tracks, %d units, %d lessons, version %s)\n",
				path, stats.Tracks, stats.Units, stats.Lessons, shortVersion(cat.Version()))
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d document(s) invalid", invalid, len(c.Files))
	}
	return nil
}

func shortVersion(v string) string {
	if len(v) > 12 {
		return v[:12]
	}
	return v
}
