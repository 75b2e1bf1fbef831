// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package command

import (
	"fmt"
	"os"

	"curriculum/internal/catalog"
)

// ExportCommand loads a document and writes it back in canonical form.
type ExportCommand struct {
	File   string `arg:"" help:"Catalog document to convert." type:"existingfile"`
	Format string `help:"Output format." enum:"json,yaml" default:"yaml" short:"f"`
	Input  string `help:"Input format (json or yaml); detected from the extension when empty." name:"input-format"`
	Output string `help:"Write to this file instead of stdout." short:"o" type:"path"`
}

// Run validates the input and encodes it in the requested format.
func (c *ExportCommand) Run(app *App) error {
	raw, err := readDocument(c.File, c.Input)
	if err != nil {
		return err
	}
	cat, err := catalog.Parse(raw.Data, raw.Format)
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}

	format, err := catalog.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	out, err := catalog.Encode(cat.Document(), format)
	if err != nil {
		return err
	}

	if c.Output == "" {
		_, err = app.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(c.Output, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.Output, err)
	}
	return nil
}
