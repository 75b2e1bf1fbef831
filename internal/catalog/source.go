// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies the encoding of a catalog document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported catalog format %q", s)
}

// DetectFormat picks a format from a file extension, defaulting to JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// ContentType returns the HTTP media type for the format.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Raw is an undecoded catalog document and where it came from.
type Raw struct {
	Data   []byte
	Format Format
	Origin string
}

// Source fetches the current catalog document.
type Source interface {
	Fetch(ctx context.Context) (Raw, error)
}

// FileSource reads the document from the local filesystem. An empty
// Format is detected from the file extension.
type FileSource struct {
	Path   string
	Format Format
}

func (s FileSource) Fetch(_ context.Context) (Raw, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Raw{}, fmt.Errorf("read catalog file: %w", err)
	}
	format := s.Format
	if format == "" {
		format = DetectFormat(s.Path)
	}
	return Raw{Data: data, Format: format, Origin: "file:" + s.Path}, nil
}
