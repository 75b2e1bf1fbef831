// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog loads, validates and serves the course catalog: an
// ordered tree of tracks, units and lessons that is immutable once built.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"curriculum/internal/models"
)

// Load fetches a document from src and parses it.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	raw, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(raw.Data, raw.Format)
}

// Parse decodes and validates a catalog document. Decoding is strict:
// unknown fields and type mismatches are reported as a *SchemaError just
// like missing titles, malformed slugs and duplicate siblings.
func Parse(data []byte, format Format) (*Catalog, error) {
	doc, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return New(doc)
}

// New validates doc and builds a catalog from it. The catalog keeps its
// own copy, so later changes to doc are not observed.
func New(doc models.Document) (*Catalog, error) {
	if err := validateDocument(&doc); err != nil {
		return nil, err
	}
	return build(normalize(cloneDocument(doc)))
}

// normalize replaces absent unit and lesson lists with empty ones so the
// encoded form does not depend on whether an empty list was authored.
func normalize(doc models.Document) models.Document {
	for ti := range doc.Tracks {
		if doc.Tracks[ti].Units == nil {
			doc.Tracks[ti].Units = []models.Unit{}
		}
		for ui := range doc.Tracks[ti].Units {
			if doc.Tracks[ti].Units[ui].Lessons == nil {
				doc.Tracks[ti].Units[ui].Lessons = []models.Lesson{}
			}
		}
	}
	return doc
}

// Decode parses a document without validating it.
func Decode(data []byte, format Format) (models.Document, error) {
	var doc models.Document

	switch format {
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return doc, decodeError(err)
		}
		if dec.More() {
			return doc, schemaError("", "unexpected content after the document")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return doc, decodeError(err)
		}
		var extra yaml.Node
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return doc, schemaError("", "unexpected content after the document")
		}
		if err := checkYAMLStrings(data); err != nil {
			return doc, err
		}
	default:
		return doc, fmt.Errorf("unsupported catalog format %q", format)
	}
	return doc, nil
}

func decodeError(err error) error {
	if errors.Is(err, io.EOF) {
		return schemaError("", "document is empty")
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return schemaError(typeErr.Field, fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value))
	}
	return schemaError("", err.Error())
}

// stringFields are the document keys whose values must be YAML strings.
// yaml.v3 would otherwise turn `slug: 123` or `lab: true` into text.
var stringFields = map[string]bool{"title": true, "slug": true, "lab": true}

// checkYAMLStrings reports every title, slug or lab given as a non-string
// scalar, so YAML rejects what JSON rejects as a type mismatch.
func checkYAMLStrings(data []byte) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return decodeError(err)
	}
	var problems []Problem
	var walk func(n *yaml.Node, path string)
	walk = func(n *yaml.Node, path string) {
		switch n.Kind {
		case yaml.DocumentNode:
			for _, c := range n.Content {
				walk(c, path)
			}
		case yaml.SequenceNode:
			for i, c := range n.Content {
				walk(c, fmt.Sprintf("%s[%d]", path, i))
			}
		case yaml.MappingNode:
			for i := 0; i+1 < len(n.Content); i += 2 {
				key, value := n.Content[i].Value, n.Content[i+1]
				field := key
				if path != "" {
					field = path + "." + key
				}
				if stringFields[key] && value.Kind == yaml.ScalarNode {
					switch tag := value.ShortTag(); tag {
					case "!!str", "!!null":
					default:
						problems = append(problems, Problem{Path: field, Message: "expected string, got " + yamlKind(tag)})
					}
					continue
				}
				walk(value, field)
			}
		}
	}
	walk(&root, "")
	if len(problems) > 0 {
		return &SchemaError{Problems: problems}
	}
	return nil
}

func yamlKind(tag string) string {
	switch tag {
	case "!!int", "!!float":
		return "number"
	case "!!bool":
		return "bool"
	}
	return strings.TrimPrefix(tag, "!!")
}
