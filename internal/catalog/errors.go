// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound matches every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// Problem is a single defect found while loading a catalog document.
type Problem struct {
	Path    string `json:"path,omitempty"`
	Slug    string `json:"slug,omitempty"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	if p.Path == "" {
		return p.Message
	}
	return p.Path + ": " + p.Message
}

// SchemaError reports a malformed or inconsistent catalog document. It is
// returned at load time and lists every problem found, not just the first.
type SchemaError struct {
	Problems []Problem
}

func (e *SchemaError) Error() string {
	switch len(e.Problems) {
	case 0:
		return "catalog schema: invalid document"
	case 1:
		return "catalog schema: " + e.Problems[0].String()
	}
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return fmt.Sprintf("catalog schema: %d problems: %s", len(e.Problems), strings.Join(parts, "; "))
}

func schemaError(path, message string) *SchemaError {
	return &SchemaError{Problems: []Problem{{Path: path, Message: message}}}
}

// NotFoundError reports a slug that does not resolve at its nesting level.
type NotFoundError struct {
	Kind string // "track", "unit" or "lesson"
	Path string // e.g. "dapp-development/introduction-to-cryptography"
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
