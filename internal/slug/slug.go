// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug validates and generates the URL-safe identifiers used to
// address tracks, units and lessons.
package slug

import (
	"regexp"
	"strings"
)

// Pattern is the canonical slug shape: lowercase letters and digits in
// hyphen-separated groups, with no leading, trailing or doubled hyphen.
const Pattern = `^[a-z0-9]+(?:-[a-z0-9]+)*$`

var (
	valid = regexp.MustCompile(Pattern)

	// nonAlphanumeric matches anything that isn't a letter, digit, space, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace      = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Valid reports whether s is a non-empty slug matching Pattern.
func Valid(s string) bool {
	return valid.MatchString(s)
}

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}
