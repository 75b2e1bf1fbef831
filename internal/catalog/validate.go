// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"curriculum/internal/models"
	"curriculum/internal/slug"
)

// validate is shared; validator caches struct metadata and is safe for
// concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report paths with the document's field names rather than Go's.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	must(v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slug.Valid(fl.Field().String())
	}))
	must(v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// validateDocument runs the struct rules and the sibling uniqueness pass,
// collecting every problem.
func validateDocument(doc *models.Document) error {
	var problems []Problem

	if err := validate.Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate catalog: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, fieldProblem(fe))
		}
	}

	problems = append(problems, duplicateSlugs(doc)...)

	if len(problems) > 0 {
		return &SchemaError{Problems: problems}
	}
	return nil
}

// fieldProblem turns a validator failure into a document-relative problem.
func fieldProblem(fe validator.FieldError) Problem {
	// Namespace is "Document.tracks[0].slug"; drop the root type name.
	_, path, _ := strings.Cut(fe.Namespace(), ".")
	value := fmt.Sprint(fe.Value())

	switch fe.Tag() {
	case "notblank":
		return Problem{Path: path, Message: fe.Field() + " is required"}
	case "required":
		return Problem{Path: path, Message: fe.Field() + " is required"}
	case "slug":
		msg := fmt.Sprintf("slug %q must contain only lowercase letters, digits and single hyphens", value)
		if suggestion := slug.Generate(value); suggestion != "" && suggestion != value {
			msg += fmt.Sprintf(" (try %q)", suggestion)
		}
		return Problem{Path: path, Slug: value, Message: msg}
	}
	return Problem{Path: path, Message: fmt.Sprintf("failed %q rule", fe.Tag())}
}

// duplicateSlugs checks that slugs are unique among siblings. Empty slugs
// are skipped; the struct rules already reported them.
func duplicateSlugs(doc *models.Document) []Problem {
	var problems []Problem

	seenTracks := make(map[models.TrackSlug]int, len(doc.Tracks))
	for ti, t := range doc.Tracks {
		tpath := fmt.Sprintf("tracks[%d]", ti)
		if first, dup := seenTracks[t.Slug]; dup && t.Slug != "" {
			problems = append(problems, duplicate(tpath, string(t.Slug), "track", fmt.Sprintf("tracks[%d]", first)))
		} else if !dup {
			seenTracks[t.Slug] = ti
		}

		seenUnits := make(map[models.UnitSlug]int, len(t.Units))
		for ui, u := range t.Units {
			upath := fmt.Sprintf("%s.units[%d]", tpath, ui)
			if first, dup := seenUnits[u.Slug]; dup && u.Slug != "" {
				problems = append(problems, duplicate(upath, string(u.Slug), "unit", fmt.Sprintf("%s.units[%d]", tpath, first)))
			} else if !dup {
				seenUnits[u.Slug] = ui
			}

			seenLessons := make(map[models.LessonSlug]int, len(u.Lessons))
			for li, l := range u.Lessons {
				lpath := fmt.Sprintf("%s.lessons[%d]", upath, li)
				if first, dup := seenLessons[l.Slug]; dup && l.Slug != "" {
					problems = append(problems, duplicate(lpath, string(l.Slug), "lesson", fmt.Sprintf("%s.lessons[%d]", upath, first)))
				} else if !dup {
					seenLessons[l.Slug] = li
				}
			}
		}
	}
	return problems
}

func duplicate(path, value, kind, first string) Problem {
	return Problem{
		Path:    path + ".slug",
		Slug:    value,
		Message: fmt.Sprintf("duplicate %s slug %q (first used at %s)", kind, value, first),
	}
}
