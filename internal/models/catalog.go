// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// TrackSlug, UnitSlug and LessonSlug are distinct so a unit slug cannot be
// passed where a track slug is expected.
type (
	TrackSlug  string
	UnitSlug   string
	LessonSlug string
)

// Document is the authored catalog: an ordered list of tracks.
type Document struct {
	Tracks []Track `json:"tracks" yaml:"tracks" validate:"required,dive"`
}

// Track is a top-level curriculum grouping such as "dApp development".
type Track struct {
	Title string    `json:"title" yaml:"title" validate:"notblank"`
	Slug  TrackSlug `json:"slug" yaml:"slug" validate:"required,slug"`
	Units []Unit    `json:"units" yaml:"units" validate:"dive"`
}

// Unit groups related lessons within a track.
type Unit struct {
	Title   string   `json:"title" yaml:"title" validate:"notblank"`
	Slug    UnitSlug `json:"slug" yaml:"slug" validate:"required,slug"`
	Lessons []Lesson `json:"lessons" yaml:"lessons" validate:"dive"`
}

// Lesson is the smallest content unit. Lab is an optional free-text
// exercise description; Hidden keeps the lesson out of default listings.
type Lesson struct {
	Title  string           `json:"title" yaml:"title" validate:"notblank"`
	Slug   LessonSlug       `json:"slug" yaml:"slug" validate:"required,slug"`
	Lab    Optional[string] `json:"lab,omitzero" yaml:"lab,omitempty" validate:"-"`
	Hidden Optional[bool]   `json:"hidden,omitzero" yaml:"hidden,omitempty" validate:"-"`
}

// IsHidden reports whether the lesson is excluded from default listings.
func (l Lesson) IsHidden() bool {
	return l.Hidden.Or(false)
}

// TrackSummary is the listing view of a track.
type TrackSummary struct {
	Title     string    `json:"title" yaml:"title"`
	Slug      TrackSlug `json:"slug" yaml:"slug"`
	UnitCount int       `json:"unit_count" yaml:"unit_count"`
}

// UnitSummary is the listing view of a unit.
type UnitSummary struct {
	Title       string   `json:"title" yaml:"title"`
	Slug        UnitSlug `json:"slug" yaml:"slug"`
	LessonCount int      `json:"lesson_count" yaml:"lesson_count"`
}

// LessonSummary is the listing view of a lesson.
type LessonSummary struct {
	Title  string     `json:"title" yaml:"title"`
	Slug   LessonSlug `json:"slug" yaml:"slug"`
	Hidden bool       `json:"hidden" yaml:"hidden"`
	HasLab bool       `json:"has_lab" yaml:"has_lab"`
}

// Stats counts the nodes of a loaded catalog.
type Stats struct {
	Tracks        int `json:"tracks"`
	Units         int `json:"units"`
	Lessons       int `json:"lessons"`
	HiddenLessons int `json:"hidden_lessons"`
	Labs          int `json:"labs"`
}
