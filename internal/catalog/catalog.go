// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"slices"

	"curriculum/internal/models"
)

// Catalog is an immutable, validated course tree with slug indexes. It is
// safe for concurrent readers; every method returns copies.
type Catalog struct {
	doc     models.Document
	version string

	tracks  map[models.TrackSlug]int
	units   []map[models.UnitSlug]int     // per track
	lessons [][]map[models.LessonSlug]int // per track, per unit
}

// ListOptions controls lesson listings.
type ListOptions struct {
	IncludeHidden bool
}

func build(doc models.Document) (*Catalog, error) {
	version, err := checksum(doc)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		doc:     doc,
		version: version,
		tracks:  make(map[models.TrackSlug]int, len(doc.Tracks)),
		units:   make([]map[models.UnitSlug]int, len(doc.Tracks)),
		lessons: make([][]map[models.LessonSlug]int, len(doc.Tracks)),
	}
	for ti, t := range doc.Tracks {
		c.tracks[t.Slug] = ti
		c.units[ti] = make(map[models.UnitSlug]int, len(t.Units))
		c.lessons[ti] = make([]map[models.LessonSlug]int, len(t.Units))
		for ui, u := range t.Units {
			c.units[ti][u.Slug] = ui
			c.lessons[ti][ui] = make(map[models.LessonSlug]int, len(u.Lessons))
			for li, l := range u.Lessons {
				c.lessons[ti][ui][l.Slug] = li
			}
		}
	}
	return c, nil
}

// Version identifies the catalog content: the SHA-256 of its canonical
// JSON encoding. Equal documents have equal versions.
func (c *Catalog) Version() string {
	return c.version
}

// ListTracks returns every track in authored order.
func (c *Catalog) ListTracks() []models.TrackSummary {
	out := make([]models.TrackSummary, 0, len(c.doc.Tracks))
	for _, t := range c.doc.Tracks {
		out = append(out, models.TrackSummary{Title: t.Title, Slug: t.Slug, UnitCount: len(t.Units)})
	}
	return out
}

// ListUnits returns the units of a track in authored order.
func (c *Catalog) ListUnits(track models.TrackSlug) ([]models.UnitSummary, error) {
	ti, err := c.trackIndex(track)
	if err != nil {
		return nil, err
	}
	units := c.doc.Tracks[ti].Units
	out := make([]models.UnitSummary, 0, len(units))
	for _, u := range units {
		out = append(out, models.UnitSummary{Title: u.Title, Slug: u.Slug, LessonCount: len(u.Lessons)})
	}
	return out, nil
}

// ListLessons returns the lessons of a unit in authored order. Hidden
// lessons are left out unless opts.IncludeHidden is set.
func (c *Catalog) ListLessons(track models.TrackSlug, unit models.UnitSlug, opts ListOptions) ([]models.LessonSummary, error) {
	ti, ui, err := c.unitIndex(track, unit)
	if err != nil {
		return nil, err
	}
	lessons := c.doc.Tracks[ti].Units[ui].Lessons
	out := make([]models.LessonSummary, 0, len(lessons))
	for _, l := range lessons {
		if l.IsHidden() && !opts.IncludeHidden {
			continue
		}
		out = append(out, models.LessonSummary{
			Title:  l.Title,
			Slug:   l.Slug,
			Hidden: l.IsHidden(),
			HasLab: l.Lab.Present(),
		})
	}
	return out, nil
}

// GetLesson returns the full lesson record. Hidden lessons are returned
// too; the flag only governs listings.
func (c *Catalog) GetLesson(track models.TrackSlug, unit models.UnitSlug, lesson models.LessonSlug) (models.Lesson, error) {
	ti, ui, err := c.unitIndex(track, unit)
	if err != nil {
		return models.Lesson{}, err
	}
	li, ok := c.lessons[ti][ui][lesson]
	if !ok {
		return models.Lesson{}, &NotFoundError{Kind: "lesson", Path: string(track) + "/" + string(unit) + "/" + string(lesson)}
	}
	return c.doc.Tracks[ti].Units[ui].Lessons[li], nil
}

// Track returns a copy of a full track.
func (c *Catalog) Track(track models.TrackSlug) (models.Track, error) {
	ti, err := c.trackIndex(track)
	if err != nil {
		return models.Track{}, err
	}
	return cloneTrack(c.doc.Tracks[ti]), nil
}

// Document returns a deep copy of the whole tree, suitable for encoding.
func (c *Catalog) Document() models.Document {
	return cloneDocument(c.doc)
}

// Stats counts tracks, units, lessons, hidden lessons and labs.
func (c *Catalog) Stats() models.Stats {
	s := models.Stats{Tracks: len(c.doc.Tracks)}
	for _, t := range c.doc.Tracks {
		s.Units += len(t.Units)
		for _, u := range t.Units {
			s.Lessons += len(u.Lessons)
			for _, l := range u.Lessons {
				if l.IsHidden() {
					s.HiddenLessons++
				}
				if l.Lab.Present() {
					s.Labs++
				}
			}
		}
	}
	return s
}

func (c *Catalog) trackIndex(track models.TrackSlug) (int, error) {
	ti, ok := c.tracks[track]
	if !ok {
		return 0, &NotFoundError{Kind: "track", Path: string(track)}
	}
	return ti, nil
}

func (c *Catalog) unitIndex(track models.TrackSlug, unit models.UnitSlug) (int, int, error) {
	ti, err := c.trackIndex(track)
	if err != nil {
		return 0, 0, err
	}
	ui, ok := c.units[ti][unit]
	if !ok {
		return 0, 0, &NotFoundError{Kind: "unit", Path: string(track) + "/" + string(unit)}
	}
	return ti, ui, nil
}

func cloneDocument(doc models.Document) models.Document {
	out := models.Document{Tracks: make([]models.Track, len(doc.Tracks))}
	for i, t := range doc.Tracks {
		out.Tracks[i] = cloneTrack(t)
	}
	return out
}

func cloneTrack(t models.Track) models.Track {
	if t.Units != nil {
		units := make([]models.Unit, len(t.Units))
		for i, u := range t.Units {
			u.Lessons = slices.Clone(u.Lessons)
			units[i] = u
		}
		t.Units = units
	}
	return t
}
