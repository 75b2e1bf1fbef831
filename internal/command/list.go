// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package command

import (
	"fmt"

	"github.com/ddddddO/gtree"

	"curriculum/internal/catalog"
	"curriculum/internal/models"
)

// ListCommand prints the catalog, one track, or one unit as a tree.
type ListCommand struct {
	File   string `arg:"" help:"Catalog document to read." type:"existingfile"`
	Track  string `arg:"" optional:"" help:"Only this track."`
	Unit   string `arg:"" optional:"" help:"Only this unit of the track."`
	Hidden bool   `help:"Include hidden lessons."`
	Input  string `help:"Input format (json or yaml); detected from the extension when empty." name:"input-format"`
}

// Run loads the document and renders the requested subtree.
func (c *ListCommand) Run(app *App) error {
	raw, err := readDocument(c.File, c.Input)
	if err != nil {
		return err
	}
	cat, err := catalog.Parse(raw.Data, raw.Format)
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}

	opts := catalog.ListOptions{IncludeHidden: c.Hidden}
	var root *gtree.Node
	switch {
	case c.Unit != "":
		root, err = c.unitTree(cat, opts)
	case c.Track != "":
		root, err = c.trackTree(cat, opts)
	default:
		root = gtree.NewRoot("catalog")
		for _, t := range cat.ListTracks() {
			if err := addTrack(root.Add(trackLabel(t)), cat, t.Slug, opts); err != nil {
				return err
			}
		}
	}
	if err != nil {
		return err
	}
	return gtree.OutputFromRoot(app.Stdout, root)
}

func (c *ListCommand) trackTree(cat *catalog.Catalog, opts catalog.ListOptions) (*gtree.Node, error) {
	slug := models.TrackSlug(c.Track)
	t, err := cat.Track(slug)
	if err != nil {
		return nil, err
	}
	root := gtree.NewRoot(trackLabel(models.TrackSummary{Title: t.Title, Slug: t.Slug, UnitCount: len(t.Units)}))
	return root, addTrack(root, cat, slug, opts)
}

func (c *ListCommand) unitTree(cat *catalog.Catalog, opts catalog.ListOptions) (*gtree.Node, error) {
	track := models.TrackSlug(c.Track)
	unit := models.UnitSlug(c.Unit)
	lessons, err := cat.ListLessons(track, unit, opts)
	if err != nil {
		return nil, err
	}
	root := gtree.NewRoot(c.Track + "/" + c.Unit)
	for _, l := range lessons {
		root.Add(lessonLabel(l))
	}
	return root, nil
}

func addTrack(node *gtree.Node, cat *catalog.Catalog, track models.TrackSlug, opts catalog.ListOptions) error {
	units, err := cat.ListUnits(track)
	if err != nil {
		return err
	}
	for _, u := range units {
		un := node.Add(fmt.Sprintf("%s (%s)", u.Title, u.Slug))
		lessons, err := cat.ListLessons(track, u.Slug, opts)
		if err != nil {
			return err
		}
		for _, l := range lessons {
			un.Add(lessonLabel(l))
		}
	}
	return nil
}

func trackLabel(t models.TrackSummary) string {
	return fmt.Sprintf("%s (%s)", t.Title, t.Slug)
}

func lessonLabel(l models.LessonSummary) string {
	label := fmt.Sprintf("%s (%s)", l.Title, l.Slug)
	if l.HasLab {
		label += " [lab]"
	}
	if l.Hidden {
		label += " [hidden]"
	}
	return label
}
