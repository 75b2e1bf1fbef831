// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CatalogDocument is one published version of the catalog source as
// stored in PostgreSQL. Body is kept exactly as submitted.
type CatalogDocument struct {
	ID        uuid.UUID `json:"id,omitzero"`
	Version   int       `json:"version,omitempty"`
	Format    string    `json:"format"`
	Body      string    `json:"-"`
	Checksum  string    `json:"checksum"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}
