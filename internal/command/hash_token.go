// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package command

import (
	"errors"
	"strings"

	"curriculum/internal/middleware"
)

// HashTokenCommand prints a bcrypt hash for an admin bearer token.
type HashTokenCommand struct {
	Token string `arg:"" help:"Bearer token the admin client will send."`
}

func (c *HashTokenCommand) Run(app *App) error {
	token := strings.TrimSpace(c.Token)
	if len(token) < 16 {
		return errors.New("token must be at least 16 characters")
	}
	hash, err := middleware.HashToken(token)
	if err != nil {
		return err
	}
	app.printf("%s\n", hash)
	return nil
}
