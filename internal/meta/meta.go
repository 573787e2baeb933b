// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package meta

import (
	"context"

	"github.com/staranto/gifctl/internal/config"
)

// Meta is the per-invocation state every command can see: the raw args, the
// config loaded for the subcommand's namespace and the root context.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
}

// Subcommand is the first argument after the binary, or "" when the user
// gave only flags.
func (m Meta) Subcommand() string {
	if len(m.Args) < 2 {
		return ""
	}
	return m.Args[1]
}
