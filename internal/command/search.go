// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/gifctl/internal/giphy"
	"github.com/staranto/gifctl/internal/meta"
)

// SearchCommandAction is the action handler for the "search" subcommand. All
// positional args are joined into the keyword. Searches are never cached.
func SearchCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner{
		CommandName:  "search",
		DefaultAttrs: defaultItemAttrs,
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]giphy.Item, error) {
			keyword := strings.Join(cmd.Args().Slice(), " ")
			if strings.TrimSpace(keyword) == "" {
				return nil, errors.New("a search keyword is required")
			}

			s, err := SettingsFromCommand(cmd)
			if err != nil {
				return nil, err
			}
			return NewClient(s).Search(ctx, keyword, cmd.Int("page"))
		},
	}
	return runner.Run(ctx, cmd)
}

// SearchCommandBuilder constructs the cli.Command definition for the "search"
// command.
func SearchCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "search",
		Aliases:   []string{"sq"},
		Usage:     "search gifs by keyword",
		UsageText: `gifctl search <keyword> [options]`,
		Flags: []cli.Flag{
			NewPageFlag(),
		},
		Action: SearchCommandAction,
		Meta:   meta,
	}).Build()
}
