// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/gifctl/internal/giphy"
	"github.com/staranto/gifctl/internal/meta"
)

// TrendingCommandAction is the action handler for the "trending" subcommand.
// The list comes from the cache tiers while fresh and from a single remote
// fetch otherwise; --refresh skips the tiers.
func TrendingCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner{
		CommandName:  "trending",
		DefaultAttrs: defaultItemAttrs,
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]giphy.Item, error) {
			svc, _, err := NewTrendingService(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if cmd.Bool("refresh") {
				return svc.Refresh(ctx)
			}
			return svc.Trending(ctx)
		},
	}
	return runner.Run(ctx, cmd)
}

// TrendingCommandBuilder constructs the cli.Command definition for the
// "trending" command.
func TrendingCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "trending",
		Aliases:   []string{"tq"},
		Usage:     "trending gifs query",
		UsageText: `gifctl trending [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "refresh",
				Aliases:     []string{"r"},
				Usage:       "ignore cached results and fetch now",
				HideDefault: true,
			},
			NewStaleFlag("trending"),
			NewStoreFlag(),
			NewTTLFlag(),
		},
		Action: TrendingCommandAction,
		Meta:   meta,
	}).Build()
}
