// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/gifctl/internal/config"
	"github.com/staranto/gifctl/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	// The arg[1] immediately following the binary (arg[0]) is the gifctl
	// subcommand and also represents the namespace key to be used when retrieving
	// config values. arg[1] could be -h/--help, so ignore it if it appears to be
	// a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = canonicalName(args[1])
	}

	// A missing config file is fine; everything has a default except the API
	// key, which can also come from the environment.
	cfg, _ := config.Load(ns)
	m := meta.Meta{
		Args:    args,
		Config:  cfg,
		Context: ctx,
	}

	app := &cli.Command{
		Name:  "gifctl",
		Usage: "GIPHY trending and search from the command line",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "gifctl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		TrendingCommandBuilder(app, m),
		SearchCommandBuilder(app, m),
		BrowseCommandBuilder(app, m),
		CacheCommandBuilder(app, m),
		CompletionCommandBuilder(app, m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sortFlags(cmd)
	}

	return app, nil
}

func sortFlags(cmd *cli.Command) {
	sort.Slice(cmd.Flags, func(i, j int) bool {
		return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
	})
	for _, sub := range cmd.Commands {
		sortFlags(sub)
	}
}

// canonicalName maps a command alias to the name used as its config
// namespace.
func canonicalName(name string) string {
	switch name {
	case "tq":
		return "trending"
	case "sq":
		return "search"
	}
	return name
}
