// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/gifctl/internal/browse"
	"github.com/staranto/gifctl/internal/giphy"
	"github.com/staranto/gifctl/internal/meta"
)

var errNotATerminal = errors.New("browse needs an interactive terminal; use trending or search instead")

// isTerminal is replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

// BrowseCommandAction runs the interactive browser over a search, or over
// the cached trending list when no keyword is given. The URL of the gif
// picked with enter is printed on exit.
func BrowseCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "browse") {
		return nil
	}
	if !isTerminal() {
		return errNotATerminal
	}

	title, pager, err := browsePager(ctx, cmd)
	if err != nil {
		return err
	}

	final, err := browse.Run(ctx, browse.New(ctx, title, pager), os.Stdin, os.Stderr)
	if err != nil {
		return err
	}
	if item, ok := final.Selected(); ok {
		fmt.Fprintln(Writer(cmd), item.ImageURL)
	}
	return nil
}

// browsePager picks what the browser pages through.
func browsePager(ctx context.Context, cmd *cli.Command) (string, browse.Pager, error) {
	keyword := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if keyword == "" {
		svc, _, err := NewTrendingService(ctx, cmd)
		if err != nil {
			return "", nil, err
		}
		return "Trending", browse.SinglePage(svc.Trending), nil
	}

	s, err := SettingsFromCommand(cmd)
	if err != nil {
		return "", nil, err
	}
	client := NewClient(s)
	return "Search: " + keyword, func(ctx context.Context, page int) ([]giphy.Item, error) {
		return client.Search(ctx, keyword, page)
	}, nil
}

// BrowseCommandBuilder constructs the cli.Command definition for "browse".
func BrowseCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Usage:     "interactive gif browser",
		UsageText: "gifctl browse [keyword] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			NewTLDRFlag(),
			NewAPIKeyFlag(),
			NewEndpointFlag(),
			NewStaleFlag("trending"),
			NewStoreFlag(),
			NewTTLFlag(),
		},
		Action: BrowseCommandAction,
	}
}
