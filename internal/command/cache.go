// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/staranto/gifctl/internal/attrs"
	"github.com/staranto/gifctl/internal/cacheutil"
	"github.com/staranto/gifctl/internal/config"
	"github.com/staranto/gifctl/internal/meta"
	"github.com/staranto/gifctl/internal/output"
	"github.com/staranto/gifctl/internal/trending"
)

// defaultCleanHours is used when cache.clean is not configured.
const defaultCleanHours = 24 * 7

// tierRow is one line of `gifctl cache status`.
type tierRow struct {
	Tier    string `json:"tier" yaml:"tier"`
	Present bool   `json:"present" yaml:"present"`
	Items   int    `json:"items" yaml:"items"`
	SavedAt string `json:"savedAt,omitempty" yaml:"savedAt,omitempty"`
	Age     string `json:"age,omitempty" yaml:"age,omitempty"`
	Fresh   bool   `json:"fresh" yaml:"fresh"`
	Note    string `json:"note,omitempty" yaml:"note,omitempty"`
}

func statusRows(st trending.Status, now time.Time) []tierRow {
	row := func(name string, ts trending.TierStatus) tierRow {
		r := tierRow{Tier: name, Present: ts.Present, Items: ts.Count, Fresh: ts.Fresh}
		if ts.Present {
			r.SavedAt = ts.SavedAt.Local().Format(time.RFC3339)
			r.Age = humanize.RelTime(ts.SavedAt, now, "ago", "from now")
		}
		if ts.Err != nil {
			r.Note = ts.Err.Error()
		}
		return r
	}
	return []tierRow{row("memory", st.Memory), row("durable", st.Durable)}
}

// CacheStatusAction reports what each tier of the trending cache holds.
// The memory tier only lives as long as the process, so from the CLI it is
// normally empty.
func CacheStatusAction(ctx context.Context, cmd *cli.Command) error {
	svc, s, err := NewTrendingService(ctx, cmd, config.WithOfflineKey())
	if err != nil {
		return err
	}

	st := svc.Status(ctx)
	rows := statusRows(st, time.Now())
	w := Writer(cmd)

	switch cmd.String("output") {
	case "json":
		b, err := json.Marshal(rows)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(rows)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}

	fmt.Fprintf(w, "store: %s  ttl: %s  policy: %s\n", s.Store, st.TTL, st.Policy)

	var al attrs.AttrList
	if err := al.Set("tier,present,items,age,fresh,note"); err != nil {
		return err
	}
	table := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		table = append(table, map[string]any{
			"tier":    r.Tier,
			"present": r.Present,
			"items":   r.Items,
			"age":     r.Age,
			"fresh":   r.Fresh,
			"note":    r.Note,
		})
	}
	output.TableWriter(table, al, output.Options{Titles: true, Color: cmd.Bool("color")}, w)
	return nil
}

// CachePurgeAction removes cache files older than --hours, which defaults
// to cache.clean from the config file.
func CachePurgeAction(_ context.Context, cmd *cli.Command) error {
	hours := cmd.Int("hours")
	if !cmd.IsSet("hours") {
		hours, _ = config.GetInt("cache.clean", defaultCleanHours)
	}

	removed, err := cacheutil.Purge(hours)
	if err != nil {
		return err
	}

	dir, _ := cacheutil.Dir()
	fmt.Fprintf(Writer(cmd), "removed %s %s older than %d hours from %s\n",
		humanize.Comma(int64(removed)), plural(removed, "entry", "entries"), hours, dir)
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// CacheCommandBuilder constructs the "cache" command and its subcommands.
func CacheCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "cache",
		Usage:     "inspect or clean the local cache",
		UsageText: "gifctl cache status|purge [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "show the age and freshness of the cached trending list",
				Metadata: map[string]any{
					"meta": meta,
				},
				Flags: []cli.Flag{
					NewAPIKeyFlag(),
					NewEndpointFlag(),
					NewStoreFlag(),
					NewTTLFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "output format (text, json or yaml)",
						Value:   "text",
						Validator: func(value string) error {
							return FlagValidators(value, OutputValidator)
						},
					},
					&cli.BoolFlag{
						Name:    "color",
						Aliases: []string{"c"},
						Usage:   "enable colored text output",
					},
				},
				Action: CacheStatusAction,
			},
			{
				Name:  "purge",
				Usage: "remove cache files older than a number of hours",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "hours",
						Usage: "age in hours; 0 disables purging (default: cache.clean or 168)",
					},
				},
				Action: CachePurgeAction,
			},
		},
	}
}
