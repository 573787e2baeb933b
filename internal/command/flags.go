// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/gifctl/internal/config"
)

func init() {
	cfg, _ = config.Load("")
}

var cfg config.Type

// NewSchemaFlag lists the attributes --attrs can address.
func NewSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "list the attributes available to --attrs",
		HideDefault: true,
	}
}

// NewTLDRFlag shows the tldr page; hidden when tldr is not installed.
func NewTLDRFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

// NewAPIKeyFlag overrides the API key from the environment or config file.
func NewAPIKeyFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "api-key",
		Usage: "GIPHY API key. Overrides GIPHY_API_KEY and api_key in the config file",
	}
}

// NewEndpointFlag points the client at a mirror or a local stub.
func NewEndpointFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:   "endpoint",
		Usage:  "base URL of the gifs API",
		Hidden: true,
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("GIFCTL_ENDPOINT"),
		),
	}
}

// NewGlobalFlags returns the output flags shared by every query command. ns
// is the command name; namespaced config values win over global ones.
func NewGlobalFlags(ns string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, json, yaml or raw)",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+".titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
	}
}

// NewStoreFlag selects the durable cache backend for the trending list.
func NewStoreFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "store",
		Usage: "durable cache backend (file, s3 or none)",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("GIFCTL_STORE"),
		),
		Validator: func(value string) error {
			return FlagValidators(value, StoreValidator)
		},
	}
}

// NewTTLFlag overrides how long a cached trending list stays fresh.
func NewTTLFlag() *cli.DurationFlag {
	return &cli.DurationFlag{
		Name:  "ttl",
		Usage: "how long a cached trending list is served without a refresh",
		Validator: func(value time.Duration) error {
			return FlagValidators(value, PositiveDurationValidator)
		},
	}
}

// NewStaleFlag turns on serving an expired list when a refresh fails.
func NewStaleFlag(ns string) *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "stale",
		Usage: "serve the last cached list if the refresh fails",
		Sources: cli.NewValueSourceChain(
			yaml.YAML(ns+".stale_fallback", altsrc.StringSourcer(cfg.Source)),
		),
		HideDefault: true,
	}
}

// NewPageFlag selects a zero-based result page.
func NewPageFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "page",
		Aliases: []string{"p"},
		Usage:   "zero-based result page",
		Validator: func(value int) error {
			return FlagValidators(value, PageValidator)
		},
	}
}

// pathHas reports whether target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
