// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/gifctl/internal/cacheutil"
	"github.com/staranto/gifctl/internal/command"
	"github.com/staranto/gifctl/internal/config"
	mylog "github.com/staranto/gifctl/internal/log"
	"github.com/staranto/gifctl/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	// Best-effort: pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		// Non-fatal: print to stderr and continue.
		fmt.Fprintln(os.Stderr, err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		// Bad configuration is a setup problem, not a failed query.
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			return 1
		}
		return 2
	}

	return 0
}

// mangleArguments expands a named flag set from the config file. An arg of
// the form @name pulls in the list at <command>.sets.name; without one,
// <command>.sets.defaults is used if present. The set goes right after the
// command so flags typed on the command line still win.
func mangleArguments(args []string) []string {
	if strings.HasPrefix(args[1], "-") {
		return args
	}
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return args
		}
	}

	set := "defaults"
	rest := make([]string, 0, len(args)-2)
	for _, a := range args[2:] {
		if name, ok := strings.CutPrefix(a, "@"); ok && name != "" {
			set = name
			continue
		}
		rest = append(rest, a)
	}

	setArgs, _ := config.GetStringSlice(args[1]+".sets."+set, nil)

	out := []string{args[0], args[1]}
	for _, arg := range setArgs {
		out = append(out, strings.Fields(arg)...)
	}
	out = append(out, rest...)

	log.Debugf("set=%s, args=%v", set, out)
	return out
}
