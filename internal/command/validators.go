// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
)

var (
	validOutputFlagValues = []string{"text", "json", "raw", "yaml"}
	validStoreFlagValues  = []string{"file", "s3", "none"}
)

// GlobalFlagsValidator runs before every query command. --sort takes free
// text so it is not covered by a flag validator of its own.
func GlobalFlagsValidator(_ context.Context, c *cli.Command) error {
	if err := JammedFlagValidator(c.String("sort")); err != nil {
		return fmt.Errorf("--sort %w", err)
	}
	return nil
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if s, _ := value.(string); strings.HasPrefix(s, "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func OutputValidator(value any) error {
	if s, _ := value.(string); !slices.Contains(validOutputFlagValues, s) {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

func StoreValidator(value any) error {
	if s, _ := value.(string); s != "" && !slices.Contains(validStoreFlagValues, s) {
		return fmt.Errorf("must be one of %v", validStoreFlagValues)
	}
	return nil
}

func PageValidator(value any) error {
	if n, ok := value.(int); !ok || n < 0 {
		return errors.New("must be zero or greater")
	}
	return nil
}

func PositiveDurationValidator(value any) error {
	if d, ok := value.(time.Duration); !ok || d <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}
