// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		validator FlagValidatorType
		wantErr   bool
	}{
		{"output text", "text", OutputValidator, false},
		{"output raw", "raw", OutputValidator, false},
		{"output bad", "xml", OutputValidator, true},
		{"store s3", "s3", StoreValidator, false},
		{"store empty", "", StoreValidator, false},
		{"store bad", "redis", StoreValidator, true},
		{"page zero", 0, PageValidator, false},
		{"page negative", -1, PageValidator, true},
		{"ttl", time.Minute, PositiveDurationValidator, false},
		{"ttl zero", time.Duration(0), PositiveDurationValidator, true},
		{"jammed", "--output", JammedFlagValidator, true},
		{"not jammed", "-title", JammedFlagValidator, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FlagValidators(tt.value, tt.validator)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFlagValidators_StopsAtFirstError(t *testing.T) {
	calls := 0
	count := func(any) error { calls++; return nil }
	err := FlagValidators("xml", count, OutputValidator, count)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, "trending", canonicalName("tq"))
	assert.Equal(t, "search", canonicalName("sq"))
	assert.Equal(t, "cache", canonicalName("cache"))
}
