// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsFresh(t *testing.T) {
	saved := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ttl := 600000 * time.Millisecond

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "just saved", now: saved, want: true},
		{name: "one ms before expiry", now: saved.Add(ttl - time.Millisecond), want: true},
		{name: "exactly ttl is stale", now: saved.Add(ttl), want: false},
		{name: "past ttl", now: saved.Add(ttl + time.Hour), want: false},
		{name: "clock behind savedAt", now: saved.Add(-time.Minute), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFresh(saved, tt.now, ttl))
			assert.Equal(t, tt.want, NewRecord("x", saved).Fresh(tt.now, ttl))
		})
	}
}

func TestIsFresh_ZeroTTL(t *testing.T) {
	now := time.Now()
	assert.False(t, IsFresh(now, now, 0))
}
