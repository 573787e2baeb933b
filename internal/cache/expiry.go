// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import "time"

// IsFresh is true iff now-savedAt < ttl. A record exactly ttl old is stale.
func IsFresh(savedAt, now time.Time, ttl time.Duration) bool {
	return now.Sub(savedAt) < ttl
}
