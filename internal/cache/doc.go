// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache holds the tiered caching building blocks: time-stamped
// records, the freshness rule, a single-slot memory tier, a durable tier over
// any byte slot, and a per-key single-flight coordinator for the remote call.
package cache
