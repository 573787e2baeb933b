// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package trending serves the trending list from the memory tier, then the
// durable tier, and only when both are missing or stale from a single
// coordinated remote fetch whose result is written through to both tiers.
package trending
