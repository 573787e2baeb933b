// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package giphy turns trending and keyword-search requests into GIPHY API
// queries and maps the responses into Items. It never retries and never
// caches; callers decide both.
package giphy
