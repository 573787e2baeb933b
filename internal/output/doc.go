// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package output filters, sorts and renders JSON:API result sets as text
// tables, json, yaml or the raw payload.
package output
