// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"cmp"
	"slices"
	"strings"
)

type sortKey struct {
	name          string
	descending    bool
	caseSensitive bool
}

// parseSortSpec reads a --sort spec: comma separated output keys, each
// optionally prefixed with - (descending) and/or ! (case sensitive).
func parseSortSpec(spec string) []sortKey {
	var keys []sortKey
	for _, f := range strings.Split(spec, ",") {
		f = strings.TrimSpace(f)
		var k sortKey
		for len(f) > 0 && (f[0] == '-' || f[0] == '!') {
			if f[0] == '-' {
				k.descending = true
			} else {
				k.caseSensitive = true
			}
			f = f[1:]
		}
		if f == "" {
			continue
		}
		k.name = f
		keys = append(keys, k)
	}
	return keys
}

// SortDataset orders rows in place by spec. The sort is stable, so rows that
// tie on every key keep their incoming order. Missing values sort first.
func SortDataset(rows []map[string]any, spec string) {
	keys := parseSortSpec(spec)
	if len(keys) == 0 {
		return
	}

	slices.SortStableFunc(rows, func(a, b map[string]any) int {
		for _, k := range keys {
			c := compareValues(a[k.name], b[k.name], k.caseSensitive)
			if k.descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}

func compareValues(a, b any, caseSensitive bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	}

	x, y := InterfaceToString(a), InterfaceToString(b)
	if !caseSensitive {
		x, y = strings.ToLower(x), strings.ToLower(y)
	}
	return strings.Compare(x, y)
}
