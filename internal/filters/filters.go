// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/gifctl/internal/attrs"
)

// exprRe splits key, operator and target. The operator is one of
// = ^ ~ < > @ / and may be negated with a leading !.
var exprRe = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// Filter is one parsed --filter expression.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a --filter spec. Malformed expressions are logged and
// dropped. The delimiter defaults to "," and can be changed with
// GIFCTL_FILTER_DELIM.
func BuildFilters(spec string) []Filter {
	if spec == "" {
		return nil
	}

	delim := ","
	if d, ok := os.LookupEnv("GIFCTL_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	//nolint:prealloc
	var filters []Filter
	for _, expr := range strings.Split(spec, delim) {
		m := exprRe.FindStringSubmatch(expr)
		if m == nil || m[1] == "" {
			log.Errorf("invalid filter: %s", expr)
			continue
		}

		op, negate := strings.CutPrefix(m[2], "!")
		filters = append(filters, Filter{
			Key:     m[1],
			Negate:  negate,
			Operand: op,
			Target:  m[3],
		})
	}

	return filters
}

// Match reports whether v satisfies the filter. A missing or null value never
// matches, negated or not.
func (f Filter) Match(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null:
		return false
	case gjson.Number:
		return f.matchNumber(v.Num)
	case gjson.String:
		return f.matchString(v.Str)
	case gjson.True, gjson.False:
		return f.matchString(v.String())
	default:
		return f.matchMember(v)
	}
}

func (f Filter) result(ok bool) bool {
	return ok != f.Negate
}

func (f Filter) matchString(s string) bool {
	switch f.Operand {
	case "=":
		return f.result(s == f.Target)
	case "~":
		return f.result(strings.EqualFold(s, f.Target))
	case "^":
		return f.result(strings.HasPrefix(s, f.Target))
	case ">":
		return f.result(s > f.Target)
	case "<":
		return f.result(s < f.Target)
	case "@":
		return f.result(strings.Contains(s, f.Target))
	case "/":
		re, err := regexp.Compile(f.Target)
		if err != nil {
			log.Errorf("invalid regex: %s", f.Target)
			return false
		}
		return f.result(re.MatchString(s))
	}
	log.Errorf("unsupported filter operand: %s", f.Operand)
	return false
}

func (f Filter) matchNumber(n float64) bool {
	target, err := strconv.ParseFloat(strings.TrimSpace(f.Target), 64)
	if err != nil {
		// Not a numeric target, e.g. id^123 against a numeric id.
		return f.matchString(strconv.FormatFloat(n, 'f', -1, 64))
	}

	switch f.Operand {
	case "=":
		return f.result(n == target)
	case ">":
		return f.result(n > target)
	case "<":
		return f.result(n < target)
	}
	return f.matchString(strconv.FormatFloat(n, 'f', -1, 64))
}

// matchMember handles arrays and objects. Only @ is meaningful: an array
// element or object key equal to the target.
func (f Filter) matchMember(v gjson.Result) bool {
	if f.Operand != "@" {
		log.Errorf("operand %s does not apply to %s", f.Operand, v.Raw)
		return false
	}

	if v.IsArray() {
		for _, e := range v.Array() {
			if e.String() == f.Target {
				return f.result(true)
			}
		}
		return f.result(false)
	}

	_, found := v.Map()[f.Target]
	return f.result(found)
}

// FilterDataset keeps the rows of candidates that satisfy every filter in
// spec and projects each onto the attrs, keyed by OutputKey. Filter keys name
// attrs by their OutputKey; an unknown key is reported and ignored.
// Transforms are left to the caller.
func FilterDataset(candidates gjson.Result, al attrs.AttrList, spec string) []map[string]any {
	filters := BuildFilters(spec)
	paths := resolve(filters, al)

	//nolint:prealloc
	var rows []map[string]any
	for _, candidate := range candidates.Array() {
		if !matchAll(candidate, filters, paths) {
			continue
		}

		row := make(map[string]any, len(al))
		for _, a := range al {
			if a.Key == "*" {
				continue
			}
			row[a.OutputKey] = candidate.Get(a.Key).Value()
		}
		rows = append(rows, row)
	}

	return rows
}

// resolve maps each filter to the gjson path of the attr it names. Filters
// with no matching attr get an empty path.
func resolve(filters []Filter, al attrs.AttrList) []string {
	paths := make([]string, len(filters))
	for i, f := range filters {
		for _, a := range al {
			if a.OutputKey == f.Key {
				paths[i] = a.Key
				break
			}
		}
		if paths[i] == "" {
			msg := fmt.Sprintf("filter key not found: %s", f.Key)
			log.Error(msg)
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
		}
	}
	return paths
}

func matchAll(candidate gjson.Result, filters []Filter, paths []string) bool {
	for i, f := range filters {
		if paths[i] == "" {
			continue
		}
		if !f.Match(candidate.Get(paths[i])) {
			return false
		}
	}
	return true
}
