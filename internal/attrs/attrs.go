// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package attrs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Attr selects one value from each row of a JSON:API payload.
type Attr struct {
	// Key is the gjson path inside a row, e.g. "attributes.title" or "id".
	Key string
	// Include is false for attrs that only exist to filter or sort on.
	Include bool
	// OutputKey names the value in json/yaml output and titles the column in
	// text output.
	OutputKey string
	// TransformSpec is a comma separated list of transforms: l (lower),
	// u (upper), a length N to truncate to, or -N to elide the middle.
	TransformSpec string
}

var lengthRe = regexp.MustCompile(`-?\d+`)

// Transform applies TransformSpec to a value. Only strings are changed.
// When the spec holds competing transforms the rightmost one wins, so an
// attr's own spec overrides a global one that was prepended to it.
func (a *Attr) Transform(value any) any {
	s, ok := value.(string)
	if !ok || a.TransformSpec == "" {
		return value
	}

	lower := strings.LastIndexAny(a.TransformSpec, "lL")
	upper := strings.LastIndexAny(a.TransformSpec, "uU")
	switch {
	case lower > upper:
		s = strings.ToLower(s)
	case upper > lower:
		s = strings.ToUpper(s)
	}

	if m := lengthRe.FindAllString(a.TransformSpec, -1); len(m) > 0 {
		n, _ := strconv.Atoi(m[len(m)-1])
		s = clip(s, n)
	}

	return s
}

// clip shortens s to n runes. A negative n keeps both ends and joins them
// with "..".
func clip(s string, n int) string {
	r := []rune(s)
	width := n
	if width < 0 {
		width = -width
	}
	if len(r) <= width {
		return s
	}
	if n >= 0 {
		return string(r[:n])
	}
	side := width/2 - 1
	if side < 1 {
		return string(r[:width])
	}
	return string(r[:side]) + ".." + string(r[len(r)-side:])
}

// AttrList is the parsed form of --attrs.
type AttrList []Attr

// String renders the list back into key:output:transform specs.
func (al *AttrList) String() string {
	parts := make([]string, 0, len(*al))
	for _, a := range *al {
		parts = append(parts, fmt.Sprintf("%s:%s:%s", a.Key, a.OutputKey, a.TransformSpec))
	}
	return strings.Join(parts, ",")
}

// Set parses a comma separated list of key[:output[:transform]] specs and
// merges them into the list. A leading ! hides the attr, a leading . reads
// from the row root instead of its attributes object, and * sets a global
// transform (see SetGlobalTransformSpec). Specs naming an attr already in the
// list update it in place.
func (al *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	for _, spec := range strings.Split(value, ",") {
		fields := strings.Split(spec, ":")

		attr := Attr{Include: true, Key: strings.TrimSpace(fields[0])}
		if rest, hidden := strings.CutPrefix(attr.Key, "!"); hidden {
			attr.Key = rest
			attr.Include = false
		}
		if attr.Key == "" {
			return fmt.Errorf("empty attribute in %q", spec)
		}
		if attr.Key == "*" {
			attr.Include = false
		}

		switch {
		case len(fields) == 1:
			segs := strings.Split(strings.TrimPrefix(attr.Key, "."), ".")
			attr.OutputKey = segs[len(segs)-1]
		case strings.TrimSpace(fields[1]) != "":
			attr.OutputKey = strings.TrimSpace(fields[1])
		default:
			attr.OutputKey = strings.TrimPrefix(attr.Key, ".")
		}

		if len(fields) > 2 {
			attr.TransformSpec = strings.TrimSpace(fields[2])
		}

		if i := al.index(attr.Key); i >= 0 {
			(*al)[i].Include = attr.Include
			(*al)[i].OutputKey = attr.OutputKey
			(*al)[i].TransformSpec = attr.TransformSpec
			continue
		}

		switch {
		case strings.HasPrefix(attr.Key, "."):
			attr.Key = attr.Key[1:]
		case attr.Key != "*":
			attr.Key = "attributes." + attr.Key
		}

		*al = append(*al, attr)
	}

	return nil
}

// index finds an existing attr by the key as typed on the command line, by
// its resolved path or by its output name.
func (al *AttrList) index(key string) int {
	bare := strings.TrimPrefix(key, ".")
	for i, a := range *al {
		if a.Key == key || a.Key == bare || a.Key == "attributes."+key || a.OutputKey == bare {
			return i
		}
	}
	return -1
}

// SetGlobalTransformSpec prepends the transform of a * attr, if any, to every
// attr in the list.
func (al *AttrList) SetGlobalTransformSpec() {
	var global string
	for _, a := range *al {
		if a.Key == "*" {
			global = a.TransformSpec
			break
		}
	}
	if global == "" {
		return
	}

	for i := range *al {
		if (*al)[i].Key == "*" {
			continue
		}
		(*al)[i].TransformSpec = global + "," + (*al)[i].TransformSpec
	}
}

// Type satisfies the flag.Value style interface.
func (al *AttrList) Type() string {
	return "list"
}
