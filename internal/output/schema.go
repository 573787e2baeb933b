// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/apex/log"
)

// Tag is a jsonapi struct tag as listed by --schema.
type Tag struct {
	Kind     string
	Name     string
	Encoding string
}

// NewTag parses a jsonapi tag value. Only primary and attr tags are kept;
// anything else yields the zero Tag. holder prefixes nested attr names.
func NewTag(holder string, s string) Tag {
	parts := strings.Split(s, ",")

	var tag Tag
	switch parts[0] {
	case "attr", "primary":
		tag.Kind = parts[0]
	default:
		return tag
	}

	if len(parts) > 1 {
		tag.Name = parts[1]
		if holder != "" {
			tag.Name = holder + "." + tag.Name
		}
	}
	if len(parts) > 2 {
		tag.Encoding = parts[2]
	}

	return tag
}

// Print renders the tag the way it would be typed into --attrs.
func (t Tag) Print() string {
	switch {
	case t.Name == "":
		return ""
	case t.Kind == "primary":
		// The primary tag names the resource type; the value lives at .id.
		return ".id (" + t.Name + ")"
	default:
		return t.Name
	}
}

// DumpSchema writes the attributes of typ that --attrs can address.
func DumpSchema(w io.Writer, typ reflect.Type) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	tags := DumpSchemaWalker("", typ, 0)
	if len(tags) == 0 {
		log.Debugf("no tags found for type: %s", typ.Name())
		return
	}

	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Kind == tags[j].Kind {
			return tags[i].Name < tags[j].Name
		}
		// primary before attr
		return tags[i].Kind > tags[j].Kind
	})

	fmt.Fprintln(w, "Schema for", typ.Name(), "--")
	for _, tag := range tags {
		fmt.Fprintln(w, tag.Print())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use --output=raw to see the full payload.")
}

const maxSchemaDepth = 1

// DumpSchemaWalker collects the jsonapi tags of typ, descending one level into
// struct valued attrs.
func DumpSchemaWalker(holder string, typ reflect.Type, depth int) []Tag {
	var tags []Tag

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		value, ok := field.Tag.Lookup("jsonapi")
		if !ok {
			continue
		}

		tag := NewTag(holder, value)
		if tag.Kind == "" {
			continue
		}
		tags = append(tags, tag)

		if tag.Kind != "attr" || depth >= maxSchemaDepth {
			continue
		}

		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct && ft.PkgPath() != "time" {
			tags = append(tags, DumpSchemaWalker(tag.Name, ft, depth+1)...)
		}
	}

	return tags
}
