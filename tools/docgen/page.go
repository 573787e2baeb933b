// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"regexp"
	"strings"
)

var h1Re = regexp.MustCompile(`(?m)^#\s+(.+)$`)

type example struct {
	Desc string
	Cmd  string
}

// page is what a tldr page needs from a command doc.
type page struct {
	Title    string
	Short    string
	Examples []example
}

func parsePage(md string) page {
	p := page{Examples: quickExamples(md)}
	if m := h1Re.FindStringSubmatch(md); m != nil {
		p.Title = strings.TrimSpace(m[1])
	}
	p.Short = firstParagraph(section(md, "short description"))
	if p.Short == "" && p.Title != "" {
		p.Short = p.Title + "."
	}
	return p
}

// section returns the text following the header line containing name, or
// "" if there is none.
func section(md, name string) string {
	idx := strings.Index(strings.ToLower(md), name)
	if idx < 0 {
		return ""
	}
	rest := md[idx:]
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		return rest[nl+1:]
	}
	return ""
}

func firstParagraph(s string) string {
	var words []string
	for _, ln := range strings.Split(s, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			if len(words) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(ln, "#") || strings.HasSuffix(ln, ":") {
			break
		}
		words = append(words, ln)
	}
	return strings.Join(words, " ")
}

// quickExamples reads the first fenced block after "Quick examples". A
// comment line describes the command line that follows it.
func quickExamples(md string) []example {
	rest := section(md, "quick examples")
	start := strings.Index(rest, "```")
	if start < 0 {
		return nil
	}
	rest = rest[start+3:]
	// Drop the info string, if any.
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return nil
	}

	var exs []example
	desc := ""
	for _, ln := range strings.Split(rest[:end], "\n") {
		ln = strings.TrimSpace(ln)
		switch {
		case ln == "":
		case strings.HasPrefix(ln, "#"):
			desc = strings.TrimSpace(strings.TrimLeft(ln, "#"))
		default:
			if desc == "" {
				desc = "Example"
			}
			exs = append(exs, example{Desc: desc, Cmd: strings.Join(strings.Fields(ln), " ")})
			desc = ""
		}
	}
	return exs
}

func (p page) tldr(cmd string) string {
	var b strings.Builder
	b.WriteString("# " + binary + "-" + cmd + "\n\n")
	switch {
	case p.Short != "":
		b.WriteString("> " + p.Short + "\n")
	default:
		b.WriteString("> " + binary + " " + cmd + "\n")
	}
	b.WriteString("> More information: https://github.com/staranto/gifctl.\n\n")

	exs := p.Examples
	if len(exs) == 0 {
		exs = []example{{Desc: "Show help for the command", Cmd: binary + " " + cmd + " --help"}}
	}
	for i, ex := range exs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + ex.Desc + ":\n\n`" + ex.Cmd + "`\n")
	}
	return b.String()
}
