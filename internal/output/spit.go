// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/staranto/gifctl/internal/attrs"
	"github.com/staranto/gifctl/internal/config"
	"github.com/staranto/gifctl/internal/filters"
)

// Options are the presentation flags shared by every query command.
type Options struct {
	Format string
	Filter string
	Sort   string
	Titles bool
	Color  bool
}

// OptionsFromCommand reads the global output flags off cmd.
func OptionsFromCommand(cmd *cli.Command) Options {
	return Options{
		Format: cmd.String("output"),
		Filter: cmd.String("filter"),
		Sort:   cmd.String("sort"),
		Titles: cmd.Bool("titles"),
		Color:  cmd.Bool("color"),
	}
}

// SliceDiceSpit filters, transforms, sorts and renders the rows found under
// parent in raw. With Format "raw" the payload is written untouched.
func SliceDiceSpit(raw []byte, al attrs.AttrList, opts Options, parent string, w io.Writer) error {
	if opts.Format == "raw" {
		_, err := w.Write(raw)
		return err
	}

	dataset := gjson.ParseBytes(raw)
	if parent != "" {
		dataset = dataset.Get(parent)
	}

	rows := filters.FilterDataset(dataset, al, opts.Filter)

	for _, row := range rows {
		for i := range al {
			if al[i].TransformSpec != "" {
				row[al[i].OutputKey] = al[i].Transform(row[al[i].OutputKey])
			}
		}
	}

	SortDataset(rows, opts.Sort)

	switch opts.Format {
	case "json":
		b, err := json.Marshal(visible(rows, al))
		if err != nil {
			return fmt.Errorf("failed to marshal json output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		b, err := yaml.Marshal(visible(rows, al))
		if err != nil {
			return fmt.Errorf("failed to marshal yaml output: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		TableWriter(rows, al, opts, w)
	}
	return nil
}

// visible drops the values of attrs that exist only to filter or sort on.
func visible(rows []map[string]any, al attrs.AttrList) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		v := make(map[string]any, len(row))
		for _, a := range al {
			if a.Include {
				v[a.OutputKey] = row[a.OutputKey]
			}
		}
		out = append(out, v)
	}
	return out
}

// TableWriter renders rows as a borderless lipgloss table.
func TableWriter(rows []map[string]any, al attrs.AttrList, opts Options, w io.Writer) {
	if len(rows) == 0 {
		return
	}

	var (
		headerStyle = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle   = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenStyle   = cellStyle
		oddStyle    = cellStyle
	)

	if opts.Color {
		header, even, odd := getColors("colors")
		headerStyle = headerStyle.Foreground(lipgloss.Color(header))
		evenStyle = evenStyle.Foreground(lipgloss.Color(even))
		oddStyle = oddStyle.Foreground(lipgloss.Color(odd))
	}

	pad, _ := config.GetInt("padding", 2)

	var cells [][]string
	for _, row := range rows {
		line := make([]string, 0, len(al))
		for _, a := range al {
			if a.Include {
				line = append(line, InterfaceToString(row[a.OutputKey], "-"))
			}
		}
		cells = append(cells, line)
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenStyle
			default:
				style = oddStyle
			}
			if col > 0 {
				style = style.PaddingLeft(pad)
			}
			return style
		}).
		Rows(cells...)

	if opts.Titles {
		var headers []string
		for _, a := range al {
			if a.Include {
				headers = append(headers, a.OutputKey)
			}
		}
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}

	fmt.Fprintln(w, t)
}

// getColors returns the configured title, even row and odd row colors.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(key+".title", "#f6be00")
	even, _ = config.GetString(key+".even", "#ffffff")
	odd, _ = config.GetString(key+".odd", "#00c8f0")
	log.Debugf("colors: %s %s %s", header, even, odd)
	return
}

// InterfaceToString renders a decoded JSON value for a table cell. Zero
// values render as emptyValue, default "".
func InterfaceToString(value any, emptyValue ...string) string {
	empty := ""
	if len(emptyValue) > 0 {
		empty = emptyValue[0]
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return empty
	}

	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
