// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"reflect"

	"github.com/apex/log"
	"github.com/hashicorp/jsonapi"
	"github.com/urfave/cli/v3"

	"github.com/staranto/gifctl/internal/attrs"
	"github.com/staranto/gifctl/internal/giphy"
	"github.com/staranto/gifctl/internal/meta"
	"github.com/staranto/gifctl/internal/output"
)

// defaultItemAttrs are the columns every gif listing starts with.
var defaultItemAttrs = []string{".id", "title", "image-url:url"}

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr gifctl-<subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if !cmd.Bool("tldr") {
		return false
	}
	if _, err := exec.LookPath("tldr"); err == nil {
		c := exec.CommandContext(ctx, "tldr", "gifctl-"+subcmd)
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		_ = c.Run()
	}
	return true
}

// DumpSchemaIfRequested lists the attributes of t when --schema is set, and
// returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(Writer(cmd), t)
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (attrs.AttrList, error) {
	var al attrs.AttrList
	for _, d := range defaults {
		if err := al.Set(d); err != nil {
			return nil, err
		}
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err := al.Set(extras); err != nil {
			return nil, fmt.Errorf("invalid --attrs: %w", err)
		}
	}
	al.SetGlobalTransformSpec()
	return al, nil
}

// EmitJSONAPISlice marshals a slice of pointers as a JSON:API document and
// passes it to the common output routine.
func EmitJSONAPISlice(results any, al attrs.AttrList, cmd *cli.Command) error {
	var raw bytes.Buffer
	if err := jsonapi.MarshalPayload(&raw, results); err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return output.SliceDiceSpit(raw.Bytes(), al, output.OptionsFromCommand(cmd), "data", Writer(cmd))
}

// Writer is where command output goes: the root command's Writer, which
// tests replace, or stdout.
func Writer(cmd *cli.Command) io.Writer {
	if cmd != nil {
		if root := cmd.Root(); root != nil && root.Writer != nil {
			return root.Writer
		}
	}
	return os.Stdout
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// QueryCommandBuilder constructs a cli.Command for the listing commands
// (trending, search) using a consistent pattern. It wires metadata, adds
// the tldr/schema flags and the global output flags, and sets up validators.
type QueryCommandBuilder struct {
	Name      string
	Aliases   []string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      qcb.Name,
		Aliases:   qcb.Aliases,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: append(qcb.Flags, append([]cli.Flag{
			NewTLDRFlag(),
			NewSchemaFlag(),
			NewAPIKeyFlag(),
			NewEndpointFlag(),
		}, NewGlobalFlags(qcb.Name)...)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}

// QueryActionRunner encapsulates the action shared by the listing commands:
// short-circuit checks, attrs, the fetch itself (FetchFn) and output.
type QueryActionRunner struct {
	CommandName  string
	DefaultAttrs []string
	FetchFn      func(context.Context, *cli.Command) ([]giphy.Item, error)
}

// Run executes the query action with the provided context and command.
func (qar *QueryActionRunner) Run(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("executing action for %v", m.Args)

	if ShortCircuitTLDR(ctx, cmd, qar.CommandName) {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(giphy.Item{})) {
		return nil
	}

	al, err := BuildAttrs(cmd, qar.DefaultAttrs...)
	if err != nil {
		return err
	}
	log.Debugf("attrs: %v", al.String())

	items, err := qar.FetchFn(ctx, cmd)
	if err != nil {
		log.WithError(err).Errorf("%s failed", qar.CommandName)
		return err
	}

	return EmitJSONAPISlice(pointers(items), al, cmd)
}

// pointers adapts items to the []*T shape jsonapi marshals as a collection.
func pointers(items []giphy.Item) []*giphy.Item {
	out := make([]*giphy.Item, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}
