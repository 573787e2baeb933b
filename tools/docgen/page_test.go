// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = "# gifctl trending\n\n" +
	"## Short description\n\n" +
	"List the gifs trending right now.\nResults are cached.\n\n" +
	"## Quick examples\n\n" +
	"```sh\n" +
	"# Show trending gifs\n" +
	"gifctl trending\n\n" +
	"# Force a refresh\n" +
	"gifctl   trending --refresh\n" +
	"gifctl tq -o json\n" +
	"```\n"

func TestParsePage(t *testing.T) {
	p := parsePage(sampleDoc)
	assert.Equal(t, "gifctl trending", p.Title)
	assert.Equal(t, "List the gifs trending right now. Results are cached.", p.Short)
	assert.Equal(t, []example{
		{Desc: "Show trending gifs", Cmd: "gifctl trending"},
		{Desc: "Force a refresh", Cmd: "gifctl trending --refresh"},
		{Desc: "Example", Cmd: "gifctl tq -o json"},
	}, p.Examples)
}

func TestParsePage_Fallbacks(t *testing.T) {
	p := parsePage("# gifctl cache\n\nNothing else here.\n")
	assert.Equal(t, "gifctl cache.", p.Short)
	assert.Empty(t, p.Examples)

	out := p.tldr("cache")
	assert.Contains(t, out, "# gifctl-cache\n")
	assert.Contains(t, out, "`gifctl cache --help`")
}

func TestGenerate(t *testing.T) {
	root := t.TempDir()
	cmds := filepath.Join(root, "docs", "commands")
	require.NoError(t, os.MkdirAll(cmds, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cmds, "trending.md"), []byte(sampleDoc), 0o644))

	n, err := generate(root, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	tldr, err := os.ReadFile(filepath.Join(root, "docs", "tldr", "gifctl-trending.md"))
	require.NoError(t, err)
	assert.Contains(t, string(tldr), "- Force a refresh:\n\n`gifctl trending --refresh`")

	assert.FileExists(t, filepath.Join(root, "docs", "man", "share", "man1", "gifctl-trending.1"))

	_, err = generate(t.TempDir(), true)
	assert.Error(t, err)
}
