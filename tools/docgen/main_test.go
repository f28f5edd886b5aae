// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = "# sesscache ls\n\n" +
	"## Short description\n\n" +
	"List the entries of a store\nwithout using them.\n\n" +
	"## Quick examples\n\n" +
	"```bash\n" +
	"# List entries with titles\n" +
	"sesscache ls   -t\n\n" +
	"sesscache ls -o json\n" +
	"```\n"

func TestParsePage(t *testing.T) {
	p := parsePage("ls", []byte(samplePage))

	assert.Equal(t, "sesscache ls", p.Title)
	assert.Equal(t, "List the entries of a store without using them.", p.Short)
	assert.Equal(t, []example{
		{Desc: "List entries with titles", Cmd: "sesscache ls -t"},
		{Desc: "Example", Cmd: "sesscache ls -o json"},
	}, p.Examples)
}

func TestExtractTitleAndShortDesc_Fallback(t *testing.T) {
	title, short := extractTitleAndShortDesc("# sesscache clear\n\nNothing else.\n")
	assert.Equal(t, "sesscache clear", title)
	assert.Equal(t, "sesscache clear.", short)
}

func TestBuildTLDR(t *testing.T) {
	got := buildTLDR(parsePage("ls", []byte(samplePage)))
	assert.Equal(t, "# sesscache-ls\n\n"+
		"> List the entries of a store without using them.\n"+
		"> More information: https://github.com/staranto/sesscache.\n\n"+
		"- List entries with titles:\n\n`sesscache ls -t`\n\n"+
		"- Example:\n\n`sesscache ls -o json`\n", got)

	got = buildTLDR(page{Cmd: "clear"})
	assert.Contains(t, got, "`sesscache clear --help`")
}

func TestBuildIndex(t *testing.T) {
	got := buildIndex([]page{{Cmd: "clear", Short: "Wipe."}, {Cmd: "ls", Short: "List."}})
	assert.Contains(t, got, "| [clear](commands/clear.md) | Wipe. |\n")
	assert.Contains(t, got, "| [ls](commands/ls.md) | List. |\n")
}

func TestLoadAndRender(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "docs", "commands")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ls.md"), []byte(samplePage), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	pages, err := loadPages(dir)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	outs := render(root, pages)
	require.Len(t, outs, 3)
	assert.Equal(t, filepath.Join(root, "docs", "man", "share", "man1", "sesscache-ls.1"), outs[0].Path)
	assert.NotEmpty(t, outs[0].Content)
	assert.Equal(t, filepath.Join(root, "docs", "tldr", "sesscache-ls.md"), outs[1].Path)
	assert.Equal(t, filepath.Join(root, "docs", "commands.md"), outs[2].Path)

	changed, err := differs(outs[2].Path, outs[2].Content)
	require.NoError(t, err)
	assert.True(t, changed)

	require.NoError(t, os.WriteFile(outs[2].Path, append(outs[2].Content, '\n'), 0o644))
	changed, err = differs(outs[2].Path, outs[2].Content)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestLoadPages_Empty(t *testing.T) {
	_, err := loadPages(t.TempDir())
	assert.Error(t, err)
}
