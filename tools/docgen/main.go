// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
)

// Doc generator:
// - Reads docs/commands/*.md as canonical command docs
// - Generates:
//   - docs/man/share/man1/sesscache-<cmd>.1 via md2man (convert full markdown)
//   - docs/tldr/sesscache-<cmd>.md from the short description and quick examples
//   - docs/commands.md, an index of every command
// - With -check, writes nothing and fails if any output is stale.

type page struct {
	Cmd      string
	Title    string
	Short    string
	Examples []example
	Raw      []byte
}

type example struct {
	Desc string
	Cmd  string
}

type output struct {
	Path    string
	Content []byte
}

func main() {
	var (
		repoRoot string
		check    bool
	)

	flag.StringVar(&repoRoot, "root", ".", "repo root (default current dir)")
	flag.BoolVar(&check, "check", false, "fail if generated docs are out of date")
	flag.Parse()

	pages, err := loadPages(filepath.Join(repoRoot, "docs", "commands"))
	if err != nil {
		fatalf("%v", err)
	}

	outs := render(repoRoot, pages)

	var stale []string
	for _, o := range outs {
		changed, err := differs(o.Path, o.Content)
		if err != nil {
			fatalf("reading %s: %v", o.Path, err)
		}
		if !changed {
			continue
		}
		if check {
			stale = append(stale, o.Path)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(o.Path), 0o755); err != nil {
			fatalf("creating %s: %v", filepath.Dir(o.Path), err)
		}
		if err := os.WriteFile(o.Path, o.Content, 0o644); err != nil {
			fatalf("writing %s: %v", o.Path, err)
		}
	}

	if len(stale) > 0 {
		fatalf("out of date, run docgen:\n  %s", strings.Join(stale, "\n  "))
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

// loadPages reads every command page in dir, sorted by command name.
func loadPages(dir string) ([]page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading commands dir %s: %w", dir, err)
	}

	var pages []page
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		pages = append(pages, parsePage(strings.TrimSuffix(e.Name(), ".md"), raw))
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no command markdown found under %s", dir)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Cmd < pages[j].Cmd })
	return pages, nil
}

func parsePage(cmd string, raw []byte) page {
	md := string(raw)
	title, short := extractTitleAndShortDesc(md)
	return page{
		Cmd:      cmd,
		Title:    title,
		Short:    short,
		Examples: extractQuickExamples(md),
		Raw:      raw,
	}
}

// render produces every generated file for pages.
func render(root string, pages []page) []output {
	manDir := filepath.Join(root, "docs", "man", "share", "man1")
	tldrDir := filepath.Join(root, "docs", "tldr")

	outs := make([]output, 0, 2*len(pages)+1)
	for _, p := range pages {
		outs = append(outs,
			output{filepath.Join(manDir, fmt.Sprintf("sesscache-%s.1", p.Cmd)), md2man.Render(p.Raw)},
			output{filepath.Join(tldrDir, fmt.Sprintf("sesscache-%s.md", p.Cmd)), []byte(buildTLDR(p))},
		)
	}
	outs = append(outs, output{filepath.Join(root, "docs", "commands.md"), []byte(buildIndex(pages))})
	return outs
}

// differs reports whether path is missing or differs from content, ignoring
// surrounding whitespace.
func differs(path string, content []byte) (bool, error) {
	old, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return !bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(content)), nil
}

var h1Re = regexp.MustCompile(`(?m)^#\s+(.+)$`)

func extractTitleAndShortDesc(md string) (title, short string) {
	if m := h1Re.FindStringSubmatch(md); m != nil {
		title = strings.TrimSpace(m[1])
	}

	idx := strings.Index(strings.ToLower(md), "short description")
	if idx >= 0 {
		rest := md[idx:]
		// Skip the header line
		if nl := strings.Index(rest, "\n"); nl >= 0 {
			rest = rest[nl+1:]
		}
		var b strings.Builder
		for _, ln := range strings.Split(rest, "\n") {
			s := strings.TrimSpace(ln)
			if s == "" {
				if b.Len() > 0 { // stop after first paragraph
					break
				}
				continue
			}
			if strings.HasPrefix(s, "#") {
				break
			}
			b.WriteString(s)
			b.WriteString(" ")
		}
		short = strings.TrimSpace(b.String())
	}
	if short == "" && title != "" {
		short = title + "."
	}
	return
}

// extractQuickExamples reads the first fenced block after a "Quick examples"
// heading. A "# ..." line describes the command line that follows it.
func extractQuickExamples(md string) []example {
	idx := strings.Index(strings.ToLower(md), "quick examples")
	if idx < 0 {
		return nil
	}
	rest := md[idx:]

	const fence = "```"
	start := strings.Index(rest, fence)
	if start < 0 {
		return nil
	}
	rest = rest[start+len(fence):]
	// Drop the info string of the fence.
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, fence)
	if end < 0 {
		return nil
	}

	var exs []example
	desc := ""
	for _, ln := range strings.Split(rest[:end], "\n") {
		s := strings.TrimSpace(ln)
		switch {
		case s == "":
		case strings.HasPrefix(s, "#"):
			desc = strings.TrimSpace(strings.TrimPrefix(s, "#"))
		default:
			if desc == "" {
				desc = "Example"
			}
			exs = append(exs, example{Desc: desc, Cmd: strings.Join(strings.Fields(s), " ")})
			desc = ""
		}
	}
	return exs
}

func buildTLDR(p page) string {
	var b strings.Builder
	b.WriteString("# sesscache-" + p.Cmd + "\n\n")
	switch {
	case p.Short != "":
		b.WriteString("> " + p.Short + "\n")
	case p.Title != "":
		b.WriteString("> " + p.Title + "\n")
	default:
		b.WriteString("> sesscache " + p.Cmd + "\n")
	}
	b.WriteString("> More information: https://github.com/staranto/sesscache.\n\n")

	if len(p.Examples) == 0 {
		b.WriteString("- Show help for the command:\n\n")
		b.WriteString("`sesscache " + p.Cmd + " --help`\n")
		return b.String()
	}

	for i, ex := range p.Examples {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + ex.Desc + ":\n\n")
		b.WriteString("`" + ex.Cmd + "`\n")
	}
	return b.String()
}

func buildIndex(pages []page) string {
	var b strings.Builder
	b.WriteString("# sesscache commands\n\n")
	b.WriteString("| Command | Description |\n")
	b.WriteString("|---|---|\n")
	for _, p := range pages {
		fmt.Fprintf(&b, "| [%s](commands/%s.md) | %s |\n", p.Cmd, p.Cmd, p.Short)
	}
	return b.String()
}
