// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/sesscache/internal/cache"
	"github.com/staranto/sesscache/internal/output"
	"github.com/staranto/sesscache/internal/table"
)

type replFixture struct {
	repl *Repl
	out  *bytes.Buffer
	err  *bytes.Buffer
	now  time.Time
}

func newRepl(t *testing.T, s cache.Settings) *replFixture {
	t.Helper()

	f := &replFixture{
		out: &bytes.Buffer{},
		err: &bytes.Buffer{},
		now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	c, err := cache.New[Payload](s, table.NewMemory[Payload](), cache.WithClock(func() time.Time { return f.now }))
	require.NoError(t, err)

	f.repl = &Repl{Cache: c, Out: f.out, Err: f.err}
	return f
}

func (f *replFixture) run(t *testing.T, script string) error {
	t.Helper()
	f.out.Reset()
	f.err.Reset()
	f.repl.In = strings.NewReader(script)
	return f.repl.Run(context.Background())
}

func scenarioSettings() cache.Settings {
	s := cache.DefaultSettings()
	s.MaxTimes = 2
	s.Live = time.Minute
	return s
}

func TestRepl_UseLimitScenario(t *testing.T) {
	f := newRepl(t, scenarioSettings())

	err := f.run(t, strings.Join([]string{
		"use t1 warmup",
		`append a {"user":{"name":"ada","langs":["en","fr"]}}`,
		"count",
		"use t1 a user.name",
		"times a",
		"use t1 a",
		"count",
	}, "\n"))
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"not found (session changed)",
		"admitted",
		"1",
		"ada",
		"2",
		"not found (use limit)",
		"0",
		"",
	}, "\n"), f.out.String())
	assert.Empty(t, f.err.String())
}

func TestRepl_Expiry(t *testing.T) {
	s := scenarioSettings()
	s.MaxTimes = 10
	f := newRepl(t, s)
	require.NoError(t, f.run(t, "use t1 x\nappend a 1\n"))

	f.now = f.now.Add(30 * time.Second)
	require.NoError(t, f.run(t, "age a\nuse t1 a\n"))
	assert.Equal(t, "30s\n1\n", f.out.String())

	f.now = f.now.Add(30 * time.Second)
	require.NoError(t, f.run(t, "use t1 a\ncount\n"))
	assert.Equal(t, "not found (expired)\n0\n", f.out.String())
}

func TestRepl_SessionChangeFlushes(t *testing.T) {
	f := newRepl(t, scenarioSettings())

	require.NoError(t, f.run(t, "use t1 x\nappend a 1\nappend b 2\ncount\nuse t2 a\ncount\nuse t2 a\n"))
	assert.Equal(t, "not found (session changed)\nadmitted\nadmitted\n2\nnot found (session changed)\n0\nnot found (missing)\n", f.out.String())
}

func TestRepl_Logout(t *testing.T) {
	f := newRepl(t, scenarioSettings())

	require.NoError(t, f.run(t, "use t1 x\nappend a 1\nlogout\nuse t1 a\ncount\n"))
	assert.Equal(t, "not found (session changed)\nadmitted\nnot found (session changed)\n0\n", f.out.String())
}

func TestRepl_BytesAndFree(t *testing.T) {
	s := scenarioSettings()
	s.MaxStackMB = 100.0 / cache.MB
	f := newRepl(t, s)

	// "a" (2) + 1 (8)
	// "b" (2) + 50 characters (100) does not fit in the remaining 90.
	big := `"` + strings.Repeat("x", 50) + `"`
	require.NoError(t, f.run(t, "append a 1\nbytes\nfree\nappend b "+big+"\nbytes\n"))
	assert.Equal(t, "admitted\n10\n90\nover budget\n10\n", f.out.String())
}

func TestRepl_RemoveClearDuplicate(t *testing.T) {
	f := newRepl(t, scenarioSettings())

	require.NoError(t, f.run(t, "append a 1\nappend a 2\nappend b 1\nappend c 1\nremove a b\ncount\nclear\ncount\n"))
	assert.Equal(t, "admitted\nduplicate\nadmitted\nadmitted\n1\n0\n", f.out.String())
}

func TestRepl_LsAndStats(t *testing.T) {
	f := newRepl(t, scenarioSettings())
	f.repl.Output = output.Options{Format: "json"}

	require.NoError(t, f.run(t, "append a 1\nappend bb 2\nls key=bb\n"))
	lines := strings.Split(strings.TrimSpace(f.out.String()), "\n")
	rows := decodeRows(t, lines[len(lines)-1])
	require.Len(t, rows, 1)
	assert.Equal(t, "bb", rows[0]["key"])
	assert.Equal(t, 12.0, rows[0]["size"])

	require.NoError(t, f.run(t, "use t1 x\nstats\n"))
	lines = strings.Split(strings.TrimSpace(f.out.String()), "\n")
	rows = decodeRows(t, lines[len(lines)-1])
	require.Len(t, rows, 1)
	assert.Equal(t, 2.0, rows[0]["admitted"])
	assert.Equal(t, 1.0, rows[0]["flushes"])
	assert.Equal(t, 0.0, rows[0]["count"])
}

func TestRepl_Errors(t *testing.T) {
	f := newRepl(t, scenarioSettings())

	err := f.run(t, strings.Join([]string{
		"bogus",
		"use t1",
		"append a",
		"append a {",
		"times missing",
		"age missing",
		"remove",
		"use t1 x",
		"append a {\"v\":1}",
		"use t1 a nope",
		"count",
	}, "\n"))
	assert.ErrorIs(t, err, ErrCommandsFailed)
	assert.ErrorContains(t, err, "8")

	assert.Equal(t, "not found (session changed)\nadmitted\n1\n", f.out.String())

	msgs := f.err.String()
	assert.Contains(t, msgs, `unknown command "bogus"`)
	assert.Contains(t, msgs, "usage: use TOKEN KEY [PATH]")
	assert.Contains(t, msgs, "usage: append KEY JSON")
	assert.Contains(t, msgs, "invalid JSON payload")
	assert.Contains(t, msgs, "missing: not found")
	assert.Contains(t, msgs, "path not found in payload")
}

func TestRepl_InteractiveDoesNotFail(t *testing.T) {
	f := newRepl(t, scenarioSettings())
	f.repl.Prompt = "> "

	require.NoError(t, f.run(t, "bogus\ncount\n"))
	assert.Equal(t, "> > 0\n> ", f.out.String())
}

func TestRepl_CommentsAndQuit(t *testing.T) {
	f := newRepl(t, scenarioSettings())

	require.NoError(t, f.run(t, "# comment\n\n   \ncount\nexit\nappend a 1\n"))
	assert.Equal(t, "0\n", f.out.String())
}

func TestRepl_Help(t *testing.T) {
	f := newRepl(t, scenarioSettings())

	require.NoError(t, f.run(t, "help\n"))
	out := f.out.String()
	for name, c := range replCommands {
		assert.Contains(t, out, c.usage, name)
	}
}

func TestRepl_ContextCanceled(t *testing.T) {
	f := newRepl(t, scenarioSettings())
	f.repl.In = strings.NewReader("count\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, f.repl.Run(ctx), context.Canceled)
}

func TestCut(t *testing.T) {
	tests := []struct {
		in, first, rest string
	}{
		{"append a {\"x\": 1}", "append", "a {\"x\": 1}"},
		{"  count  ", "count", ""},
		{"use\tt1 a", "use", "t1 a"},
		{"", "", ""},
	}
	for _, tt := range tests {
		first, rest := cut(tt.in)
		assert.Equal(t, tt.first, first, tt.in)
		assert.Equal(t, tt.rest, rest, tt.in)
	}
}
