// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/sesscache/internal/cache"
	"github.com/staranto/sesscache/internal/meta"
	"github.com/staranto/sesscache/internal/output"
)

const maxLine = 4 * 1024 * 1024

var (
	errQuit = errors.New("quit")

	// ErrCommandsFailed is returned by a non-interactive Repl when at least
	// one line failed.
	ErrCommandsFailed = errors.New("repl commands failed")
)

// Repl is a line oriented session against one cache. Session state lives as
// long as the Repl, which is what makes "use" meaningful.
type Repl struct {
	Cache  *cache.Cache[Payload]
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	Output output.Options
	// Prompt is printed before each line when not empty.
	Prompt string
}

type replCommand struct {
	usage string
	help  string
	run   func(r *Repl, rest string) error
}

var replCommands map[string]replCommand

func init() {
	replCommands = map[string]replCommand{
		"use":    {"use TOKEN KEY [PATH]", "use an entry on behalf of a session", (*Repl).use},
		"append": {"append KEY JSON", "add a JSON payload", (*Repl).append},
		"remove": {"remove KEY...", "remove entries", (*Repl).remove},
		"clear":  {"clear", "remove every entry", (*Repl).clear},
		"count":  {"count", "number of entries", (*Repl).count},
		"bytes":  {"bytes", "bytes used", (*Repl).bytes},
		"free":   {"free", "bytes left in the budget", (*Repl).free},
		"times":  {"times KEY", "use-count of an entry", (*Repl).times},
		"age":    {"age KEY", "age of an entry", (*Repl).age},
		"ls":     {"ls [FILTER]", "list entries", (*Repl).ls},
		"stats":  {"stats", "occupancy and counters", (*Repl).stats},
		"logout": {"logout", "forget the session token", (*Repl).logout},
		"help":   {"help", "this text", (*Repl).help},
		"quit":   {"quit", "leave", func(*Repl, string) error { return errQuit }},
	}
}

// Run executes lines from In until EOF, quit or ctx is done. A failing line
// is reported on Err and does not stop the session.
func (r *Repl) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.In)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	failed := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.Prompt != "" {
			fmt.Fprint(r.Out, r.Prompt)
		}
		if !scanner.Scan() {
			break
		}

		err := r.Exec(scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			failed++
			fmt.Fprintf(r.Err, "error: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if failed > 0 && r.Prompt == "" {
		return fmt.Errorf("%w: %d", ErrCommandsFailed, failed)
	}
	return nil
}

// Exec runs one line. Blank lines and lines starting with # are ignored.
func (r *Repl) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	name, rest := cut(line)
	if name == "exit" {
		name = "quit"
	}
	c, ok := replCommands[name]
	if !ok {
		return fmt.Errorf("unknown command %q, try help", name)
	}
	log.Debugf("repl: %s %s", name, rest)
	return c.run(r, rest)
}

// cut splits off the first whitespace separated word.
func cut(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

func args(rest string, minArgs, maxArgs int, usage string) ([]string, error) {
	f := strings.Fields(rest)
	if len(f) < minArgs || (maxArgs >= 0 && len(f) > maxArgs) {
		return nil, fmt.Errorf("usage: %s", usage)
	}
	return f, nil
}

func (r *Repl) use(rest string) error {
	a, err := args(rest, 2, 3, replCommands["use"].usage)
	if err != nil {
		return err
	}

	v, reason, err := r.Cache.Lookup(a[0], a[1])
	if err != nil {
		return err
	}
	if !reason.Found() {
		fmt.Fprintf(r.Out, "%s (%s)\n", cache.ErrNotFound, reason)
		return nil
	}

	path := ""
	if len(a) == 3 {
		path = a[2]
	}
	return output.Payload(r.Out, v, path, r.Output)
}

func (r *Repl) append(rest string) error {
	key, src := cut(rest)
	if key == "" || src == "" {
		return fmt.Errorf("usage: %s", replCommands["append"].usage)
	}

	v, err := decodePayload(strings.NewReader(src))
	if err != nil {
		return err
	}
	adm, err := r.Cache.Append(key, v)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.Out, adm)
	return nil
}

func (r *Repl) remove(rest string) error {
	a, err := args(rest, 1, -1, replCommands["remove"].usage)
	if err != nil {
		return err
	}
	for _, key := range a {
		if err := r.Cache.Remove(key); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repl) clear(string) error {
	return r.Cache.Clear()
}

func (r *Repl) count(string) error {
	fmt.Fprintln(r.Out, r.Cache.Count())
	return nil
}

func (r *Repl) bytes(string) error {
	fmt.Fprintln(r.Out, r.Cache.TotalBytes())
	return nil
}

func (r *Repl) free(string) error {
	fmt.Fprintln(r.Out, r.Cache.FreeBytes())
	return nil
}

func (r *Repl) times(rest string) error {
	a, err := args(rest, 1, 1, replCommands["times"].usage)
	if err != nil {
		return err
	}
	n, err := r.Cache.UsedTimes(a[0])
	if err != nil {
		return fmt.Errorf("%s: %w", a[0], err)
	}
	fmt.Fprintln(r.Out, n)
	return nil
}

func (r *Repl) age(rest string) error {
	a, err := args(rest, 1, 1, replCommands["age"].usage)
	if err != nil {
		return err
	}
	d, err := r.Cache.Age(a[0])
	if err != nil {
		return fmt.Errorf("%s: %w", a[0], err)
	}
	fmt.Fprintln(r.Out, d.Round(time.Second))
	return nil
}

func (r *Repl) ls(rest string) error {
	infos, err := r.Cache.Entries()
	if err != nil {
		return err
	}
	opts := r.Output
	if rest != "" {
		opts.Filter = rest
	}
	return output.Spit(r.Out, entryHeaders, entryRows(infos), opts)
}

func (r *Repl) stats(string) error {
	headers, rows := statRows(r.Cache.Summary(), r.Cache.Stats(), r.Output.Format)
	return output.Spit(r.Out, headers, rows, r.Output)
}

func (r *Repl) logout(string) error {
	r.Cache.Logout()
	return nil
}

func (r *Repl) help(string) error {
	names := make([]string, 0, len(replCommands))
	for n := range replCommands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(r.Out, "  %-22s %s\n", replCommands[n].usage, replCommands[n].help)
	}
	return nil
}

// ReplCommandAction runs a Repl over stdin or the --script file.
func ReplCommandAction(ctx context.Context, cmd *cli.Command) error {
	c, err := OpenCache(cmd)
	if err != nil {
		return err
	}

	r := &Repl{
		Cache:  c,
		In:     Reader(cmd),
		Out:    Writer(cmd),
		Err:    cmd.Root().ErrWriter,
		Output: output.OptionsFrom(cmd),
	}
	if r.Err == nil {
		r.Err = os.Stderr
	}

	if script := cmd.String("script"); script != "" {
		f, err := os.Open(script)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		r.In = f
	} else if f, ok := r.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.Prompt = "sesscache> "
	}

	err = r.Run(ctx)
	c.LogSummary()
	return err
}

// ReplCommandBuilder constructs the cli.Command for "repl".
func ReplCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "repl",
		Usage:     "interactive session against a cache",
		UsageText: `sesscache repl [--script FILE] [options]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "script",
				Usage: "read commands from FILE instead of stdin",
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator)
				},
			},
		},
		MaxArgs: 0,
		Emits:   true,
		Action:  ReplCommandAction,
		Meta:    meta,
	}).Build()
}
