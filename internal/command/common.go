// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/sesscache/internal/cache"
	"github.com/staranto/sesscache/internal/meta"
	"github.com/staranto/sesscache/internal/table"
)

// Payload is the type cached by the command line: any decoded JSON value.
type Payload = any

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr sesscache-<subcmd>` and returns true so the caller can exit
// early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "sesscache-"+subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
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

// SettingsFrom builds cache settings from the cache flags.
func SettingsFrom(cmd *cli.Command) (cache.Settings, error) {
	locale, err := cache.ParseLocale(cmd.String("locale"))
	if err != nil {
		return cache.Settings{}, err
	}
	live := cmd.Float("live") * float64(time.Second)
	if live >= math.MaxInt64 {
		return cache.Settings{}, fmt.Errorf("%w: live is too large, got %vs", cache.ErrInvalidSettings, cmd.Float("live"))
	}
	s := cache.Settings{
		Name:       cmd.String("name"),
		MaxStackMB: cmd.Float("max-stack"),
		MaxTimes:   cmd.Int("max-times"),
		Live:       time.Duration(live),
		Locale:     locale,
	}
	return s, s.Validate()
}

// OpenCache builds the cache selected by the cache flags.
func OpenCache(cmd *cli.Command) (*cache.Cache[Payload], error) {
	s, err := SettingsFrom(cmd)
	if err != nil {
		return nil, err
	}

	var tbl table.Table[Payload]
	switch cmd.String("store") {
	case "memory":
		tbl = table.NewMemory[Payload]()
	default:
		d, err := table.NewDisk[Payload](s.Name)
		if err != nil {
			return nil, err
		}
		tbl = d
	}
	log.Debugf("settings: %+v", s)

	return cache.New(s, tbl)
}

// Writer is where command results go.
func Writer(cmd *cli.Command) io.Writer {
	if r := cmd.Root(); r != nil && r.Writer != nil {
		return r.Writer
	}
	return os.Stdout
}

// Reader is where command input comes from.
func Reader(cmd *cli.Command) io.Reader {
	if r := cmd.Root(); r != nil && r.Reader != nil {
		return r.Reader
	}
	return os.Stdin
}

var (
	entryHeaders = []string{"key", "size", "times", "age", "state", "inserted"}
	statHeaders  = []string{"field", "value"}
)

// entryRows flattens entry bookkeeping for output.Spit.
func entryRows(infos []cache.EntryInfo) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(infos))
	for _, e := range infos {
		rows = append(rows, map[string]interface{}{
			"key":      e.Key,
			"size":     e.SizeBytes,
			"times":    e.UseCount,
			"age":      e.Age.Round(time.Second).String(),
			"state":    e.State,
			"inserted": e.InsertedAt.UTC().Format(time.RFC3339),
		})
	}
	return rows
}

// statRows renders the summary and counters. Text output gets one row per
// field with humanized byte counts; structured output gets a single row.
func statRows(sum cache.Summary, st cache.Stats, format string) ([]string, []map[string]interface{}) {
	fields := []struct {
		name  string
		value interface{}
	}{
		{"name", sum.Name},
		{"count", sum.Count},
		{"used", sum.Used},
		{"free", sum.Free},
		{"max", sum.Max},
		{"admitted", st.Admitted},
		{"rejected", st.Rejected},
		{"duplicates", st.Duplicates},
		{"hits", st.Hits},
		{"misses", st.Misses},
		{"stale", st.Stale},
		{"flushes", st.Flushes},
	}

	if format == "json" || format == "yaml" {
		row := make(map[string]interface{}, len(fields))
		headers := make([]string, 0, len(fields))
		for _, f := range fields {
			row[f.name] = f.value
			headers = append(headers, f.name)
		}
		return headers, []map[string]interface{}{row}
	}

	rows := make([]map[string]interface{}, 0, len(fields))
	for _, f := range fields {
		var v string
		switch f.name {
		case "used", "free", "max":
			v = humanize.IBytes(uint64(f.value.(int64)))
		default:
			v = fmt.Sprint(f.value)
		}
		rows = append(rows, map[string]interface{}{"field": f.name, "value": v})
	}
	return statHeaders, rows
}

// CacheCommandBuilder constructs a cli.Command for a cache subcommand using a
// consistent pattern. The builder wires metadata, the tldr flag, the cache
// flags and, for commands that emit results, the output flags.
type CacheCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	// MinArgs and MaxArgs bound the positional arguments. A negative MaxArgs
	// means unbounded.
	MinArgs int
	MaxArgs int
	Emits   bool
	Action  func(context.Context, *cli.Command) error
	Meta    meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (ccb *CacheCommandBuilder) Build() *cli.Command {
	flags := append([]cli.Flag{tldrFlag}, ccb.Flags...)
	flags = append(flags, NewCacheFlags(ccb.Name)...)
	if ccb.Emits {
		flags = append(flags, NewGlobalFlags(ccb.Name)...)
	}

	return &cli.Command{
		Name:      ccb.Name,
		Usage:     ccb.Usage,
		UsageText: ccb.UsageText,
		Metadata: map[string]any{
			"meta": ccb.Meta,
		},
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			m := GetMeta(cmd)
			log.Debugf("Executing action for %v", m.Args)

			if ShortCircuitTLDR(ctx, cmd, ccb.Name) {
				return nil
			}
			if err := ArgCountValidator(cmd, ccb.MinArgs, ccb.MaxArgs); err != nil {
				return err
			}
			return ccb.Action(ctx, cmd)
		},
	}
}

// ArgCountValidator checks the number of positional arguments.
func ArgCountValidator(cmd *cli.Command, minArgs, maxArgs int) error {
	n := cmd.NArg()
	if n < minArgs {
		return fmt.Errorf("%s: expected at least %d argument(s), got %d", cmd.Name, minArgs, n)
	}
	if maxArgs >= 0 && n > maxArgs {
		return fmt.Errorf("%s: expected at most %d argument(s), got %d", cmd.Name, maxArgs, n)
	}
	return nil
}
