// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/sesscache/internal/meta"
	"github.com/staranto/sesscache/internal/output"
)

// StatsCommandAction prints the occupancy of the store. Counters cover this
// process only, so outside the REPL they are mostly zero.
func StatsCommandAction(ctx context.Context, cmd *cli.Command) error {
	c, err := OpenCache(cmd)
	if err != nil {
		return err
	}
	c.LogSummary()

	opts := output.OptionsFrom(cmd)
	headers, rows := statRows(c.Summary(), c.Stats(), opts.Format)
	return output.Spit(Writer(cmd), headers, rows, opts)
}

// StatsCommandBuilder constructs the cli.Command for "stats".
func StatsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "stats",
		Usage:     "show cache occupancy",
		UsageText: `sesscache stats [options]`,
		Emits:     true,
		Action:    StatsCommandAction,
		Meta:      meta,
	}).Build()
}
