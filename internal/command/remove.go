// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/sesscache/internal/meta"
)

// RemoveCommandAction removes every KEY given. Absent keys are ignored.
func RemoveCommandAction(ctx context.Context, cmd *cli.Command) error {
	c, err := OpenCache(cmd)
	if err != nil {
		return err
	}
	for _, key := range cmd.Args().Slice() {
		if err := c.Remove(key); err != nil {
			return err
		}
	}
	log.Debugf("%d entries left", c.Count())
	return nil
}

// ClearCommandAction removes every entry of the store.
func ClearCommandAction(ctx context.Context, cmd *cli.Command) error {
	c, err := OpenCache(cmd)
	if err != nil {
		return err
	}
	return c.Clear()
}

// RemoveCommandBuilder constructs the cli.Command for "remove".
func RemoveCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "remove",
		Usage:     "remove entries by key",
		UsageText: `sesscache remove KEY... [options]`,
		MinArgs:   1,
		MaxArgs:   -1,
		Action:    RemoveCommandAction,
		Meta:      meta,
	}).Build()
}

// ClearCommandBuilder constructs the cli.Command for "clear".
func ClearCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "clear",
		Usage:     "remove every entry",
		UsageText: `sesscache clear [options]`,
		Action:    ClearCommandAction,
		Meta:      meta,
	}).Build()
}
