// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/sesscache/internal/cache"
	"github.com/staranto/sesscache/internal/meta"
	"github.com/staranto/sesscache/internal/output"
)

// LsCommandAction lists the entries of the store without using them.
func LsCommandAction(ctx context.Context, cmd *cli.Command) error {
	c, err := OpenCache(cmd)
	if err != nil {
		return err
	}
	infos, err := c.Entries()
	if err != nil {
		return err
	}
	return output.Spit(Writer(cmd), entryHeaders, entryRows(infos), output.OptionsFrom(cmd))
}

// InspectCommandAction reports the use-count and age of one entry.
func InspectCommandAction(ctx context.Context, cmd *cli.Command) error {
	c, err := OpenCache(cmd)
	if err != nil {
		return err
	}

	key := cmd.Args().First()
	row, err := inspectRow(c, key)
	if err != nil {
		return err
	}
	return output.Spit(Writer(cmd), inspectHeaders, []map[string]interface{}{row}, output.OptionsFrom(cmd))
}

var inspectHeaders = []string{"key", "times", "age"}

func inspectRow(c *cache.Cache[Payload], key string) (map[string]interface{}, error) {
	times, err := c.UsedTimes(key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	age, err := c.Age(key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return map[string]interface{}{
		"key":   key,
		"times": times,
		"age":   age.Seconds(),
	}, nil
}

// LsCommandBuilder constructs the cli.Command for "ls".
func LsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "ls",
		Usage:     "list entries",
		UsageText: `sesscache ls [options]`,
		Emits:     true,
		Action:    LsCommandAction,
		Meta:      meta,
	}).Build()
}

// InspectCommandBuilder constructs the cli.Command for "inspect".
func InspectCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "inspect",
		Usage:     "show the use-count and age of an entry",
		UsageText: `sesscache inspect KEY [options]`,
		MinArgs:   1,
		MaxArgs:   1,
		Emits:     true,
		Action:    InspectCommandAction,
		Meta:      meta,
	}).Build()
}
