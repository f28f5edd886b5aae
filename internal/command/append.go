// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/sesscache/internal/cache"
	"github.com/staranto/sesscache/internal/meta"
	"github.com/staranto/sesscache/internal/output"
)

// AppendCommandAction admits KEY with a JSON payload taken from the second
// argument, or from stdin when it is "-" or absent. A payload the cache
// declines is reported, not treated as an error.
func AppendCommandAction(ctx context.Context, cmd *cli.Command) error {
	key := cmd.Args().Get(0)

	src := cmd.Args().Get(1)
	var r io.Reader
	if src == "" || src == "-" {
		r = Reader(cmd)
	} else {
		r = strings.NewReader(src)
	}

	v, err := decodePayload(r)
	if err != nil {
		return err
	}

	c, err := OpenCache(cmd)
	if err != nil {
		return err
	}

	adm, err := c.Append(key, v)
	if err != nil {
		return err
	}

	return output.Spit(Writer(cmd), admissionHeaders, admissionRows(key, adm, c.Summary()), output.OptionsFrom(cmd))
}

var admissionHeaders = []string{"key", "result", "count", "used", "free"}

func admissionRows(key string, adm cache.Admission, sum cache.Summary) []map[string]interface{} {
	return []map[string]interface{}{{
		"key":    key,
		"result": adm.String(),
		"count":  sum.Count,
		"used":   sum.Used,
		"free":   sum.Free,
	}}
}

// decodePayload reads exactly one JSON value.
func decodePayload(r io.Reader) (Payload, error) {
	dec := json.NewDecoder(r)
	var v Payload
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid JSON payload: trailing data")
	}
	return v, nil
}

// AppendCommandBuilder constructs the cli.Command for "append".
func AppendCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CacheCommandBuilder{
		Name:      "append",
		Usage:     "add a JSON payload to the cache",
		UsageText: `sesscache append KEY [JSON|-] [options]`,
		MinArgs:   1,
		MaxArgs:   2,
		Emits:     true,
		Action:    AppendCommandAction,
		Meta:      meta,
	}).Build()
}
