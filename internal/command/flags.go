// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/sesscache/internal/config"
)

func init() {
	cfg, _ = config.Load("")
}

var (
	cfg config.Type

	tldrFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
)

// configSources chains the namespaced then the global config file key.
func configSources(ns, key string, env ...string) cli.ValueSourceChain {
	var srcs []cli.ValueSource
	for _, e := range env {
		srcs = append(srcs, cli.EnvVar(e))
	}
	if ns != "" {
		srcs = append(srcs, yaml.YAML(ns+"."+key, altsrc.StringSourcer(cfg.Source)))
	}
	srcs = append(srcs, yaml.YAML(key, altsrc.StringSourcer(cfg.Source)))
	return cli.NewValueSourceChain(srcs...)
}

// NewGlobalFlags returns the output flags shared by every command that emits
// results. params[0] is the config namespace.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	ns := ""
	if len(params) > 0 {
		ns = params[0]
	}

	flags = []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: configSources(ns, "color"),
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: configSources(ns, "output"),
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
			Sources: configSources(ns, "sort"),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: configSources(ns, "titles"),
			Value:   false,
		},
	}

	return
}

// NewCacheFlags returns the flags that select and size the cache. Each is
// read from the command line, then the environment, then the config file.
func NewCacheFlags(ns string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "name of the cache store",
			Sources: configSources(ns, "name", "SESSCACHE_NAME"),
			Value:   "default",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, StoreNameValidator)
			},
		},
		&cli.FloatFlag{
			Name:    "max-stack",
			Usage:   "memory budget in MB",
			Sources: configSources(ns, "max_stack", "SESSCACHE_MAX_STACK"),
			Value:   1,
			Validator: func(value float64) error {
				return FlagValidators(value, PositiveValidator)
			},
		},
		&cli.IntFlag{
			Name:    "max-times",
			Usage:   "use-count at which an entry goes stale",
			Sources: configSources(ns, "max_times", "SESSCACHE_MAX_TIMES"),
			Value:   10,
			Validator: func(value int) error {
				return FlagValidators(value, PositiveValidator)
			},
		},
		&cli.FloatFlag{
			Name:    "live",
			Usage:   "seconds after which an entry goes stale",
			Sources: configSources(ns, "live", "SESSCACHE_LIVE"),
			Value:   300,
			Validator: func(value float64) error {
				return FlagValidators(value, PositiveValidator)
			},
		},
		&cli.StringFlag{
			Name:    "locale",
			Usage:   "language of diagnostic messages (en, zh)",
			Sources: configSources(ns, "locale", "SESSCACHE_LOCALE"),
			Value:   "en",
			Validator: func(value string) error {
				return FlagValidators(value, LocaleValidator)
			},
		},
		&cli.StringFlag{
			Name:    "store",
			Usage:   "backing table (disk, memory)",
			Sources: configSources(ns, "store"),
			Value:   "disk",
			Validator: func(value string) error {
				return FlagValidators(value, StoreValidator)
			},
		},
	}
}

// pathHas reports whether target is on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
