// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/sesscache/internal/meta"
)

const bashCompletionScript = `# bash completion for sesscache
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_sesscache()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "append remove clear stats ls inspect repl completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local cache="--name -n --max-stack --max-times --live --locale --store --tldr"
    local common="--color -c --filter -f --output -o --sort -s --titles -t"

    case "$cmd" in
        append|ls|inspect|stats)
            local opts="$cache $common"
            ;;
        repl)
            local opts="$cache $common --script"
            ;;
        remove|clear)
            local opts="$cache"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$cache"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
            return 0
            ;;
        --store)
            COMPREPLY=( $(compgen -W "disk memory" -- "$cur") )
            return 0
            ;;
        --locale)
            COMPREPLY=( $(compgen -W "en zh" -- "$cur") )
            return 0
            ;;
        --script)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    fi
    return 0
}

complete -F _sesscache sesscache
`

const zshCompletionScript = `#compdef sesscache

_sesscache() {
  local -a cmds
  cmds=(
    'append:add a JSON payload to the cache'
    'remove:remove entries by key'
    'clear:remove every entry'
    'stats:show cache occupancy'
    'ls:list entries'
    'inspect:show the use-count and age of an entry'
    'repl:interactive session against a cache'
    'completion:generate shell completion script'
  )

  local -a cache
  cache=(
  '(-n --name)'{-n,--name}'[store name]:name'
  '--max-stack[budget in MB]:mb'
  '--max-times[use-count limit]:times'
  '--live[seconds to live]:seconds'
  '--locale[message language]:locale:(en zh)'
  '--store[backing table]:store:(disk memory)'
  '--tldr[show tldr page]'
  )

  local -a common
  common=(
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)'
  '(-s --sort)'{-s,--sort}'[sort columns]:columns'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'sesscache commands' cmds
    return
  fi

  case $words[2] in
    append|ls|inspect|stats)
      _arguments -C $cache $common '*:arg'
      ;;
    repl)
      _arguments -C $cache $common '--script[command file]:file:_files'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $cache '*:key'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _sesscache sesscache
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := Writer(cmd)
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	case "":
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(w, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(w, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: sesscache completion [bash|zsh]")
		}
	default:
		return fmt.Errorf("unsupported shell %q", shell)
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "sesscache completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
