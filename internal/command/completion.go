// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/gifctl/internal/meta"
)

const bashCompletionScript = `# bash completion for gifctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_gifctl()
{
    local cur prev cmd opts
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "trending tq search sq browse cache completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t --schema --tldr --api-key"

    case "$cmd" in
        trending|tq)
            opts="$common --refresh -r --stale --store --ttl"
            ;;
        search|sq)
            opts="$common --page -p"
            ;;
        browse)
            opts="--api-key --stale --store --ttl --tldr"
            ;;
        cache)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "status purge" -- "$cur") )
                return 0
            fi
            opts="--output -o --store --ttl --hours"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            opts="$common"
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --store)
            COMPREPLY=( $(compgen -W "file s3 none" -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    fi
    return 0
}

complete -F _gifctl gifctl
`

const zshCompletionScript = `#compdef gifctl

_gifctl() {
  local -a cmds
  cmds=(
    'trending:trending gifs query'
    'tq:trending gifs query'
    'search:search gifs by keyword'
    'sq:search gifs by keyword'
    'browse:interactive gif browser'
    'cache:inspect or clean the local cache'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--schema[list attributes]'
  '--tldr[show tldr page]'
  '--api-key[GIPHY API key]:key'
  )

  local -a cachecfg
  cachecfg=(
  '--store[durable cache backend]:store:(file s3 none)'
  '--ttl[freshness window]:duration'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'gifctl commands' cmds
    return
  fi

  case $words[2] in
    trending|tq)
      _arguments -C \
        $common \
        $cachecfg \
        '(-r --refresh)'{-r,--refresh}'[ignore cached results]' \
        '--stale[serve cached list if refresh fails]'
      ;;
    search|sq)
      _arguments -C \
        $common \
        '(-p --page)'{-p,--page}'[result page]:page' \
        '*:keyword'
      ;;
    browse)
      _arguments -C \
        $cachecfg \
        '--api-key[GIPHY API key]:key' \
        '--stale[serve cached list if refresh fails]' \
        '*:keyword'
      ;;
    cache)
      _arguments -C \
        '1: :((status purge))' \
        $cachecfg \
        '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)' \
        '--hours[age in hours]:hours'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _gifctl gifctl
`

// CompletionCommandAction prints the completion script for the shell named
// in the first arg, or for $SHELL when none is given.
func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := cmd.Args().First()
	if shell == "" {
		shell = os.Getenv("SHELL")
	}

	w := Writer(cmd)
	switch {
	case strings.HasSuffix(shell, "zsh"):
		fmt.Fprint(w, zshCompletionScript)
	case strings.HasSuffix(shell, "bash"):
		fmt.Fprint(w, bashCompletionScript)
	default:
		return fmt.Errorf("unsupported shell %q, usage: gifctl completion [bash|zsh]", shell)
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "gifctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
