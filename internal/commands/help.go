package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tareas/internal/config"
	"tareas/internal/exitcode"
	"tareas/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "tareas help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, repo service.Repository, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tareas                                        List all tasks
  tareas list [common flags]
  tareas add [common flags] [--fecha <date>] <nombre...>
  tareas edit [common flags] [--nombre <text>] [--fecha <date> | --sin-fecha] <ref>
  tareas rm [common flags] <ref>
  tareas shell [common flags]
  tareas login [common flags] [--username <user>] [--password <pass>]
  tareas logout [common flags]
  tareas help
  tareas version

A <ref> is the number shown by list (e.g. 3) or a task id (e.g. id:42).
A <date> is YYYY-MM-DD or an RFC 3339 timestamp.

Common flags:
  --config <dir>      Override config directory
  --backend <name>    rest (default) or google
  --url <base-url>    Base URL of the rest backend
  --lang <tag>        Output language (en, es)
  --quiet             Suppress informational output
  --debug             Print debug logs to stderr
`
