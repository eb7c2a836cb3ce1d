package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"tareas/internal/config"
	"tareas/internal/exitcode"
	"tareas/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	fecha string
}

// SetFecha sets the due date flag (for testing).
func (c *AddCmd) SetFecha(fecha string) {
	c.fecha = fecha
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "tareas add [--fecha <date>] <nombre...>" }
func (c *AddCmd) NeedsBackend() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.fecha = ""
	fs.StringVar(&c.fecha, "fecha", "", "")
	fs.StringVar(&c.fecha, "f", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, repo service.Repository, args []string, out, errOut io.Writer) int {
	nombre := strings.Join(args, " ")
	if strings.TrimSpace(nombre) == "" {
		fmt.Fprintln(errOut, "error: nombre required")
		return exitcode.UserError
	}

	var due *time.Time
	if c.fecha != "" {
		parsed, err := service.ParseFechaLimite(c.fecha)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		due = &parsed
	}

	s := newScreen(ctx, cfg, repo, errOut)
	s.ctrl.OpenCreate()
	s.ctrl.EditDraft(func(d *service.Task) {
		d.Nombre = nombre
		d.FechaLimite = due
	})
	if err := s.ctrl.ConfirmCreate(ctx); err != nil {
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
