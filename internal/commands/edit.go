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
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	nombre  *string
	fecha   *string
	noFecha bool
}

// SetNombre sets the new name (for testing).
func (c *EditCmd) SetNombre(nombre string) { c.nombre = &nombre }

// SetFecha sets the new due date (for testing).
func (c *EditCmd) SetFecha(fecha string) { c.fecha = &fecha }

// SetSinFecha clears the due date (for testing).
func (c *EditCmd) SetSinFecha(clear bool) { c.noFecha = clear }

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Change a task's name or due date" }
func (c *EditCmd) Usage() string {
	return "tareas edit [--nombre <text>] [--fecha <date> | --sin-fecha] <ref>"
}
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.nombre, c.fecha, c.noFecha = nil, nil, false
	setNombre := func(s string) error { c.nombre = &s; return nil }
	setFecha := func(s string) error { c.fecha = &s; return nil }
	fs.Func("nombre", "", setNombre)
	fs.Func("n", "", setNombre)
	fs.Func("fecha", "", setFecha)
	fs.Func("f", "", setFecha)
	fs.BoolVar(&c.noFecha, "sin-fecha", false, "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, repo service.Repository, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if c.fecha != nil && c.noFecha {
		fmt.Fprintln(errOut, "error: cannot use both --fecha and --sin-fecha")
		return exitcode.UserError
	}
	if c.nombre == nil && c.fecha == nil && !c.noFecha {
		fmt.Fprintln(errOut, "error: nothing to change")
		return exitcode.UserError
	}
	if c.nombre != nil && strings.TrimSpace(*c.nombre) == "" {
		fmt.Fprintln(errOut, "error: nombre required")
		return exitcode.UserError
	}

	var due *time.Time
	if c.fecha != nil {
		parsed, err := service.ParseFechaLimite(*c.fecha)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		due = &parsed
	}

	s := newScreen(ctx, cfg, repo, errOut)
	if err := s.ctrl.Mount(ctx); err != nil {
		return exitcode.BackendError
	}

	task, err := ref.Resolve(s.ctrl.Tasks())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	s.ctrl.OpenEdit(task)
	s.ctrl.EditDraft(func(d *service.Task) {
		if c.nombre != nil {
			d.Nombre = *c.nombre
		}
		if due != nil {
			d.FechaLimite = due
		}
		if c.noFecha {
			d.FechaLimite = nil
		}
	})
	if err := s.ctrl.ConfirmUpdate(ctx); err != nil {
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
