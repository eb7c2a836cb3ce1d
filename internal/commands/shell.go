package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"tareas/internal/config"
	"tareas/internal/exitcode"
	"tareas/internal/i18n"
	"tareas/internal/output"
	"tareas/internal/service"
)

func init() {
	Register(&ShellCmd{})
}

// ShellCmd implements the interactive shell. One line is one user action on
// the task list screen.
type ShellCmd struct {
	in io.Reader
}

// SetInput sets the reader lines are read from. Defaults to stdin.
func (c *ShellCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *ShellCmd) Name() string       { return "shell" }
func (c *ShellCmd) Aliases() []string  { return nil }
func (c *ShellCmd) Synopsis() string   { return "Interactive task list" }
func (c *ShellCmd) Usage() string      { return "tareas shell" }
func (c *ShellCmd) NeedsBackend() bool { return true }

func (c *ShellCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShellCmd) Run(ctx context.Context, cfg *config.Config, repo service.Repository, args []string, out, errOut io.Writer) int {
	in := c.in
	if in == nil {
		in = os.Stdin
	}

	s := newScreen(ctx, cfg, repo, errOut)
	if err := s.ctrl.Mount(ctx); err == nil {
		s.printTasks(out, cfg.Quiet)
	}

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, s.tr.T(i18n.KeyShellPrompt))
		if !sc.Scan() {
			break
		}
		if done := s.exec(ctx, strings.TrimSpace(sc.Text()), cfg.Quiet, out, errOut); done {
			return exitcode.Success
		}
	}
	fmt.Fprintln(out)

	if err := sc.Err(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

// exec runs one shell line and reports whether the shell should exit.
func (s *screen) exec(ctx context.Context, line string, quiet bool, out, errOut io.Writer) bool {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "":
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprintln(out, s.tr.T(i18n.KeyShellHelp))
	case "list", "ls":
		if err := s.ctrl.Refresh(ctx); err == nil {
			s.printTasks(out, quiet)
		}
	case "new", "add":
		if s.modalOpen(errOut) {
			return false
		}
		s.ctrl.OpenCreate()
		output.FormatDraft(out, s.tr, s.tr.T(i18n.KeyCreateTitle), s.ctrl.Draft())
	case "edit":
		if s.modalOpen(errOut) {
			return false
		}
		task, ok := s.lookup(rest, errOut)
		if !ok {
			return false
		}
		s.ctrl.OpenEdit(task)
		output.FormatDraft(out, s.tr, s.tr.T(i18n.KeyEditTitle), s.ctrl.Draft())
	case "delete", "rm":
		if s.modalOpen(errOut) {
			return false
		}
		task, ok := s.lookup(rest, errOut)
		if !ok {
			return false
		}
		s.ctrl.OpenDelete(task)
		fmt.Fprintln(out, s.tr.T(i18n.KeyDeleteQuery, output.FormatNombre(s.tr, task.Nombre)))
	case "set":
		s.set(rest, errOut)
	case "show":
		s.show(out, quiet)
	case "ok", "confirm":
		s.confirm(ctx, quiet, out, errOut)
	case "cancel":
		s.ctrl.Cancel()
	default:
		fmt.Fprintln(errOut, s.tr.T(i18n.KeyUnknownInput, verb))
	}
	return false
}

// modalOpen reports an open modal. Only one modal may be open at a time,
// since ok confirms whichever one is visible.
func (s *screen) modalOpen(errOut io.Writer) bool {
	if s.create.Visible() || s.edit.Visible() || s.remove.Visible() {
		fmt.Fprintln(errOut, s.tr.T(i18n.KeyModalOpen))
		return true
	}
	return false
}

func (s *screen) lookup(arg string, errOut io.Writer) (service.Task, bool) {
	ref, err := ParseTaskRef(strings.Fields(arg))
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, false
	}
	task, err := ref.Resolve(s.ctrl.Tasks())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, false
	}
	return task, true
}

// set edits a field of the draft behind the open create or edit modal.
func (s *screen) set(arg string, errOut io.Writer) {
	if !s.create.Visible() && !s.edit.Visible() {
		fmt.Fprintln(errOut, s.tr.T(i18n.KeyNoModalOpen))
		return
	}

	field, value, _ := strings.Cut(arg, " ")
	value = strings.TrimSpace(value)

	switch field {
	case "nombre", "name":
		s.ctrl.EditDraft(func(d *service.Task) { d.Nombre = value })
	case "fecha", "date":
		if value == "" || value == output.NoDate {
			s.ctrl.EditDraft(func(d *service.Task) { d.FechaLimite = nil })
			return
		}
		due, err := service.ParseFechaLimite(value)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return
		}
		s.ctrl.EditDraft(func(d *service.Task) { d.FechaLimite = &due })
	default:
		fmt.Fprintln(errOut, s.tr.T(i18n.KeyUnknownInput, "set "+field))
	}
}

func (s *screen) show(out io.Writer, quiet bool) {
	switch {
	case s.create.Visible():
		output.FormatDraft(out, s.tr, s.tr.T(i18n.KeyCreateTitle), s.ctrl.Draft())
	case s.edit.Visible():
		output.FormatDraft(out, s.tr, s.tr.T(i18n.KeyEditTitle), s.ctrl.Draft())
	case s.remove.Visible():
		output.FormatDraft(out, s.tr, s.tr.T(i18n.KeyDeleteTitle), s.ctrl.Draft())
	default:
		s.printTasks(out, quiet)
	}
}

// confirm accepts whichever modal is open. Failures are already reported by
// the screen's error handler.
func (s *screen) confirm(ctx context.Context, quiet bool, out, errOut io.Writer) {
	var err error
	switch {
	case s.create.Visible():
		err = s.ctrl.ConfirmCreate(ctx)
	case s.edit.Visible():
		err = s.ctrl.ConfirmUpdate(ctx)
	case s.remove.Visible():
		err = s.ctrl.ConfirmDelete(ctx)
	default:
		fmt.Fprintln(errOut, s.tr.T(i18n.KeyNoModalOpen))
		return
	}
	if err == nil {
		s.printTasks(out, quiet)
	}
}

func (s *screen) printTasks(out io.Writer, quiet bool) {
	tasks := s.ctrl.Tasks()
	if len(tasks) == 0 {
		if !quiet {
			fmt.Fprintln(out, s.tr.T(i18n.KeyNoTasks))
		}
		return
	}
	output.FormatTaskTable(out, s.tr, tasks)
	if !quiet {
		fmt.Fprintln(out, s.tr.T(i18n.KeyCount, len(tasks)))
	}
}
