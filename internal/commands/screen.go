package commands

import (
	"context"
	"fmt"
	"io"

	"tareas/internal/config"
	"tareas/internal/controller"
	"tareas/internal/i18n"
	"tareas/internal/logging"
	"tareas/internal/service"
	"tareas/internal/ui"
)

// screen is the task list as a terminal sees it: a controller, its three
// modals and the translator for everything printed.
type screen struct {
	ctrl   *controller.Controller
	create *ui.Modal
	edit   *ui.Modal
	remove *ui.Modal
	tr     *i18n.Translator
}

// newScreen builds a screen over repo. Every repository failure is
// reported on errOut as it happens.
func newScreen(ctx context.Context, cfg *config.Config, repo service.Repository, errOut io.Writer) *screen {
	logger := logging.FromContext(ctx)
	s := &screen{
		create: ui.NewModal("create", logger),
		edit:   ui.NewModal("edit", logger),
		remove: ui.NewModal("delete", logger),
		tr:     i18n.New(cfg.Lang),
	}
	s.ctrl = controller.New(repo,
		controller.Modals{Create: s.create, Edit: s.edit, Delete: s.remove},
		controller.WithLogger(logger),
		controller.WithErrorHandler(func(op controller.Op, err error) {
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		}),
	)
	return s
}
