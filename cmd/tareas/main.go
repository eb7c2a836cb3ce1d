// Package main is the entry point for the tareas CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tareas/internal/backend/googletasks"
	"tareas/internal/backend/rest"
	"tareas/internal/cli"
	"tareas/internal/commands"
	"tareas/internal/config"
	"tareas/internal/logging"
	"tareas/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newRepository)
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// newRepository builds the backend named by cfg.Backend.
func newRepository(ctx context.Context, cfg *config.Config) (service.Repository, error) {
	logger := logging.FromContext(ctx)
	if cfg.Backend == config.BackendGoogle {
		client, err := googletasks.New(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	client, err := rest.New(ctx, cfg, rest.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return client, nil
}
