// Package cli parses the command line, builds configuration and the
// repository, and dispatches to a registered command.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"tareas/internal/commands"
	"tareas/internal/config"
	"tareas/internal/exitcode"
	"tareas/internal/logging"
	"tareas/internal/service"
)

// RepositoryFactory creates the task repository from config.
// Used to inject the backend during dispatch.
type RepositoryFactory func(ctx context.Context, cfg *config.Config) (service.Repository, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  RepositoryFactory
}

// NewDispatcher creates a new dispatcher with the given registry and repository factory.
func NewDispatcher(registry *commands.Registry, factory RepositoryFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// commonFlags are accepted by every command and override config.yaml and the environment.
type commonFlags struct {
	configDir string
	quiet     bool
	debug     bool
	backend   string
	baseURL   string
	lang      string
	logFile   string
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
	fs.StringVar(&f.backend, "backend", "", "")
	fs.StringVar(&f.baseURL, "url", "", "")
	fs.StringVar(&f.lang, "lang", "", "")
	fs.StringVar(&f.logFile, "log-file", "", "")
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> list
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A leftover "-x" means a flag came after a positional argument.
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if err := cfg.Load(); err != nil {
		fmt.Fprintf(errOut, "error: config error: %s\n", err)
		return exitcode.AuthError
	}
	// Flags beat config.yaml and the environment.
	applyOverrides(cfg, &common)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errOut, "error: config error: %s\n", err)
		return exitcode.AuthError
	}

	logger := newLogger(cfg, errOut)
	defer func() { _ = logger.Sync() }()
	ctx = logging.WithContext(ctx, logger)
	logger.Debug("dispatch",
		zap.String("command", cmd.Name()),
		zap.String("backend", cfg.Backend),
		zap.String("config_dir", cfg.Dir),
	)

	var repo service.Repository
	if cmd.NeedsBackend() {
		if code, ok := preflight(cfg, errOut); !ok {
			return code
		}
		if d.factory != nil {
			repo, err = d.factory(ctx, cfg)
			if err != nil {
				// Building a client does no I/O beyond reading credentials.
				fmt.Fprintf(errOut, "error: auth error: %s\n", err)
				return exitcode.AuthError
			}
		}
	}

	return cmd.Run(ctx, cfg, repo, positionalArgs, out, errOut)
}

// applyOverrides copies explicitly given common flags onto cfg.
func applyOverrides(cfg *config.Config, f *commonFlags) {
	cfg.Quiet = cfg.Quiet || f.quiet
	cfg.Debug = cfg.Debug || f.debug
	if f.backend != "" {
		cfg.Backend = f.backend
	}
	if f.baseURL != "" {
		cfg.BaseURL = f.baseURL
	}
	if f.lang != "" {
		cfg.Lang = f.lang
	}
	if f.logFile != "" {
		cfg.LogFile = f.logFile
	}
}

// newLogger writes to stderr only with --debug, so failures are not
// reported twice next to the command's own error line.
func newLogger(cfg *config.Config, errOut io.Writer) *zap.Logger {
	opts := logging.Options{Debug: cfg.Debug, File: cfg.LogFile}
	if cfg.Debug {
		opts.Writer = errOut
	}
	return logging.New(opts)
}

// preflight reports missing google credentials before a client is built.
// The rest backend may be used without logging in.
func preflight(cfg *config.Config, errOut io.Writer) (int, bool) {
	if cfg.Backend != config.BackendGoogle {
		return exitcode.Success, true
	}
	if !cfg.HasOAuthClient() {
		fmt.Fprintf(errOut, "error: %s not found in %s\n", config.OAuthClientFile, cfg.Dir)
		return exitcode.AuthError, false
	}
	if !cfg.HasToken() {
		fmt.Fprintln(errOut, "error: not logged in (run: tareas login --backend google)")
		return exitcode.AuthError, false
	}
	return exitcode.Success, true
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	if name, ok := strings.CutPrefix(errStr, "flag needs an argument: "); ok {
		return "flag needs an argument: " + name
	}
	if name, ok := strings.CutPrefix(errStr, "flag provided but not defined: "); ok {
		return "unknown flag: " + name
	}
	return errStr
}
