package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"tareas/internal/backend/rest"
	"tareas/internal/config"
	"tareas/internal/exitcode"
	"tareas/internal/logging"
	"tareas/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command. The rest backend trades a
// username and password for the gateway's JWT; the google backend runs the
// OAuth installed-app flow.
type LoginCmd struct {
	username   string
	password   string
	rememberMe bool
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Authenticate with the backend" }
func (c *LoginCmd) Usage() string {
	return "tareas login [common flags] [--username <user>] [--password <pass>] [--remember-me]"
}
func (c *LoginCmd) NeedsBackend() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	c.username, c.password, c.rememberMe = "", "", false
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.username, "u", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
	fs.BoolVar(&c.rememberMe, "remember-me", false, "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, repo service.Repository, args []string, out, errOut io.Writer) int {
	if cfg.Backend == config.BackendGoogle {
		return loginGoogle(ctx, cfg, out, errOut)
	}
	return c.loginREST(ctx, cfg, out, errOut)
}

func (c *LoginCmd) loginREST(ctx context.Context, cfg *config.Config, out, errOut io.Writer) int {
	username := c.username
	if username == "" {
		username = cfg.Username
	}
	password := c.password
	if password == "" {
		password = cfg.Password
	}
	if username == "" || password == "" {
		fmt.Fprintln(errOut, "error: username and password required")
		fmt.Fprintf(errOut, "Pass --username and --password, or set %s_USERNAME and %s_PASSWORD.\n", config.EnvPrefix, config.EnvPrefix)
		return exitcode.AuthError
	}

	// A stale token must not be sent to the login endpoint.
	if cfg.HasToken() {
		if err := cfg.RemoveToken(); err != nil {
			fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
			return exitcode.AuthError
		}
	}

	client, err := rest.New(ctx, cfg, rest.WithLogger(logging.FromContext(ctx)))
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	token, err := client.Authenticate(ctx, username, password, c.rememberMe)
	if err != nil {
		if errors.Is(err, rest.ErrInvalidCredentials) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if err := cfg.WriteToken(token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
