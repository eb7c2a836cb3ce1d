// Package config handles the XDG configuration directory, file paths and settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "tareas"

	// OAuthClientFile is the OAuth client credentials filename (google backend).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored token filename.
	TokenFile = "token.json"

	// SettingsName is the settings file name without extension (config.yaml).
	SettingsName = "config"

	// EnvPrefix prefixes environment overrides, e.g. TAREAS_BASE_URL.
	EnvPrefix = "TAREAS"
)

// Backends.
const (
	BackendREST   = "rest"
	BackendGoogle = "google"
)

// Defaults.
const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 10 * time.Second
	DefaultLang    = "en"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Backend selects the repository implementation: "rest" or "google".
	Backend string

	// BaseURL is the gateway root the tareas resource path is joined to.
	BaseURL string

	// Timeout is the HTTP client timeout.
	Timeout time.Duration

	// Lang is the UI language ("en" or "es").
	Lang string

	// LogFile, when set, sends logs to a rotating file instead of stderr.
	LogFile string

	// Username and Password feed the rest backend login.
	Username string
	Password string
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tareas or $HOME/.config/tareas.
// Settings start at their defaults; call Load to read config.yaml and the environment.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:     dir,
		Backend: BackendREST,
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
		Lang:    DefaultLang,
	}, nil
}

// Load reads config.yaml from the config directory (if present) and
// TAREAS_* environment variables, in that order of precedence: env wins.
func (c *Config) Load() error {
	v := viper.New()
	v.SetConfigName(SettingsName)
	v.SetConfigType("yaml")
	v.AddConfigPath(c.Dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("backend", c.Backend)
	v.SetDefault("base_url", c.BaseURL)
	v.SetDefault("timeout", c.Timeout)
	v.SetDefault("lang", c.Lang)
	v.SetDefault("log_file", c.LogFile)
	v.SetDefault("username", c.Username)
	v.SetDefault("password", c.Password)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read %s.yaml: %w", SettingsName, err)
		}
	}

	c.Backend = v.GetString("backend")
	c.BaseURL = v.GetString("base_url")
	c.Timeout = v.GetDuration("timeout")
	c.Lang = v.GetString("lang")
	c.LogFile = v.GetString("log_file")
	c.Username = v.GetString("username")
	c.Password = v.GetString("password")
	return c.Validate()
}

// Validate normalizes Backend and BaseURL and rejects settings no backend can use.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendREST, BackendGoogle:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
