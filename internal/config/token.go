package config

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
)

// ReadToken loads the stored token from token.json.
func (c *Config) ReadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", TokenFile, err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", TokenFile, err)
	}
	return &token, nil
}

// WriteToken saves token to token.json with mode 0600, creating the config directory if needed.
func (c *Config) WriteToken(token *oauth2.Token) error {
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.TokenPath(), data, 0600)
}
