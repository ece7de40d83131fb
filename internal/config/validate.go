package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ErrMissingAPIKey is returned by RequireAPIKey when no key is configured.
var ErrMissingAPIKey = errors.New("reasoning.api_key is not set (export PPQ_API_KEY)")

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate checks the loaded values. Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database.path must not be empty")
	}
	if err := c.Reasoning.validate(); err != nil {
		return fmt.Errorf("reasoning: %w", err)
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// RequireAPIKey reports whether the reasoning service can be called.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.Reasoning.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func (r *ReasoningConfig) validate() error {
	if strings.TrimSpace(r.Model) == "" {
		return errors.New("model must not be empty")
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", r.Timeout)
	}
	u, err := url.Parse(r.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL (got %q)", r.BaseURL)
	}
	return nil
}

func (l *LogConfig) validate() error {
	if !slices.Contains(logLevels, strings.ToLower(l.Level)) {
		return fmt.Errorf("level must be one of %v (got %q)", logLevels, l.Level)
	}
	if !slices.Contains(logFormats, strings.ToLower(l.Format)) {
		return fmt.Errorf("format must be one of %v (got %q)", logFormats, l.Format)
	}
	return nil
}
