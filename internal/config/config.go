// Package config loads murmur's settings from an optional YAML file and the
// environment.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Reasoning ReasoningConfig `yaml:"reasoning"`
	Log       LogConfig       `yaml:"log"`
}

// DatabaseConfig holds storage settings.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"MURMUR_DB" env-default:"murmur.db"`
}

// ReasoningConfig holds settings for the OpenAI-compatible reasoning service.
// The API key is only required by commands that call the service.
type ReasoningConfig struct {
	APIKey  string        `yaml:"api_key"  env:"PPQ_API_KEY"`
	Model   string        `yaml:"model"    env:"MURMUR_MODEL"    env-default:"anthropic/claude-sonnet-4.6"`
	BaseURL string        `yaml:"base_url" env:"MURMUR_BASE_URL" env-default:"https://api.ppq.ai"`
	Timeout time.Duration `yaml:"timeout"  env:"MURMUR_TIMEOUT"  env-default:"60s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"MURMUR_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"MURMUR_LOG_FORMAT" env-default:"text"`
}
