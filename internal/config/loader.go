package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfigPath names the variable consulted when Load gets no path.
const EnvConfigPath = "MURMUR_CONFIG"

// Load reads configuration with priority ENV > YAML > defaults.
//
// The YAML file is path, or $MURMUR_CONFIG when path is empty. With neither
// set, configuration comes from the environment and defaults only. A named
// file that does not exist is an error.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}
