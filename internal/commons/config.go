package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"gandalf/internal/config"
)

// LoadConfig reads configuration from the environment and, when path names
// an existing yaml file, lets the file override the environment values.
// Configuration is read once at startup; there is no hot reload.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}
