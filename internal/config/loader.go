package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "ULTRASMART_"

// Load builds a Config by layering sources, lowest precedence first:
//  1. defaults (Default())
//  2. YAML file: $ULTRASMART_CONFIG if set, else ~/.ultrasmart/config.yaml
//  3. environment (prefix ULTRASMART_, "__" separates nesting levels,
//     e.g. ULTRASMART_ANALYSIS__REST__PACE_RATIO)
//
// A missing default file is fine; a missing file named by
// ULTRASMART_CONFIG is an error.
func Load() (*Config, error) {
	cfg := Default()
	k := koanf.New(".")

	explicit := os.Getenv(envPrefix + "CONFIG")
	path := explicit
	if path == "" {
		path, _ = DefaultFile()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		} else if explicit != "" {
			return nil, fmt.Errorf("config file %s: %w", explicit, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		if s == "CONFIG" {
			return "" // path override, not a config key
		}
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultFile returns the path of the default config file
func DefaultFile() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Dir returns the application's config and data directory
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".ultrasmart"), nil
}

const exampleConfig = `# ultrasmart configuration. Every key is optional; defaults apply when
# a key is absent. Environment variables with the ULTRASMART_ prefix
# override file values ("__" separates nesting levels).

# db_path: /path/to/data.db

log:
  level: info   # debug, info, warn, error
  format: text  # text or json

strava:
  client_id: YOUR_CLIENT_ID
  client_secret: YOUR_CLIENT_SECRET
  redirect_port: 8089

analysis:
  rest:
    pace_ratio: 1.3
    absolute_slow_pace: 35.0
  fatigue:
    default_base_pace: 12.0
`

// WriteExample creates a commented example config file if none exists
func WriteExample() (string, error) {
	path, err := DefaultFile()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil // don't overwrite an existing config
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(exampleConfig), 0600); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}
