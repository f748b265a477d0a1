package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (APIVET_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: APIVET_BASE_URL -> base_url, and
	// APIVET_HTTP__READ_TIMEOUT -> http.read_timeout.
	if err := k.Load(env.Provider("APIVET_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "APIVET_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validFormats is the set of recognized report output formats.
var validFormats = map[OutputFormat]bool{
	FormatHTML: true,
	FormatJSON: true,
	FormatBoth: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Reporting.OutputDir == "" {
		return fmt.Errorf("reporting.output_dir is required")
	}
	if c.Reporting.OutputFormat != "" && !validFormats[c.Reporting.OutputFormat] {
		return fmt.Errorf("invalid reporting.output_format %q: must be one of html, json, both", c.Reporting.OutputFormat)
	}
	if c.Reporting.MaxResponseBodyBytes < 0 {
		return fmt.Errorf("reporting.max_response_body_size must be non-negative")
	}
	if c.HTTP.ConnectTimeoutSec <= 0 {
		return fmt.Errorf("http.connect_timeout must be positive")
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		return fmt.Errorf("http.read_timeout must be positive")
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must be non-negative")
	}
	if c.Validation.MaxConcurrency < 0 {
		return fmt.Errorf("validation.max_concurrency must be non-negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	return nil
}
