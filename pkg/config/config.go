package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingGroups is returned when a message pattern lacks one or more of
// the required named capture groups.
var ErrMissingGroups = errors.New("message_pattern is missing required named groups")

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors.
func Validate(cfg *Config) error {
	if cfg.MessagePattern == "" {
		return errors.New("message_pattern: pattern is required")
	}

	if _, err := cfg.CompileMessagePattern(); err != nil {
		return fmt.Errorf("message_pattern: %w", err)
	}

	if cfg.LogfilePattern == "" {
		return errors.New("logfile_pattern: pattern is required")
	}

	if _, err := cfg.TimestampReader(); err != nil {
		return fmt.Errorf("timestamp_format: %w", err)
	}

	return nil
}

// CompileMessagePattern compiles MessagePattern and checks that it defines
// every group in RequiredGroups by name. A pattern with enough unnamed groups
// still fails.
func (c Config) CompileMessagePattern() (*regexp.Regexp, error) {
	re, err := regexp.Compile(c.MessagePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	var missing []string
	for _, name := range RequiredGroups {
		if re.SubexpIndex(name) < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s (found %d capture groups)",
			ErrMissingGroups, strings.Join(missing, ", "), re.NumSubexp())
	}

	return re, nil
}
