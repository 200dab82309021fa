package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/logsift/pkg/compression"
)

// Default values for configuration.
const (
	DefaultLogfilePattern = "*"

	TemplateMessagePattern  = `^(?P<timestamp>\S+)\s+(?P<loglevel>[A-Za-z]+)\s+(?P<message>.*)$`
	TemplateTimestampFormat = "2006-01-02T15:04:05Z07:00"
	TemplateLogfilePattern  = "*.log"
)

// Environment variable names.
const (
	EnvTimestampFormat = "LOGSIFT_TIMESTAMP_FORMAT"
	EnvCompression     = "LOGSIFT_COMPRESSION"
	EnvLogfilePattern  = "LOGSIFT_LOGFILE_PATTERN"
	EnvEventFilter     = "LOGSIFT_EVENT_FILTER"
)

const templateHeader = `# logsift parser configuration
#
# message_pattern must define the named groups timestamp, loglevel and message.
# timestamp_format is a Go time layout, a strftime format (contains '%'),
# or empty to read the timestamp as integer epoch seconds.
# compression is one of gzip, zlib, zip, lz4, tar, none.
`

// DefaultConfig returns the configuration that a loaded document is decoded over.
func DefaultConfig() *Config {
	return &Config{
		Compression:    compression.FormatNone,
		LogfilePattern: DefaultLogfilePattern,
	}
}

// TemplateConfig returns a filled-in example configuration.
func TemplateConfig() *Config {
	return &Config{
		TimestampFormat: TemplateTimestampFormat,
		Compression:     compression.FormatNone,
		MessagePattern:  TemplateMessagePattern,
		LogfilePattern:  TemplateLogfilePattern,
	}
}

// WriteTemplate writes the template configuration as YAML.
func WriteTemplate(w io.Writer) error {
	return Encode(w, TemplateConfig(), templateHeader)
}

// GenerateTemplate writes the template configuration to path. An existing
// file is only replaced when force is set.
func GenerateTemplate(path string, force bool) error {
	return Save(path, TemplateConfig(), templateHeader, force)
}

// Encode writes header followed by cfg as YAML.
func Encode(w io.Writer, cfg *Config, header string) error {
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

// Save writes cfg to path with Encode. An existing file is only replaced
// when force is set.
func Save(path string, cfg *Config, header string, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}

	if err := Encode(f, cfg, header); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v, ok := os.LookupEnv(EnvTimestampFormat); ok {
		c.TimestampFormat = v
	}
	if v := os.Getenv(EnvCompression); v != "" {
		c.Compression = compression.ParseFormat(v)
	}
	if v := os.Getenv(EnvLogfilePattern); v != "" {
		c.LogfilePattern = v
	}
	if v := os.Getenv(EnvEventFilter); v != "" {
		c.EventFilter = v
	}
}
