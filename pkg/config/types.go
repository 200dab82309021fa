// Package config provides configuration loading and validation for logsift.
package config

import (
	"log/slog"
	"strings"

	"github.com/ccollicutt/logsift/pkg/compression"
)

// Named capture groups every message pattern must define.
const (
	GroupTimestamp = "timestamp"
	GroupLogLevel  = "loglevel"
	GroupMessage   = "message"
)

// RequiredGroups lists the named groups a message pattern must contain.
var RequiredGroups = []string{GroupTimestamp, GroupLogLevel, GroupMessage}

// Config is the parser configuration loaded from YAML.
type Config struct {
	// TimestampFormat controls how the timestamp capture is read.
	// Empty means the capture is integer epoch seconds. A value containing
	// '%' is a strftime format; anything else is a Go time layout.
	// See https://pkg.go.dev/time#pkg-constants for layouts.
	TimestampFormat string `json:"timestamp_format" yaml:"timestamp_format"`

	// EventFilter drops any match whose message contains it literally.
	EventFilter string `json:"event_filter,omitempty" yaml:"event_filter"`

	// MessageFilter is an alias for EventFilter, used when EventFilter is empty.
	MessageFilter string `json:"message_filter,omitempty" yaml:"message_filter,omitempty"`

	// Compression is the declared encoding of every discovered file.
	Compression compression.Format `json:"compression" yaml:"compression"`

	// MessagePattern is a regex with the named groups timestamp, loglevel
	// and message.
	MessagePattern string `json:"message_pattern" yaml:"message_pattern"`

	// LogfilePattern is a glob evaluated relative to the parse root.
	LogfilePattern string `json:"logfile_pattern" yaml:"logfile_pattern"`
}

// Filter returns the effective message filter.
func (c Config) Filter() string {
	if c.EventFilter != "" {
		return c.EventFilter
	}
	return c.MessageFilter
}

// FilterEvent reports whether a message should be dropped.
// Matching is literal substring containment, not a regex.
func (c Config) FilterEvent(message string) bool {
	f := c.Filter()
	return f != "" && strings.Contains(message, f)
}

// LogValue renders the config as a log attribute group.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("timestamp_format", c.TimestampFormat),
		slog.String("compression", c.Compression.String()),
		slog.String("message_pattern", c.MessagePattern),
		slog.String("logfile_pattern", c.LogfilePattern),
		slog.String("event_filter", c.Filter()),
	)
}
