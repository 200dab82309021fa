// Package parser discovers log files, extracts structured events from them
// and accumulates the events for output.
package parser

import (
	"fmt"
	"strings"
	"time"
)

// LogLevel is the severity of an Event. Values are the variant names and
// serialize as such.
type LogLevel string

const (
	LevelDebug    LogLevel = "Debug"
	LevelInfo     LogLevel = "Info"
	LevelWarning  LogLevel = "Warning"
	LevelWarn     LogLevel = "Warn"
	LevelCritical LogLevel = "Critical"
	LevelError    LogLevel = "Error"
	LevelUnknown  LogLevel = "Unknown"
)

// Levels lists every LogLevel in declaration order.
func Levels() []LogLevel {
	return []LogLevel{LevelDebug, LevelInfo, LevelWarning, LevelWarn, LevelCritical, LevelError, LevelUnknown}
}

// ParseLogLevel maps a level token case-insensitively.
// Unrecognized tokens map to LevelUnknown.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warning":
		return LevelWarning
	case "warn":
		return LevelWarn
	case "critical":
		return LevelCritical
	case "error":
		return LevelError
	default:
		return LevelUnknown
	}
}

// Event is one record extracted from a single regex match on a log line.
type Event struct {
	// Timestamp is in epoch seconds.
	Timestamp int64    `json:"timestamp" yaml:"timestamp"`
	Message   string   `json:"message" yaml:"message"`
	Level     LogLevel `json:"level" yaml:"level"`
}

// Time returns the event timestamp in UTC.
func (e Event) Time() time.Time {
	return time.Unix(e.Timestamp, 0).UTC()
}

func (e Event) String() string {
	return fmt.Sprintf("%d:%s - %s", e.Timestamp, e.Level, e.Message)
}
