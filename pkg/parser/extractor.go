package parser

import (
	"regexp"

	"github.com/ccollicutt/logsift/pkg/config"
)

// EventExtractor turns log lines into events using the named groups of a
// message pattern. It is read-only after construction and shared across all
// files of a run.
type EventExtractor struct {
	pattern    *regexp.Regexp
	timestamps *config.TimestampReader
	cfg        config.Config

	timestampIdx int
	levelIdx     int
	messageIdx   int
}

// NewEventExtractor compiles the message pattern and timestamp format of cfg.
func NewEventExtractor(cfg config.Config) (*EventExtractor, error) {
	pattern, err := cfg.CompileMessagePattern()
	if err != nil {
		return nil, &Error{Kind: KindConfig, Op: "compile message pattern", Value: cfg.MessagePattern, Err: err}
	}

	timestamps, err := cfg.TimestampReader()
	if err != nil {
		return nil, &Error{Kind: KindConfig, Op: "resolve timestamp format", Value: cfg.TimestampFormat, Err: err}
	}

	return &EventExtractor{
		pattern:      pattern,
		timestamps:   timestamps,
		cfg:          cfg,
		timestampIdx: pattern.SubexpIndex(config.GroupTimestamp),
		levelIdx:     pattern.SubexpIndex(config.GroupLogLevel),
		messageIdx:   pattern.SubexpIndex(config.GroupMessage),
	}, nil
}

// Extract returns one event per non-overlapping match in line, in match
// order, and the number of matches dropped by the event filter.
// A timestamp that cannot be read fails the whole line with a KindData error.
func (e *EventExtractor) Extract(line string) ([]Event, int, error) {
	matches := e.pattern.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return nil, 0, nil
	}

	events := make([]Event, 0, len(matches))
	filtered := 0
	for _, m := range matches {
		message := m[e.messageIdx]
		if e.cfg.FilterEvent(message) {
			filtered++
			continue
		}

		raw := m[e.timestampIdx]
		ts, err := e.timestamps.Read(raw)
		if err != nil {
			return nil, filtered, &Error{Kind: KindData, Op: "read timestamp", Value: raw, Err: err}
		}

		events = append(events, Event{
			Timestamp: ts,
			Message:   message,
			Level:     ParseLogLevel(m[e.levelIdx]),
		})
	}

	return events, filtered, nil
}
