// Package output provides formatting for parsed log events.
package output

import (
	"time"

	"github.com/ccollicutt/logsift/pkg/parser"
)

// Report is the complete output of a parse run.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary" yaml:"summary"`

	// Events are the extracted events in parse order.
	Events []parser.Event `json:"events" yaml:"events"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata" yaml:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// FilesParsed is the number of files read (directories excluded).
	FilesParsed int `json:"files_parsed" yaml:"files_parsed"`

	// EventCount is the number of events extracted.
	EventCount int `json:"event_count" yaml:"event_count"`

	// Levels counts events per log level.
	Levels map[parser.LogLevel]int `json:"levels" yaml:"levels"`

	// FirstTimestamp and LastTimestamp bound the event timestamps, in epoch
	// seconds. Both are zero when there are no events.
	FirstTimestamp int64 `json:"first_timestamp" yaml:"first_timestamp"`
	LastTimestamp  int64 `json:"last_timestamp" yaml:"last_timestamp"`
}

// Metadata provides context about the run.
type Metadata struct {
	// RunID identifies this run in logs and webhook payloads.
	RunID string `json:"run_id" yaml:"run_id"`

	// ConfigFile is the path to the configuration file used.
	ConfigFile string `json:"config_file,omitempty" yaml:"config_file,omitempty"`

	// Root is the directory log files were discovered under.
	Root string `json:"root" yaml:"root"`

	// Sources lists the files that were parsed.
	Sources []string `json:"sources" yaml:"sources"`

	// ParsedAt is when the run started.
	ParsedAt time.Time `json:"parsed_at" yaml:"parsed_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// NewReport builds a Report from a completed parser. meta.Root and
// meta.Sources are filled in from the parser.
func NewReport(p *parser.Parser, meta Metadata) *Report {
	report := &Report{
		Events:   []parser.Event{},
		Metadata: meta,
		Summary: Summary{
			Levels: make(map[parser.LogLevel]int),
		},
	}
	report.Metadata.Root = p.Root()
	report.Metadata.Sources = p.Files()
	report.Summary.FilesParsed = len(report.Metadata.Sources)

	for e := range p.Events() {
		report.add(e)
	}

	return report
}

func (r *Report) add(e parser.Event) {
	if len(r.Events) == 0 || e.Timestamp < r.Summary.FirstTimestamp {
		r.Summary.FirstTimestamp = e.Timestamp
	}
	if len(r.Events) == 0 || e.Timestamp > r.Summary.LastTimestamp {
		r.Summary.LastTimestamp = e.Timestamp
	}
	r.Events = append(r.Events, e)
	r.Summary.EventCount++
	r.Summary.Levels[e.Level]++
}

// HasEvents returns true if any events were extracted.
func (r *Report) HasEvents() bool {
	return r.Summary.EventCount > 0
}
