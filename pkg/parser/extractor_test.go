package parser

import (
	"testing"

	"github.com/ccollicutt/logsift/pkg/config"
)

const epochPattern = `(?P<timestamp>\d+) (?P<loglevel>[A-Za-z]+) (?P<message>[^;]*)`

func TestEventExtractor_Extract(t *testing.T) {
	ex, err := NewEventExtractor(config.Config{MessagePattern: epochPattern})
	if err != nil {
		t.Fatalf("NewEventExtractor() error = %v", err)
	}

	tests := []struct {
		name string
		line string
		want []Event
	}{
		{
			name: "single match",
			line: "100 INFO hello",
			want: []Event{{Timestamp: 100, Message: "hello", Level: LevelInfo}},
		},
		{
			name: "multiple matches",
			line: "100 INFO first;200 error second;300 trace third",
			want: []Event{
				{Timestamp: 100, Message: "first", Level: LevelInfo},
				{Timestamp: 200, Message: "second", Level: LevelError},
				{Timestamp: 300, Message: "third", Level: LevelUnknown},
			},
		},
		{
			name: "no match",
			line: "not a log line",
		},
		{
			name: "empty line",
			line: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, filtered, err := ex.Extract(tt.line)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if filtered != 0 {
				t.Errorf("Extract() filtered = %d, want 0", filtered)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Extract() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Extract()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEventExtractor_Filter(t *testing.T) {
	ex, err := NewEventExtractor(config.Config{MessagePattern: epochPattern, EventFilter: "secret"})
	if err != nil {
		t.Fatalf("NewEventExtractor() error = %v", err)
	}

	got, filtered, err := ex.Extract("1 INFO a secret value;2 INFO public")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if filtered != 1 {
		t.Errorf("filtered = %d, want 1", filtered)
	}
	if len(got) != 1 || got[0].Message != "public" {
		t.Errorf("Extract() = %v, want only the public event", got)
	}
}

func TestEventExtractor_FilteredMatchSkipsTimestamp(t *testing.T) {
	pattern := `(?P<timestamp>\S+) (?P<loglevel>\w+) (?P<message>.*)`
	ex, err := NewEventExtractor(config.Config{MessagePattern: pattern, EventFilter: "drop"})
	if err != nil {
		t.Fatalf("NewEventExtractor() error = %v", err)
	}

	// The timestamp is unreadable, but the match is dropped first.
	got, filtered, err := ex.Extract("notanumber INFO drop me")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got) != 0 || filtered != 1 {
		t.Errorf("Extract() = %v, filtered %d", got, filtered)
	}
}

func TestEventExtractor_BadTimestamp(t *testing.T) {
	pattern := `(?P<timestamp>\S+) (?P<loglevel>\w+) (?P<message>.*)`
	ex, err := NewEventExtractor(config.Config{MessagePattern: pattern})
	if err != nil {
		t.Fatalf("NewEventExtractor() error = %v", err)
	}

	_, _, err = ex.Extract("yesterday INFO hello")
	if !IsKind(err, KindData) {
		t.Fatalf("Extract() error = %v, want data error", err)
	}
	perr := err.(*Error)
	if perr.Value != "yesterday" {
		t.Errorf("Error.Value = %q, want %q", perr.Value, "yesterday")
	}
}

func TestEventExtractor_LayoutTimestamp(t *testing.T) {
	cfg := config.Config{
		MessagePattern:  `^(?P<timestamp>\S+) (?P<loglevel>\w+) (?P<message>.*)$`,
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	}
	ex, err := NewEventExtractor(cfg)
	if err != nil {
		t.Fatalf("NewEventExtractor() error = %v", err)
	}

	got, _, err := ex.Extract("2020-01-01T00:00:00Z INFO hello")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := Event{Timestamp: 1577836800, Message: "hello", Level: LevelInfo}
	if len(got) != 1 || got[0] != want {
		t.Errorf("Extract() = %v, want [%v]", got, want)
	}
}

func TestNewEventExtractor_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"unnamed groups", config.Config{MessagePattern: `(\d+) (\w+) (.*)`}},
		{"bad regex", config.Config{MessagePattern: `(?P<timestamp>`}},
		{"too few groups", config.Config{MessagePattern: `(?P<message>.*)`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEventExtractor(tt.cfg)
			if !IsKind(err, KindConfig) {
				t.Errorf("NewEventExtractor() error = %v, want config error", err)
			}
		})
	}
}
