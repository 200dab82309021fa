package output

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/ccollicutt/logsift/pkg/parser"
)

func TestNewJSONFormatter(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewJSONFormatter() returned nil")
	}
	if f.Name() != "json" {
		t.Errorf("Name() = %q, want %q", f.Name(), "json")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	report := createTestReport()

	var buf bytes.Buffer
	err := f.Format(context.Background(), report, &buf)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	// Verify it's valid JSON
	var parsed Report
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if parsed.Summary.EventCount != 2 {
		t.Errorf("EventCount = %d, want 2", parsed.Summary.EventCount)
	}
	if len(parsed.Events) != 2 {
		t.Fatalf("len(Events) = %d, want 2", len(parsed.Events))
	}
	if parsed.Events[1].Level != parser.LevelError {
		t.Errorf("Events[1].Level = %q, want Error", parsed.Events[1].Level)
	}
	if parsed.Metadata.RunID != "test-run" {
		t.Errorf("RunID = %q", parsed.Metadata.RunID)
	}
}

func TestJSONFormatter_Format_Quiet(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{Quiet: true})
	report := createTestReport()

	var buf bytes.Buffer
	err := f.Format(context.Background(), report, &buf)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	// Quiet mode should only output summary
	var parsed Summary
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if parsed.EventCount != 2 {
		t.Errorf("EventCount = %d, want 2", parsed.EventCount)
	}
	if parsed.Levels[parser.LevelInfo] != 1 {
		t.Errorf("Levels = %v", parsed.Levels)
	}
}

func TestJSONFormatter_Format_Empty(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	report := &Report{
		Summary: Summary{},
		Events:  []parser.Event{},
	}

	var buf bytes.Buffer
	err := f.Format(context.Background(), report, &buf)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed Report
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
}

func TestJSONLinesFormatter_Format(t *testing.T) {
	f := NewJSONLinesFormatter(FormatOptions{})
	report := createTestReport()

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := []string{
		`{"timestamp":1577836800,"message":"service started","level":"Info"}`,
		`{"timestamp":1577836860,"message":"connection refused","level":"Error"}`,
	}

	scanner := bufio.NewScanner(&buf)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%v", len(lines), len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %s, want %s", i, lines[i], want[i])
		}
	}
}

func TestJSONLinesFormatter_Format_Quiet(t *testing.T) {
	f := NewJSONLinesFormatter(FormatOptions{Quiet: true})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed Summary
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not a JSON summary: %v", err)
	}
	if parsed.FilesParsed != 1 {
		t.Errorf("FilesParsed = %d, want 1", parsed.FilesParsed)
	}
}

func TestJSONLinesFormatter_Format_Cancelled(t *testing.T) {
	f := NewJSONLinesFormatter(FormatOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := f.Format(ctx, createTestReport(), &buf); err != context.Canceled {
		t.Errorf("Format() error = %v, want context.Canceled", err)
	}
}
