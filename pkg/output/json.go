package output

import (
	"context"
	"encoding/json"
	"io"
)

// JSONFormatter formats reports as a single JSON document.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the report as JSON.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		// Quiet mode: just summary
		return encoder.Encode(report.Summary)
	}

	return encoder.Encode(report)
}

// JSONLinesFormatter writes one JSON object per event.
type JSONLinesFormatter struct {
	opts FormatOptions
}

// NewJSONLinesFormatter creates a new JSON lines formatter.
func NewJSONLinesFormatter(opts FormatOptions) *JSONLinesFormatter {
	return &JSONLinesFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONLinesFormatter) Name() string {
	return "jsonl"
}

// Format writes each event on its own line. Quiet mode writes the summary
// as a single line instead.
func (f *JSONLinesFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)

	if f.opts.Quiet {
		return encoder.Encode(report.Summary)
	}

	for _, e := range report.Events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := encoder.Encode(e); err != nil {
			return err
		}
	}
	return nil
}
