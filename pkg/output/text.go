package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ccollicutt/logsift/pkg/parser"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(ctx, report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "logsift: %d files parsed, %d events\n",
		report.Summary.FilesParsed,
		report.Summary.EventCount)
	return err
}

func (f *TextFormatter) formatFull(ctx context.Context, report *Report, w io.Writer) error {
	st := newStyles(w, f.opts.Color)

	fmt.Fprintln(w, "=== logsift events ===")
	fmt.Fprintln(w)

	for _, e := range report.Events {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s %s\n",
			st.stamp(e.Time()),
			st.level(e.Level),
			e.Message)
	}

	if len(report.Events) > 0 {
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d files parsed, %d events\n",
		report.Summary.FilesParsed,
		report.Summary.EventCount)

	if report.HasEvents() {
		fmt.Fprintf(w, "Levels: %s\n", formatLevels(report.Summary.Levels))
		fmt.Fprintf(w, "Time range: %s to %s\n",
			time.Unix(report.Summary.FirstTimestamp, 0).UTC().Format(time.RFC3339),
			time.Unix(report.Summary.LastTimestamp, 0).UTC().Format(time.RFC3339))
	}

	_, err := fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))
	return err
}

// formatLevels lists non-zero level counts in declaration order.
func formatLevels(levels map[parser.LogLevel]int) string {
	var parts []string
	for _, level := range parser.Levels() {
		if n := levels[level]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", level, n))
		}
	}
	return strings.Join(parts, " ")
}

type styles struct {
	enabled   bool
	timestamp lipgloss.Style
	debug     lipgloss.Style
	info      lipgloss.Style
	warn      lipgloss.Style
	err       lipgloss.Style
	critical  lipgloss.Style
	unknown   lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		enabled:   color,
		timestamp: r.NewStyle().Faint(true),
		debug:     r.NewStyle().Foreground(lipgloss.Color("245")).Faint(true),
		info:      r.NewStyle().Foreground(lipgloss.Color("39")),
		warn:      r.NewStyle().Foreground(lipgloss.Color("220")),
		err:       r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		critical: r.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true),
		unknown: r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

func (s styles) stamp(t time.Time) string {
	ts := t.Format(time.RFC3339)
	if !s.enabled {
		return ts
	}
	return s.timestamp.Render(ts)
}

func (s styles) level(level parser.LogLevel) string {
	tag := fmt.Sprintf("%-8s", strings.ToUpper(string(level)))
	if !s.enabled {
		return tag
	}
	switch level {
	case parser.LevelDebug:
		return s.debug.Render(tag)
	case parser.LevelInfo:
		return s.info.Render(tag)
	case parser.LevelWarn, parser.LevelWarning:
		return s.warn.Render(tag)
	case parser.LevelError:
		return s.err.Render(tag)
	case parser.LevelCritical:
		return s.critical.Render(tag)
	default:
		return s.unknown.Render(tag)
	}
}
