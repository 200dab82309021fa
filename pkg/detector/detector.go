// Package detector suggests a parser configuration for a log file by
// sampling its lines and testing them against common timestamp layouts.
package detector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ccollicutt/logsift/pkg/compression"
	"github.com/ccollicutt/logsift/pkg/config"
	"github.com/ccollicutt/logsift/pkg/parser"
)

// DefaultSampleSize is the number of lines sampled when no size is set.
const DefaultSampleSize = 100

// DetectionResult holds the result of analyzing a log file.
type DetectionResult struct {
	Matches       []FormatMatch // Formats that matched, sorted by confidence descending
	SampledLines  int           // Number of lines sampled
	ParsedLines   int           // Number of lines the best match parsed
	AmbiguityNote string        // Warning about date ordering if applicable
}

// FormatMatch is a format that parsed at least one sampled line.
type FormatMatch struct {
	Format     *TimestampFormat
	Confidence float64 // 0.0 to 1.0 (fraction of sampled lines parsed)
	MatchCount int     // Lines the suggested message pattern parsed
	LevelCount int     // Of those, lines with a recognized log level
	SampleLine string  // First line that matched
	Sample     parser.Event
}

// Config returns a configuration that parses the matched lines.
func (m FormatMatch) Config(logfilePattern string, format compression.Format) *config.Config {
	return &config.Config{
		TimestampFormat: m.Format.Layout,
		Compression:     format,
		MessagePattern:  m.Format.MessagePattern(),
		LogfilePattern:  logfilePattern,
	}
}

// Detector analyzes log files to identify timestamp formats.
type Detector struct {
	formats     []*TimestampFormat
	sampleSize  int
	compression compression.Format
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithCompression sets how files are decoded before sampling.
func WithCompression(f compression.Format) Option {
	return func(d *Detector) {
		d.compression = f
	}
}

// New creates a new Detector with default formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:     DefaultFormats(),
		sampleSize:  DefaultSampleSize,
		compression: compression.FormatNone,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile decodes a log file and analyzes its leading lines.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path) // #nosec G304 -- path is provided by user via CLI
	if err != nil {
		return nil, err
	}

	data, err := compression.Decode(d.compression, raw)
	if err != nil {
		return nil, err
	}

	return d.DetectFromLines(d.sample(string(data))), nil
}

// sample returns up to sampleSize non-blank, non-comment lines.
func (d *Detector) sample(text string) []string {
	var lines []string
	for line := range strings.SplitSeq(text, "\n") {
		if len(lines) >= d.sampleSize {
			break
		}
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// DetectFromLines analyzes a slice of log lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		SampledLines: len(lines),
	}

	if len(lines) == 0 {
		return result
	}

	for _, format := range d.formats {
		if m, ok := d.match(format, lines); ok {
			m.Confidence = float64(m.MatchCount) / float64(len(lines))
			result.Matches = append(result.Matches, m)
		}
	}

	// Highest confidence first; ties keep the more specific format, which
	// DefaultFormats lists earlier.
	slices.SortStableFunc(result.Matches, func(a, b FormatMatch) int {
		switch {
		case a.MatchCount > b.MatchCount:
			return -1
		case a.MatchCount < b.MatchCount:
			return 1
		default:
			return b.LevelCount - a.LevelCount
		}
	})

	if best := result.BestMatch(); best != nil {
		result.ParsedLines = best.MatchCount
		if best.Format.Ambiguous {
			result.AmbiguityNote = "This format has date ordering ambiguity (MM/DD vs DD/MM). " +
				"Verify the layout matches your log format. " +
				"For European format (DD/MM/YYYY), use timestamp_format: \"02/01/2006 15:04:05\""
		}
	}

	return result
}

// match counts the lines format's message pattern parses. A line counts
// only if its timestamp also reads.
func (d *Detector) match(format *TimestampFormat, lines []string) (FormatMatch, bool) {
	m := FormatMatch{Format: format}
	tsIdx := format.pattern.SubexpIndex(config.GroupTimestamp)
	levelIdx := format.pattern.SubexpIndex(config.GroupLogLevel)
	msgIdx := format.pattern.SubexpIndex(config.GroupMessage)

	for _, line := range lines {
		groups := format.pattern.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		ts, err := format.reader.Read(groups[tsIdx])
		if err != nil {
			continue
		}

		level := parser.ParseLogLevel(groups[levelIdx])
		if m.MatchCount == 0 {
			m.SampleLine = line
			m.Sample = parser.Event{Timestamp: ts, Message: groups[msgIdx], Level: level}
		}
		m.MatchCount++
		if level != parser.LevelUnknown {
			m.LevelCount++
		}
	}

	return m, m.MatchCount > 0
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}

// LogfilePatternFor suggests a logfile_pattern that picks up files like
// path: "*" plus its extension, or its base name when it has none.
func LogfilePatternFor(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		return "*" + ext
	}
	return base
}

// Header returns the comment block written above a detected configuration.
func Header(path string, m FormatMatch) string {
	return fmt.Sprintf("# logsift parser configuration\n"+
		"# Generated by: logsift detect %s\n"+
		"# Detected format: %s (%.0f%% of sampled lines)\n", path, m.Format.Name, m.Confidence*100)
}
