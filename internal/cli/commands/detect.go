package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logsift/internal/logging"
	"github.com/ccollicutt/logsift/pkg/compression"
	"github.com/ccollicutt/logsift/pkg/config"
	"github.com/ccollicutt/logsift/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	Compression string
	WriteConfig string
	Force       bool
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Suggest a configuration for a log file",
		Long: `Sample a log file and suggest message_pattern and timestamp_format values.

Lines are tested against common leading timestamp layouts followed by a
level token and a message. The suggested pattern is checked against every
sampled line and reported with the fraction of lines it parses.

Supports:
  - RFC 3339 / ISO 8601 variants
  - Bracketed, Python, Log4j and space-separated datetimes
  - Syslog with year, Apache error log, Spark/Hadoop short dates
  - Unix timestamps (seconds)

Example:
  logsift detect /var/log/myapp.log
  logsift detect --compression gzip /var/log/myapp.log.1.gz
  logsift detect -w logsift.yaml /var/log/app.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all detected formats, not just the best match")
	cmd.Flags().StringVar(&opts.Compression, "compression", "none", "Decode the file first (gzip|zlib|zip|lz4|tar|none)")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write the suggested config to file")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite the --write-config file if it exists")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	format := compression.ParseFormat(opts.Compression)
	d := detector.New(
		detector.WithSampleSize(opts.SampleSize),
		detector.WithCompression(format),
	)

	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}
	logging.FromContext(ctx).Debug("sampled log file",
		"path", logFile,
		"lines", result.SampledLines,
		"formats", len(result.Matches))

	if opts.WriteConfig != "" {
		if err := writeDetectedConfig(out, result, logFile, format, opts); err != nil {
			return err
		}
	}

	if opts.Output == "json" {
		return outputDetectJSON(out, result, logFile, format, opts)
	}
	return outputDetectText(out, result, logFile, format, opts)
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string, format compression.Format, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Format Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", logFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Lines parsed: %d\n", result.ParsedLines)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No timestamp format detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: The file may use an uncommon format, or lines may lack a level token.")
		fmt.Fprintln(w, "Write message_pattern by hand; it needs the groups timestamp, loglevel and message.")
		return nil
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Detected Format: %s\n", best.Format.Name)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d lines parsed, %d with a known level)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines, best.LevelCount)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
	fmt.Fprintf(w, "Parsed as: %s\n", best.Sample)
	fmt.Fprintln(w)

	if result.AmbiguityNote != "" {
		fmt.Fprintf(w, "WARNING: %s\n", result.AmbiguityNote)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "--- Configuration (copy to your config file) ---")
	fmt.Fprintln(w)
	cfg := best.Config(detector.LogfilePatternFor(logFile), format)
	if err := config.Encode(w, cfg, ""); err != nil {
		return err
	}
	fmt.Fprintln(w)

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- Alternative formats detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence)\n", i+2, m.Format.Name, m.Confidence*100)
			fmt.Fprintf(w, "   message_pattern: '%s'\n", m.Format.MessagePattern())
			fmt.Fprintf(w, "   timestamp_format: \"%s\"\n", m.Format.Layout)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// JSONMatch represents a format match in JSON output.
type JSONMatch struct {
	Name            string  `json:"name"`
	MessagePattern  string  `json:"message_pattern"`
	TimestampFormat string  `json:"timestamp_format"`
	Confidence      float64 `json:"confidence"`
	MatchCount      int     `json:"match_count"`
	LevelCount      int     `json:"level_count"`
	SampleLine      string  `json:"sample_line"`
	Ambiguous       bool    `json:"ambiguous,omitempty"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File          string         `json:"file"`
	Compression   string         `json:"compression"`
	Matches       []JSONMatch    `json:"matches"`
	SampledLines  int            `json:"sampled_lines"`
	ParsedLines   int            `json:"parsed_lines"`
	AmbiguityNote string         `json:"ambiguity_note,omitempty"`
	Config        *config.Config `json:"config,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, logFile string, format compression.Format, opts *DetectOptions) error {
	out := JSONOutput{
		File:          logFile,
		Compression:   format.String(),
		SampledLines:  result.SampledLines,
		ParsedLines:   result.ParsedLines,
		AmbiguityNote: result.AmbiguityNote,
		Matches:       make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1] // Only show best match
	}

	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:            m.Format.Name,
			MessagePattern:  m.Format.MessagePattern(),
			TimestampFormat: m.Format.Layout,
			Confidence:      m.Confidence,
			MatchCount:      m.MatchCount,
			LevelCount:      m.LevelCount,
			SampleLine:      m.SampleLine,
			Ambiguous:       m.Format.Ambiguous,
		})
	}

	if best := result.BestMatch(); best != nil {
		out.Config = best.Config(detector.LogfilePatternFor(logFile), format)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeDetectedConfig saves the best match as a config file.
func writeDetectedConfig(w io.Writer, result *detector.DetectionResult, logFile string, format compression.Format, opts *DetectOptions) error {
	best := result.BestMatch()
	if best == nil {
		return fmt.Errorf("cannot generate config: no timestamp format detected")
	}

	cfg := best.Config(detector.LogfilePatternFor(logFile), format)
	if err := config.Save(opts.WriteConfig, cfg, detector.Header(logFile, *best), opts.Force); err != nil {
		return err
	}

	// Keep JSON output parseable.
	if opts.Output == "text" {
		fmt.Fprintf(w, "Wrote config to: %s\n\n", opts.WriteConfig)
	}
	return nil
}
