package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/logsift/internal/logging"
	"github.com/ccollicutt/logsift/pkg/config"
	"github.com/ccollicutt/logsift/pkg/metrics"
	"github.com/ccollicutt/logsift/pkg/output"
	"github.com/ccollicutt/logsift/pkg/parser"
	"github.com/ccollicutt/logsift/pkg/webhook"
)

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	Config      string
	Output      string
	Quiet       bool
	NoColor     bool
	MetricsFile string

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTimeout time.Duration
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <root>",
		Short: "Parse log files under a directory",
		Long: `Parse the log files under <root> that match the configured logfile_pattern.

Each file is decompressed according to the configured compression, split
into lines, and matched against message_pattern. Every match becomes an
event with a timestamp, level and message.

Exit codes:
  0 - Parse completed
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Path to the YAML configuration file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json|jsonl|yaml)")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no events")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "Disable colored text output")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this path")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().DurationVar(&opts.WebhookTimeout, "webhook-timeout", webhook.DefaultTimeout, "Webhook request timeout")

	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	root := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Fail on a bad output format before touching any files.
	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Quiet: opts.Quiet,
		Color: !opts.NoColor,
	})
	if err != nil {
		return err
	}

	cfg, err := config.Load(ctx, opts.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	runID := uuid.NewString()
	logger := logging.FromContext(ctx).With("run_id", runID)
	logger.Debug("loaded config", "path", opts.Config, "config", cfg)

	recorder := metrics.NewRecorder()
	start := time.Now()

	p := parser.New(root, *cfg,
		parser.WithLogger(logger),
		parser.WithRecorder(recorder),
	)
	parseErr := p.Parse(ctx)

	// Metrics are written for failed runs too.
	if opts.MetricsFile != "" {
		if err := recorder.WriteTextfile(opts.MetricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	if parseErr != nil {
		return fmt.Errorf("parsing %s: %w", root, parseErr)
	}

	report := output.NewReport(p, output.Metadata{
		RunID:      runID,
		ConfigFile: opts.Config,
		ParsedAt:   start.UTC(),
		Duration:   time.Since(start),
	})

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Webhook failures are logged but don't fail the run.
	if opts.WebhookURL != "" {
		webhook.NewClient(webhook.WithLogger(logger)).Send(ctx, report, webhook.SendOptions{
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Timeout: opts.WebhookTimeout,
		})
	}

	return nil
}
