package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logsift/internal/logging"
	"github.com/ccollicutt/logsift/pkg/config"
	"github.com/ccollicutt/logsift/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file> [root]",
		Short: "Validate a configuration file",
		Long: `Validate a logsift configuration file without parsing any logs.

Checks:
  - YAML syntax
  - message_pattern compiles and defines timestamp, loglevel and message
  - logfile_pattern is set
  - timestamp_format is usable

If [root] is given, the files logfile_pattern matches under it are listed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	timestampFormat := cfg.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = "(epoch seconds)"
	}
	filter := cfg.Filter()
	if filter == "" {
		filter = "(none)"
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Message pattern:  %s\n", cfg.MessagePattern)
	fmt.Fprintf(out, "  Timestamp format: %s\n", timestampFormat)
	fmt.Fprintf(out, "  Compression:      %s\n", cfg.Compression)
	fmt.Fprintf(out, "  Logfile pattern:  %s\n", cfg.LogfilePattern)
	fmt.Fprintf(out, "  Event filter:     %s\n", filter)

	if len(args) < 2 {
		return nil
	}

	// Check which files would be parsed (warnings only)
	root := args[1]
	files, err := parser.Discover(logging.FromContext(ctx), root, cfg.LogfilePattern)
	if err != nil {
		fmt.Fprintf(out, "\nWarning: Error expanding logfile pattern: %v\n", err)
	} else if len(files) == 0 {
		fmt.Fprintf(out, "\nWarning: No files under %s match %s\n", root, cfg.LogfilePattern)
	} else {
		fmt.Fprintf(out, "\nLog files matched: %d\n", len(files))
		for _, f := range files {
			fmt.Fprintf(out, "  - %s\n", f)
		}
	}

	return nil
}
