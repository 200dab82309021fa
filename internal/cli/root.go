// Package cli provides the command-line interface for logsift.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ccollicutt/logsift/internal/cli/commands"
	"github.com/ccollicutt/logsift/internal/logging"
)

// EnvPrefix prefixes environment variables that override global flags,
// e.g. LOGSIFT_LOG_LEVEL for --log-level.
const EnvPrefix = "LOGSIFT"

// Execute runs the root command and returns the exit code.
func Execute() int {
	return Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes the command line args and returns the exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCommand(viper.New())
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return 0
}

// NewRootCommand creates the root cobra command. Global flags are bound to
// v so they can also be set from the environment.
func NewRootCommand(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "logsift",
		Short: "Extract structured events from log files",
		Long: `logsift is a batch log parsing tool.

It discovers log files under a root directory with a glob pattern,
decompresses them (gzip, zlib, zip), and extracts timestamped, levelled
events from each line with a named-group regular expression.

The expression must define the groups timestamp, loglevel and message.

Global flags can also be set from the environment:
  LOGSIFT_LOG_LEVEL   debug|info|warn|error
  LOGSIFT_LOG_FORMAT  text|json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(cmd.ErrOrStderr(), v.GetString("log-level"), v.GetString("log-format"))
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logging.NewContext(ctx, logger))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "warn", "Log level (debug|info|warn|error)")
	flags.String("log-format", "text", "Log format (text|json)")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlag("log-level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log-format", flags.Lookup("log-format"))

	// Add subcommands
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
