package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logsift/internal/logging"
	"github.com/ccollicutt/logsift/pkg/config"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init <config-file>",
		Short: "Write a template configuration file",
		Long: `Write a commented template configuration to <config-file>.

The template parses lines of the form
  2024-01-15T10:00:00Z INFO service started
from *.log files. Edit message_pattern and timestamp_format to match
your logs, then check the result with "logsift validate".

An existing file is not overwritten unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := config.GenerateTemplate(path, force); err != nil {
				return fmt.Errorf("writing template: %w", err)
			}
			logging.FromContext(cmd.Context()).Info("wrote template config", "path", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
