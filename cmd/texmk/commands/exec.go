package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newExecCmd() *cobra.Command {
	var cwd string

	cmd := &cobra.Command{
		Use:   "exec <command>...",
		Short: "Run a raw build command through the build gates",
		Long: "Runs a single external command line under build serialization. " +
			"The command line is split by the shell.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.RunExternal(cmd.Context(), strings.Join(args, " "), cwd)
		},
	}
	cmd.Flags().StringVar(&cwd, "cwd", ".", "Working directory for the command")

	return cmd
}
