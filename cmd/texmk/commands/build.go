package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	var recipeName string

	cmd := &cobra.Command{
		Use:   "build <root-file>",
		Short: "Build a document once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Build(cmd.Context(), args[0], recipeName)
		},
	}
	cmd.Flags().StringVarP(&recipeName, "recipe", "r", "", "Name of the recipe to run, bypassing magic directives")

	return cmd
}
