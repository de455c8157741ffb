// ABOUTME: Root Cobra command wiring for the hearth CLI
// ABOUTME: Registers subcommands and shared flags
package commands

import (
	"github.com/spf13/cobra"
)

var (
	quiet   bool
	verbose bool
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hearth",
		Short: "Household RAG engine",
		Long: `hearth answers natural-language questions about your household data.

It indexes health logs, recipes, pantry items, and goals into a vector
store, then answers questions grounded in and cited against that data.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	root.AddCommand(NewSetupCmd())
	root.AddCommand(NewAddCmd())
	root.AddCommand(NewAskCmd())
	root.AddCommand(NewListCmd())
	root.AddCommand(NewReindexCmd())
	root.AddCommand(NewServeCmd())
	root.AddCommand(NewVersionCmd())

	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
