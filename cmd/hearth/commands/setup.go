// ABOUTME: CLI command to bootstrap storage
// ABOUTME: Creates the vector collection, payload indexes, and SQLite schema
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSetupCmd creates the setup command
func NewSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Initialize the vector collection and local database",
		Long: `Initialize hearth storage.

Creates the vector store collection with its payload indexes if absent,
and opens (migrating if needed) the local entity database. Safe to run
repeatedly.`,
		RunE: runSetup,
	}
	return cmd
}

func runSetup(cmd *cobra.Command, args []string) error {
	e, err := newEngine(false)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.vectors.InitializeCollection(cmd.Context()); err != nil {
		return fmt.Errorf("initializing collection: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Collection %q ready (dimension %d)\n", e.cfg.Collection, e.cfg.VectorDimension)
		fmt.Fprintf(cmd.OutOrStdout(), "Database ready at %s\n", e.db.Path())
	}
	return nil
}
