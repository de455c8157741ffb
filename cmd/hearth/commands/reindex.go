// ABOUTME: CLI command to rebuild the vector index from stored entities
// ABOUTME: Runs the indexing pipeline synchronously over a household's records
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hearthkit/hearth/internal/models"
)

var (
	reindexHousehold int64
	reindexType      string
)

// NewReindexCmd creates the reindex command
func NewReindexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the vector index from stored entities",
		Long: `Re-run the indexing pipeline over a household's entities.

Useful after changing the embedding model or recovering from provider
outages that failed indexing jobs.

Examples:
  hearth reindex --household 1
  hearth reindex --household 1 --type recipe`,
		RunE: runReindex,
	}

	cmd.Flags().Int64Var(&reindexHousehold, "household", 0, "Household id (required)")
	cmd.Flags().StringVar(&reindexType, "type", "", "Limit to one entity type")
	_ = cmd.MarkFlagRequired("household")

	return cmd
}

func runReindex(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt64(reindexHousehold, "household"); err != nil {
		return err
	}

	var docType models.DocumentType
	if reindexType != "" {
		parsed, err := models.ParseDocumentType(reindexType)
		if err != nil {
			return err
		}
		docType = parsed
	}

	e, err := newEngine(true)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.vectors.InitializeCollection(cmd.Context()); err != nil {
		return fmt.Errorf("initializing collection: %w", err)
	}

	entities, err := e.db.ListEntities(reindexHousehold, docType)
	if err != nil {
		return fmt.Errorf("listing entities: %w", err)
	}

	var failed int
	for _, entity := range entities {
		if err := e.indexer.IndexEntity(cmd.Context(), entity); err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "Failed to index %s %d: %v\n", entity.Type, entity.ID, err)
		} else if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %s %d\n", entity.Type, entity.ID)
		}
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Reindexed %d of %d entities\n", len(entities)-failed, len(entities))
	}
	if failed > 0 {
		return fmt.Errorf("%d entities failed to index", failed)
	}
	return nil
}
