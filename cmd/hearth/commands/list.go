// ABOUTME: CLI command to list household entities
// ABOUTME: Shows stored records with type, title, and last update time
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hearthkit/hearth/internal/models"
)

var (
	listHousehold int64
	listType      string
	listFormat    string
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored household records",
		Long: `List the entities stored for a household.

Shows records ordered by last update, optionally filtered by type.

Examples:
  hearth list --household 1
  hearth list --household 1 --type recipe
  hearth list --household 1 --format json`,
		RunE: runList,
	}

	cmd.Flags().Int64Var(&listHousehold, "household", 0, "Household ID (required)")
	cmd.Flags().StringVar(&listType, "type", "", "Filter by document type")
	cmd.Flags().StringVar(&listFormat, "format", "text", "Output format (text or json)")
	_ = cmd.MarkFlagRequired("household")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt64(listHousehold, "household"); err != nil {
		return err
	}

	var docType models.DocumentType
	if listType != "" {
		parsed, err := models.ParseDocumentType(listType)
		if err != nil {
			return err
		}
		docType = parsed
	}

	e, err := newEngine(false)
	if err != nil {
		return err
	}
	defer e.Close()

	entities, err := e.db.ListEntities(listHousehold, docType)
	if err != nil {
		return fmt.Errorf("listing entities: %w", err)
	}

	if len(entities) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No records found\n")
		}
		return nil
	}

	if listFormat == "json" {
		jsonData, err := json.MarshalIndent(entities, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTYPE\tTITLE\tUSER\tUPDATED\n")
	fmt.Fprintf(w, "--\t----\t-----\t----\t-------\n")
	for _, entity := range entities {
		user := "-"
		if entity.UserID != 0 {
			user = fmt.Sprintf("%d", entity.UserID)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			entity.ID,
			entity.Type,
			truncate(entity.Title, 40),
			user,
			formatTime(entity.UpdatedAt))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d record(s)\n", len(entities))
	}
	return nil
}
