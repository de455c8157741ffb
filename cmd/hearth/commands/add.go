// ABOUTME: CLI command to add a household entity and index it
// ABOUTME: Saves to SQLite, then runs the indexing pipeline synchronously
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hearthkit/hearth/internal/models"
)

var (
	addType      string
	addHousehold int64
	addUser      int64
	addTitle     string
	addFile      string
	addFields    []string
	addNoIndex   bool
)

// NewAddCmd creates the add command
func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [body]",
		Short: "Add a household entity",
		Long: `Add a household entity and index it for retrieval.

Examples:
  hearth add --type health_log --household 1 --user 2 --title "Monday" --field mood=good --field sleep_hours=7.5
  hearth add --type recipe --household 1 --title "Lentil Soup" --file recipe.txt
  hearth add --type goal --household 1 --title "Run a 10k" --field target=10km`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAdd,
	}

	cmd.Flags().StringVar(&addType, "type", "", "Entity type: health_log, recipe, pantry_item, goal (required)")
	cmd.Flags().Int64Var(&addHousehold, "household", 0, "Household id (required)")
	cmd.Flags().Int64Var(&addUser, "user", 0, "Owning user id (omit for household-level)")
	cmd.Flags().StringVar(&addTitle, "title", "", "Entity title")
	cmd.Flags().StringVar(&addFile, "file", "", "Read the body from a file")
	cmd.Flags().StringArrayVar(&addFields, "field", nil, "Typed attribute as key=value (repeatable)")
	cmd.Flags().BoolVar(&addNoIndex, "no-index", false, "Skip indexing (store the entity only)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("household")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	docType, err := models.ParseDocumentType(addType)
	if err != nil {
		return err
	}
	if err := validatePositiveInt64(addHousehold, "household"); err != nil {
		return err
	}

	var body string
	if addFile != "" {
		data, err := os.ReadFile(addFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		body = string(data)
	} else if len(args) > 0 {
		body = args[0]
	} else if addTitle == "" {
		// No title and no body argument: read the body from stdin
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		body = string(data)
	}

	fields, err := parseFields(addFields)
	if err != nil {
		return err
	}

	e, err := newEngine(!addNoIndex)
	if err != nil {
		return err
	}
	defer e.Close()

	entity := &models.Entity{
		Type:        docType,
		HouseholdID: addHousehold,
		UserID:      addUser,
		Title:       addTitle,
		Body:        body,
		Fields:      fields,
	}
	id, err := e.db.SaveEntity(entity)
	if err != nil {
		return fmt.Errorf("saving entity: %w", err)
	}

	if !addNoIndex {
		if err := e.indexer.IndexEntity(cmd.Context(), entity); err != nil {
			return fmt.Errorf("entity %d saved but indexing failed: %w", id, err)
		}
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s %d\n", docType, id)
	}
	return nil
}

// parseFields turns repeated key=value flags into a field map
func parseFields(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	fields := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --field %q, want key=value", pair)
		}
		fields[key] = value
	}
	return fields, nil
}
