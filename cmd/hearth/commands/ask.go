// ABOUTME: CLI command to ask a question about household data
// ABOUTME: Runs the full query pipeline and prints the cited answer
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hearthkit/hearth/internal/models"
)

var (
	askHousehold int64
	askUser      int64
	askName      string
	askTopK      int
	askFormat    string
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about your household data",
		Long: `Ask a natural-language question, answered from indexed household data.

Examples:
  hearth ask --household 1 "what recipes can I make"
  hearth ask --household 1 --user 2 "did I sleep well yesterday"
  hearth ask --household 1 --format json "what are our goals"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().Int64Var(&askHousehold, "household", 0, "Household id (required)")
	cmd.Flags().Int64Var(&askUser, "user", 0, "Acting user id")
	cmd.Flags().StringVar(&askName, "name", "", "Display name for personalization")
	cmd.Flags().IntVar(&askTopK, "top-k", 0, "Maximum passages to retrieve")
	cmd.Flags().StringVar(&askFormat, "format", "text", "Output format: text or json")
	_ = cmd.MarkFlagRequired("household")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt64(askHousehold, "household"); err != nil {
		return err
	}

	e, err := newEngine(true)
	if err != nil {
		return err
	}
	defer e.Close()

	qc := models.QueryContext{
		HouseholdID: askHousehold,
		UserID:      askUser,
		TopK:        askTopK,
		UserName:    askName,
	}

	result, err := e.rag.Query(cmd.Context(), args[0], qc)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	if askFormat == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Answer)

	if len(result.Citations) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nSources:")
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		for _, c := range result.Citations {
			fmt.Fprintf(w, "  %s\t%s\t%.3f\n", c.SourceType, c.SourceID, c.Score)
		}
		_ = w.Flush()
	}

	for _, a := range result.Actions {
		fmt.Fprintf(cmd.OutOrStdout(), "\n[%s] %s -> %s\n", a.Type, a.Label, a.Target)
	}
	return nil
}
