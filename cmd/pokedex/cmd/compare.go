package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/f3rmion/pokedex/internal/compare"
	"github.com/f3rmion/pokedex/internal/pokemon"
	"github.com/f3rmion/pokedex/internal/render"
)

var compareCmd = &cobra.Command{
	Use:   "compare <pokemon> <pokemon> [pokemon...]",
	Short: "Compare two to four Pokémon",
	Long: `Compare two to four Pokémon by name or Pokédex number.

Examples:
  pokedex compare pikachu gyarados
  pokedex compare 1 4 7 25
  pokedex compare --json snorlax mewtwo`,
	Args: cobra.RangeArgs(compare.MinAnalyzed, compare.MaxSelection),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().Bool("json", false, "print the comparison as JSON")
}

func runCompare(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	sel := a.newSelection(ctx)
	if err := addRefs(ctx, a.client, sel, args); err != nil {
		return err
	}

	analysis := sel.Analysis()
	if analysis == nil {
		return fmt.Errorf("need at least %d different Pokémon to compare", compare.MinAnalyzed)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Pokemon  []pokemon.Record  `json:"pokemon"`
			Analysis *compare.Analysis `json:"analysis"`
		}{sel.Records(), analysis})
	}

	fmt.Fprintln(out, render.Comparison(sel.Records(), analysis))
	return nil
}

type resolver interface {
	Pokemon(ctx context.Context, ref string) (pokemon.Record, error)
}

// addRefs resolves each name or number once and adds the record to sel in
// argument order.
func addRefs(ctx context.Context, r resolver, sel *compare.Selection, refs []string) error {
	for _, ref := range refs {
		rec, err := r.Pokemon(ctx, ref)
		if err != nil {
			return err
		}
		sel.AddRecord(rec)
	}
	return nil
}
