package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/f3rmion/pokedex/internal/render"
)

var typesCmd = &cobra.Command{
	Use:   "types [type]",
	Short: "Show type matchups",
	Long: `Without arguments, list every type.
With a type, show its full damage relations.

Examples:
  pokedex types
  pokedex types electric
  pokedex types ice --against dragon,flying`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTypes,
}

func init() {
	rootCmd.AddCommand(typesCmd)
	typesCmd.Flags().StringSlice("against", nil, "defending types to compute the damage multiplier for")
}

func runTypes(cmd *cobra.Command, args []string) error {
	against, _ := cmd.Flags().GetStringSlice("against")
	if len(against) > 0 && len(args) == 0 {
		return fmt.Errorf("--against needs an attacking type")
	}
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		chart, err := a.client.TypeChart(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(out, render.TypeChart(chart))
		return nil
	}

	name := strings.ToLower(args[0])
	rel, err := a.client.Type(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprint(out, render.TypeRelations(name, rel))

	if len(against) == 0 {
		return nil
	}
	chart, err := a.client.TypeChart(ctx)
	if err != nil {
		return err
	}
	defending := make([]string, len(against))
	for i, t := range against {
		defending[i] = strings.ToLower(strings.TrimSpace(t))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, render.Effectiveness(name, defending, chart.Multiplier(name, defending)))
	return nil
}
