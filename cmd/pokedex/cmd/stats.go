package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/f3rmion/pokedex/internal/pokemon"
	"github.com/f3rmion/pokedex/internal/render"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the Pokédex size and featured Pokémon",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var (
		count    int
		featured []pokemon.Record
	)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		count, err = a.client.Count(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		featured, err = a.client.Featured(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), render.Featured(count, featured))
	return nil
}
