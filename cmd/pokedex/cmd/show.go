package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/f3rmion/pokedex/internal/pokemon"
	"github.com/f3rmion/pokedex/internal/render"
	"github.com/f3rmion/pokedex/internal/sprite"
)

var showCmd = &cobra.Command{
	Use:   "show <pokemon>",
	Short: "Show details for a Pokémon",
	Long: `Show types, base stats, abilities, Pokédex entry and evolution line
for a Pokémon given by name or number.

Examples:
  pokedex show pikachu
  pokedex show 143 --sprite
  pokedex show eevee --moves --method level-up
  pokedex show charizard --moves --type fire --search blast`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().Bool("sprite", false, "render the front sprite")
	showCmd.Flags().Bool("moves", false, "list learnable moves")
	showCmd.Flags().String("type", pokemon.MoveFilterAll, "only moves of this type")
	showCmd.Flags().String("method", pokemon.MoveFilterAll, "only moves learned this way (level-up, machine, egg, tutor)")
	showCmd.Flags().String("search", "", "only moves whose name contains this")
}

func runShow(cmd *cobra.Command, args []string) error {
	withSprite, _ := cmd.Flags().GetBool("sprite")
	withMoves, _ := cmd.Flags().GetBool("moves")
	moveType, _ := cmd.Flags().GetString("type")
	method, _ := cmd.Flags().GetString("method")
	search, _ := cmd.Flags().GetString("search")
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	rec, err := a.client.Pokemon(ctx, args[0])
	if err != nil {
		return err
	}

	// Species and evolution data decorate the page; a Pokémon without
	// them is still worth showing.
	var species *pokemon.Species
	var chain *pokemon.EvolutionChain
	if s, err := a.client.SpeciesOf(ctx, rec); err != nil {
		logger.Debug("species unavailable", zap.String("pokemon", rec.Name), zap.Error(err))
	} else {
		species = &s
		if s.EvolutionChainURL != "" {
			if c, err := a.client.EvolutionChainURL(ctx, s.EvolutionChainURL); err != nil {
				logger.Debug("evolution chain unavailable", zap.String("pokemon", rec.Name), zap.Error(err))
			} else {
				chain = &c
			}
		}
	}

	out := cmd.OutOrStdout()
	detail := render.Detail(rec, species, chain)
	if withSprite && rec.Sprite != "" {
		art, err := a.sprites.Get(ctx, rec.Sprite, sprite.DefaultOptions())
		if err != nil {
			logger.Debug("sprite unavailable", zap.String("pokemon", rec.Name), zap.Error(err))
		} else {
			detail = lipgloss.JoinHorizontal(lipgloss.Top, art, "  ", detail)
		}
	}
	fmt.Fprintln(out, detail)

	if !withMoves {
		return nil
	}

	moves, err := a.client.Moves(ctx, rec)
	if err != nil {
		return err
	}
	moves = pokemon.FilterMoves(moves, pokemon.MoveFilter{
		Search: search,
		Type:   moveType,
		Method: method,
	})
	fmt.Fprintln(out, render.SectionStyle.Render("Moves"))
	fmt.Fprint(out, render.Moves(moves))
	return nil
}
