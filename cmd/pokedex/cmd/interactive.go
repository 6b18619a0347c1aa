package cmd

import (
	"github.com/spf13/cobra"

	"github.com/f3rmion/pokedex/internal/clipboard"
	"github.com/f3rmion/pokedex/internal/compare"
	"github.com/f3rmion/pokedex/internal/tui"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i", "ui"},
	Short:   "Launch the interactive TUI",
	Long: `Launch the interactive terminal UI.

Views:
  - Compare: add Pokémon by name or number and compare up to four
  - Lookup:  details, sprite and evolution line for one Pokémon
  - Browse:  page through the Pokédex, search and sort

Logs are written to pokedex.log in the config directory.`,
	Annotations: map[string]string{annotationTUI: "true"},
	RunE:        runTUI,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// runTUI launches the unified TUI application.
func runTUI(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	// The compare view loads the type chart itself once running.
	sel := compare.NewSelection(a.client, compare.WithLogger(logger.Named("compare")))

	return tui.Run(tui.Deps{
		Provider:  a.client,
		Catalog:   a.catalog,
		Selection: sel,
		Sprites:   a.sprites,
		Clipboard: clipboard.New(),
		Logger:    logger,
		PageSize:  cfg.Catalog.PageSize,
	})
}
