// Package views provides the individual views for the unified TUI.
package views

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/pokedex/internal/catalog"
	"github.com/f3rmion/pokedex/internal/pokemon"
	"github.com/f3rmion/pokedex/internal/render"
)

// fetchTimeout bounds every request a view starts.
const fetchTimeout = 30 * time.Second

// Provider is the subset of the PokeAPI client the views use.
type Provider interface {
	Pokemon(ctx context.Context, ref string) (pokemon.Record, error)
	PokemonByID(ctx context.Context, id int) (pokemon.Record, error)
	TypeChart(ctx context.Context) (pokemon.TypeChart, error)
	SpeciesOf(ctx context.Context, rec pokemon.Record) (pokemon.Species, error)
	EvolutionChainURL(ctx context.Context, url string) (pokemon.EvolutionChain, error)
	Sprite(ctx context.Context, url string) ([]byte, error)
}

// Catalog pages through the filtered index.
type Catalog interface {
	Query(ctx context.Context, f catalog.Filter, page, size int) (catalog.Page[pokemon.Record], error)
}

// LookupRequestMsg asks the app to show a Pokémon in the lookup view.
type LookupRequestMsg struct {
	Ref string
}

// CompareRequestMsg asks the app to add a Pokémon to the comparison.
type CompareRequestMsg struct {
	ID int
}

type clearCopiedMsg struct{}

func clearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

func fetchContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), fetchTimeout)
}

func newInputStyles() (prompt, text lipgloss.Style) {
	return lipgloss.NewStyle().Foreground(render.ColorSecondary),
		lipgloss.NewStyle().Foreground(render.ColorAccent)
}

func errorLine(err error) string {
	return render.ErrorStyle.Render("Error: "+err.Error()) + "\n"
}
