package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/f3rmion/pokedex/internal/pokemon"
	"github.com/f3rmion/pokedex/internal/render"
	"github.com/f3rmion/pokedex/internal/sprite"
)

type lookupResult struct {
	record  pokemon.Record
	species *pokemon.Species
	chain   *pokemon.EvolutionChain
	sprite  string
}

type lookupMsg struct {
	ref    string
	result *lookupResult
	err    error
}

// LookupModel is the single Pokémon detail view.
type LookupModel struct {
	input    textinput.Model
	provider Provider
	sprites  *sprite.Cache
	logger   *zap.Logger

	query   string
	result  *lookupResult
	loading bool
	err     error

	width  int
	height int
}

// NewLookupModel creates the lookup view. sprites may be nil to skip
// sprite rendering.
func NewLookupModel(p Provider, sprites *sprite.Cache, logger *zap.Logger) LookupModel {
	ti := textinput.New()
	ti.Placeholder = "Pokémon name or number..."
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 30
	ti.PromptStyle, ti.TextStyle = newInputStyles()

	if logger == nil {
		logger = zap.NewNop()
	}

	return LookupModel{
		input:    ti,
		provider: p,
		sprites:  sprites,
		logger:   logger,
	}
}

// SetSize updates the view dimensions.
func (m *LookupModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// InputFocused reports whether keys go to the text input.
func (m LookupModel) InputFocused() bool {
	return m.input.Focused()
}

// Update handles messages.
func (m LookupModel) Update(msg tea.Msg) (LookupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.input.Focused() {
			switch msg.String() {
			case "enter":
				ref := strings.TrimSpace(m.input.Value())
				if ref == "" {
					return m, nil
				}
				m.input.Blur()
				return m.lookup(ref)
			case "esc":
				if m.result != nil {
					m.input.Blur()
				}
				return m, nil
			}
			break
		}

		switch msg.String() {
		case "/", "i":
			m.input.SetValue("")
			return m, m.input.Focus()
		case "a":
			if m.result != nil {
				id := m.result.record.ID
				return m, func() tea.Msg { return CompareRequestMsg{ID: id} }
			}
		}
		return m, nil

	case LookupRequestMsg:
		m.input.SetValue(msg.Ref)
		m.input.Blur()
		return m.lookup(msg.Ref)

	case lookupMsg:
		if msg.ref != m.query {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.result = msg.result
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m LookupModel) lookup(ref string) (LookupModel, tea.Cmd) {
	m.query = ref
	m.loading = true
	m.err = nil

	p, sprites, logger := m.provider, m.sprites, m.logger
	return m, func() tea.Msg {
		ctx, cancel := fetchContext()
		defer cancel()

		rec, err := p.Pokemon(ctx, ref)
		if err != nil {
			return lookupMsg{ref: ref, err: err}
		}
		result := &lookupResult{record: rec}

		// Species, evolution and sprite are optional extras.
		if species, err := p.SpeciesOf(ctx, rec); err != nil {
			logger.Debug("species unavailable", zap.String("pokemon", rec.Name), zap.Error(err))
		} else {
			result.species = &species
			if species.EvolutionChainURL != "" {
				if chain, err := p.EvolutionChainURL(ctx, species.EvolutionChainURL); err != nil {
					logger.Debug("evolution chain unavailable", zap.String("pokemon", rec.Name), zap.Error(err))
				} else {
					result.chain = &chain
				}
			}
		}

		if sprites != nil && rec.Sprite != "" {
			if art, err := sprites.Get(ctx, rec.Sprite, sprite.DefaultOptions()); err != nil {
				logger.Debug("sprite unavailable", zap.String("pokemon", rec.Name), zap.Error(err))
			} else {
				result.sprite = art
			}
		}

		return lookupMsg{ref: ref, result: result}
	}
}

// View renders the lookup view.
func (m LookupModel) View() string {
	var b strings.Builder

	b.WriteString(render.TitleStyle.Render("Lookup"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.loading {
		b.WriteString(render.LoadingStyle.Render("Loading " + m.query + "..."))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorLine(m.err))
	}

	if r := m.result; r != nil {
		b.WriteString("\n")
		detail := render.Detail(r.record, r.species, r.chain)
		if r.sprite != "" {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, r.sprite, "  ", detail))
		} else {
			b.WriteString(detail)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.input.Focused():
		b.WriteString(render.HelpStyle.Render("Type a name or number and press Enter"))
	case m.result != nil:
		b.WriteString(render.HelpStyle.Render("a: add to comparison • /: new lookup"))
	default:
		b.WriteString(render.HelpStyle.Render("/: new lookup"))
	}

	return b.String()
}
