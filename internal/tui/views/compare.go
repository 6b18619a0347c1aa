package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/f3rmion/pokedex/internal/clipboard"
	"github.com/f3rmion/pokedex/internal/compare"
	"github.com/f3rmion/pokedex/internal/pokemon"
	"github.com/f3rmion/pokedex/internal/render"
)

var errSelectionFull = fmt.Errorf("selection is full (%d Pokémon)", compare.MaxSelection)

// chartRetryDelay is the wait before loading the type chart again after a
// failure.
const chartRetryDelay = 5 * time.Second

type addedMsg struct {
	ref       string
	name      string
	duplicate bool
	err       error
}

type chartLoadedMsg struct {
	chart pokemon.TypeChart
	err   error
}

type chartRetryMsg struct{}

type copiedMsg struct {
	err error
}

// CompareModel is the side-by-side comparison view.
type CompareModel struct {
	input     textinput.Model
	provider  Provider
	selection *compare.Selection
	clip      clipboard.Writer
	logger    *zap.Logger

	cursor  int
	pending int
	status  string
	err     error
	copied  bool

	chartFailed bool

	width  int
	height int
}

// NewCompareModel creates the comparison view over sel.
func NewCompareModel(p Provider, sel *compare.Selection, clip clipboard.Writer, logger *zap.Logger) CompareModel {
	ti := textinput.New()
	ti.Placeholder = "Pokémon name or number..."
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 30
	ti.PromptStyle, ti.TextStyle = newInputStyles()

	if logger == nil {
		logger = zap.NewNop()
	}

	return CompareModel{
		input:     ti,
		provider:  p,
		selection: sel,
		clip:      clip,
		logger:    logger,
	}
}

// Init loads the type chart.
func (m CompareModel) Init() tea.Cmd {
	return m.loadChart()
}

func (m CompareModel) loadChart() tea.Cmd {
	p := m.provider
	return func() tea.Msg {
		ctx, cancel := fetchContext()
		defer cancel()
		chart, err := p.TypeChart(ctx)
		return chartLoadedMsg{chart: chart, err: err}
	}
}

// SetSize updates the view dimensions.
func (m *CompareModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// InputFocused reports whether keys go to the text input.
func (m CompareModel) InputFocused() bool {
	return m.input.Focused()
}

// Update handles messages.
func (m CompareModel) Update(msg tea.Msg) (CompareModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.input.Focused() {
			switch msg.String() {
			case "enter":
				ref := strings.TrimSpace(m.input.Value())
				if ref == "" {
					return m, nil
				}
				m.input.Reset()
				return m.add(ref)
			case "esc", "down":
				if m.selection.Len() > 0 {
					m.input.Blur()
				}
				return m, nil
			}
			break
		}

		switch msg.String() {
		case "j", "down":
			if m.cursor < m.selection.Len()-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "d", "backspace", "delete":
			records := m.selection.Records()
			if m.cursor < len(records) {
				m.selection.Remove(records[m.cursor].ID)
				m.status = render.DisplayName(records[m.cursor].Name) + " removed"
				m.err = nil
			}
			m.clampCursor()
		case "c":
			m.selection.Clear()
			m.cursor = 0
			m.status = "Selection cleared"
			m.err = nil
		case "y":
			if m.selection.Analysis() == nil {
				return m, nil
			}
			return m, m.copy()
		case "/", "i", "a":
			return m, m.input.Focus()
		}
		return m, nil

	case CompareRequestMsg:
		return m.add(fmt.Sprint(msg.ID))

	case addedMsg:
		m.pending--
		switch {
		case msg.err != nil:
			m.err = msg.err
			m.logger.Debug("add to comparison failed", zap.String("ref", msg.ref), zap.Error(msg.err))
		case msg.duplicate:
			m.err = nil
			m.status = render.DisplayName(msg.name) + " is already selected"
		default:
			m.err = nil
			m.status = render.DisplayName(msg.name) + " added"
		}
		m.clampCursor()
		return m, nil

	case chartLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.chartFailed = true
			m.logger.Warn("type chart unavailable", zap.Error(msg.err))
			return m, tea.Tick(chartRetryDelay, func(time.Time) tea.Msg { return chartRetryMsg{} })
		}
		if m.chartFailed {
			m.err = nil
			m.chartFailed = false
		}
		m.selection.SetTypeChart(msg.chart)
		return m, nil

	case chartRetryMsg:
		if m.selection.HasTypeChart() {
			return m, nil
		}
		return m, m.loadChart()

	case copiedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.copied = true
		return m, clearCopiedAfter(2 * time.Second)

	case clearCopiedMsg:
		m.copied = false
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m CompareModel) add(ref string) (CompareModel, tea.Cmd) {
	if m.selection.Full() {
		m.err = errSelectionFull
		return m, nil
	}
	m.pending++
	m.status = ""

	p, sel := m.provider, m.selection
	return m, func() tea.Msg {
		ctx, cancel := fetchContext()
		defer cancel()

		rec, err := p.Pokemon(ctx, ref)
		if err != nil {
			return addedMsg{ref: ref, err: err}
		}
		if sel.Contains(rec.ID) {
			return addedMsg{ref: ref, name: rec.Name, duplicate: true}
		}
		if !sel.AddRecord(rec) {
			if sel.Contains(rec.ID) {
				return addedMsg{ref: ref, name: rec.Name, duplicate: true}
			}
			return addedMsg{ref: ref, err: errSelectionFull}
		}
		return addedMsg{ref: ref, name: rec.Name}
	}
}

func (m CompareModel) copy() tea.Cmd {
	if m.clip == nil {
		return func() tea.Msg { return copiedMsg{err: errors.New("clipboard not configured")} }
	}
	text := render.AnalysisText(m.selection.Records(), m.selection.Analysis())
	clip := m.clip
	return func() tea.Msg {
		ctx, cancel := fetchContext()
		defer cancel()
		return copiedMsg{err: clip.Write(ctx, text)}
	}
}

func (m *CompareModel) clampCursor() {
	if n := m.selection.Len(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// View renders the comparison view.
func (m CompareModel) View() string {
	var b strings.Builder

	records := m.selection.Records()

	b.WriteString(render.TitleStyle.Render("Compare"))
	b.WriteString(" ")
	b.WriteString(render.NumberStyle.Render(fmt.Sprintf("%d/%d", len(records), compare.MaxSelection)))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorLine(m.err))
	case m.pending > 0:
		b.WriteString(render.LoadingStyle.Render("Fetching..."))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(render.SuccessStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, r := range records {
		marker := "  "
		if i == m.cursor && !m.input.Focused() {
			marker = render.WinnerStyle.Render("▸ ")
		}
		b.WriteString(marker)
		b.WriteString(render.SlotStyle(i).Render(render.DisplayName(r.Name)))
		b.WriteString(" ")
		b.WriteString(render.NumberStyle.Render(render.DexNumber(r.ID)))
		b.WriteString("\n")
	}
	if len(records) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(render.Comparison(records, m.selection.Analysis()))

	if m.copied {
		b.WriteString("\n")
		b.WriteString(render.SuccessStyle.Render("Copied!"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.input.Focused() {
		b.WriteString(render.HelpStyle.Render("enter: add • ↓/esc: select rows"))
	} else {
		b.WriteString(render.HelpStyle.Render("j/k: move • d: remove • c: clear • y: copy • /: add more"))
	}

	return b.String()
}
