package views

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/f3rmion/pokedex/internal/catalog"
	"github.com/f3rmion/pokedex/internal/pokemon"
	"github.com/f3rmion/pokedex/internal/render"
)

type pageMsg struct {
	seq  int
	page catalog.Page[pokemon.Record]
	err  error
}

// BrowseModel pages through the catalog.
type BrowseModel struct {
	catalog Catalog
	search  textinput.Model
	logger  *zap.Logger

	filter  catalog.Filter
	pageNum int
	size    int

	page    catalog.Page[pokemon.Record]
	cursor  int
	seq     int
	loading bool
	err     error

	width  int
	height int
}

// NewBrowseModel creates the browse view showing size entries per page.
func NewBrowseModel(c Catalog, size int, logger *zap.Logger) BrowseModel {
	ti := textinput.New()
	ti.Placeholder = "Filter by name or number..."
	ti.CharLimit = 40
	ti.Width = 30
	ti.PromptStyle, ti.TextStyle = newInputStyles()

	if size < 1 {
		size = catalog.DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return BrowseModel{
		catalog: c,
		search:  ti,
		logger:  logger,
		filter:  catalog.DefaultFilter(),
		pageNum: 1,
		size:    size,
		loading: true,
	}
}

// Init loads the first page.
func (m BrowseModel) Init() tea.Cmd {
	return m.fetch()
}

// SetSize updates the view dimensions.
func (m *BrowseModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// InputFocused reports whether keys go to the search input.
func (m BrowseModel) InputFocused() bool {
	return m.search.Focused()
}

// Update handles messages.
func (m BrowseModel) Update(msg tea.Msg) (BrowseModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.search.Focused() {
			switch msg.String() {
			case "enter":
				m.filter.Search = strings.TrimSpace(m.search.Value())
				m.search.Blur()
				return m.reload(1)
			case "esc":
				m.search.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.page.Items)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "n", "right":
			if m.page.HasNext() && !m.loading {
				return m.reload(m.pageNum + 1)
			}
		case "p", "left":
			if m.page.HasPrev() && !m.loading {
				return m.reload(m.pageNum - 1)
			}
		case "s":
			i := slices.Index(catalog.SortKeys, m.filter.SortBy)
			m.filter.SortBy = catalog.SortKeys[(i+1)%len(catalog.SortKeys)]
			return m.reload(1)
		case "o":
			if m.filter.Order == catalog.OrderDesc {
				m.filter.Order = catalog.OrderAsc
			} else {
				m.filter.Order = catalog.OrderDesc
			}
			return m.reload(1)
		case "/":
			return m, m.search.Focus()
		case "enter":
			if r, ok := m.selected(); ok {
				return m, func() tea.Msg { return LookupRequestMsg{Ref: r.Name} }
			}
		case "a":
			if r, ok := m.selected(); ok {
				return m, func() tea.Msg { return CompareRequestMsg{ID: r.ID} }
			}
		}
		return m, nil

	case pageMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.logger.Debug("catalog query failed", zap.Error(msg.err))
			return m, nil
		}
		m.err = nil
		m.page = msg.page
		m.pageNum = msg.page.Page
		m.cursor = 0
		return m, nil
	}

	return m, nil
}

func (m BrowseModel) selected() (pokemon.Record, bool) {
	if m.cursor < len(m.page.Items) {
		return m.page.Items[m.cursor], true
	}
	return pokemon.Record{}, false
}

func (m BrowseModel) reload(page int) (BrowseModel, tea.Cmd) {
	m.pageNum = page
	m.seq++
	m.loading = true
	return m, m.fetch()
}

func (m BrowseModel) fetch() tea.Cmd {
	c, f, page, size, seq := m.catalog, m.filter, m.pageNum, m.size, m.seq
	return func() tea.Msg {
		ctx, cancel := fetchContext()
		defer cancel()
		p, err := c.Query(ctx, f, page, size)
		return pageMsg{seq: seq, page: p, err: err}
	}
}

// View renders the browse view.
func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(render.TitleStyle.Render("Browse"))
	b.WriteString("\n\n")

	if m.search.Focused() {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	summary := fmt.Sprintf("sort: %s %s", m.filter.SortBy, m.filter.Order)
	if m.filter.Search != "" {
		summary = fmt.Sprintf("search: %q • %s", m.filter.Search, summary)
	}
	b.WriteString(render.SubtitleStyle.Render(summary))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(render.LoadingStyle.Render("Loading..."))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(errorLine(m.err))
	default:
		b.WriteString(render.List(m.page, m.cursor))
	}

	b.WriteString("\n")
	b.WriteString(render.HelpStyle.Render("j/k: move • n/p: page • s: sort • o: order • /: search • enter: details • a: compare"))

	return b.String()
}
