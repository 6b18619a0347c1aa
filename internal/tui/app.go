package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/f3rmion/pokedex/internal/clipboard"
	"github.com/f3rmion/pokedex/internal/compare"
	"github.com/f3rmion/pokedex/internal/sprite"
	"github.com/f3rmion/pokedex/internal/tui/views"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewCompare ViewType = iota
	ViewLookup
	ViewBrowse
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	View     ViewType
	Shortcut string
}

// ViewSwitchMsg requests a view change
type ViewSwitchMsg struct {
	View ViewType
}

// Deps are the services the views run on.
type Deps struct {
	Provider  views.Provider
	Catalog   views.Catalog
	Selection *compare.Selection
	Sprites   *sprite.Cache
	Clipboard clipboard.Writer
	Logger    *zap.Logger
	PageSize  int
}

// AppModel is the main unified TUI model
type AppModel struct {
	logger *zap.Logger

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	// Sub-models (views)
	compareView views.CompareModel
	lookupView  views.LookupModel
	browseView  views.BrowseModel

	// Help overlay
	showHelp bool
}

// NewApp creates a new unified TUI application
func NewApp(deps Deps) AppModel {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	menuItems := []MenuItem{
		{Label: "Compare", View: ViewCompare, Shortcut: "1"},
		{Label: "Lookup", View: ViewLookup, Shortcut: "2"},
		{Label: "Browse", View: ViewBrowse, Shortcut: "3"},
	}

	return AppModel{
		logger:       logger,
		sidebarWidth: 18,
		currentView:  ViewCompare,
		menuItems:    menuItems,

		compareView: views.NewCompareModel(deps.Provider, deps.Selection, deps.Clipboard, logger.Named("compare")),
		lookupView:  views.NewLookupModel(deps.Provider, deps.Sprites, logger.Named("lookup")),
		browseView:  views.NewBrowseModel(deps.Catalog, deps.PageSize, logger.Named("browse")),
	}
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.compareView.Init(), m.browseView.Init())
}

// inputFocused reports whether the active view is taking text.
func (m AppModel) inputFocused() bool {
	if m.sidebarActive {
		return false
	}
	switch m.currentView {
	case ViewCompare:
		return m.compareView.InputFocused()
	case ViewLookup:
		return m.lookupView.InputFocused()
	case ViewBrowse:
		return m.browseView.InputFocused()
	}
	return false
}

func (m *AppModel) switchTo(v ViewType) {
	m.currentView = v
	for i, item := range m.menuItems {
		if item.View == v {
			m.selectedMenu = i
			break
		}
	}
	m.sidebarActive = false
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Help overlay - any key closes it
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if msg.String() == "tab" {
			m.sidebarActive = !m.sidebarActive
			return m, nil
		}

		// Letters and digits belong to the input while one is focused.
		if !m.inputFocused() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
				return m, nil
			case "esc":
				if m.sidebarActive {
					return m, tea.Quit
				}
				m.sidebarActive = true
				return m, nil
			case "1":
				m.switchTo(ViewCompare)
				return m, nil
			case "2":
				m.switchTo(ViewLookup)
				return m, nil
			case "3":
				m.switchTo(ViewBrowse)
				return m, nil
			}
		}

		// Sidebar navigation when active
		if m.sidebarActive {
			switch msg.String() {
			case "j", "down":
				if m.selectedMenu < len(m.menuItems)-1 {
					m.selectedMenu++
				}
			case "k", "up":
				if m.selectedMenu > 0 {
					m.selectedMenu--
				}
			case "enter", "l", "right":
				m.switchTo(m.menuItems[m.selectedMenu].View)
			}
			return m, nil
		}

		return m.updateActive(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 2

		m.compareView.SetSize(contentWidth, contentHeight)
		m.lookupView.SetSize(contentWidth, contentHeight)
		m.browseView.SetSize(contentWidth, contentHeight)

		return m, nil

	case ViewSwitchMsg:
		m.switchTo(msg.View)
		return m, nil

	case views.LookupRequestMsg:
		m.switchTo(ViewLookup)
		var cmd tea.Cmd
		m.lookupView, cmd = m.lookupView.Update(msg)
		return m, cmd

	case views.CompareRequestMsg:
		m.switchTo(ViewCompare)
		var cmd tea.Cmd
		m.compareView, cmd = m.compareView.Update(msg)
		return m, cmd
	}

	// Results of background fetches go to every view; each one ignores
	// what it did not ask for.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.compareView, cmd = m.compareView.Update(msg)
	cmds = append(cmds, cmd)
	m.lookupView, cmd = m.lookupView.Update(msg)
	cmds = append(cmds, cmd)
	m.browseView, cmd = m.browseView.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m AppModel) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewCompare:
		m.compareView, cmd = m.compareView.Update(msg)
	case ViewLookup:
		m.lookupView, cmd = m.lookupView.Update(msg)
	case ViewBrowse:
		m.browseView, cmd = m.browseView.Update(msg)
	}
	return m, cmd
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show help overlay if active
	if m.showHelp {
		return m.renderHelp()
	}

	sidebar := m.renderSidebar()

	var content string
	switch m.currentView {
	case ViewCompare:
		content = m.compareView.View()
	case ViewLookup:
		content = m.lookupView.View()
	case ViewBrowse:
		content = m.browseView.View()
	}

	contentWidth := m.width - m.sidebarWidth - 4
	mainContent := ContentStyle.
		Width(contentWidth).
		Height(m.height - 2).
		Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, mainContent)
}

// renderSidebar renders the sidebar navigation
func (m AppModel) renderSidebar() string {
	var items []string

	items = append(items, SidebarTitleStyle.Render("  Pokédex  "))
	items = append(items, "")

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Label

		var style lipgloss.Style
		if i == m.selectedMenu {
			if m.sidebarActive {
				style = SidebarItemActiveStyle
			} else {
				// Current view, not focused
				style = SidebarItemStyle.Bold(true).Foreground(ColorSecondary)
			}
		} else {
			style = SidebarItemStyle
		}

		items = append(items, style.Render(label))
	}

	usedHeight := len(items) + 4 // borders and help
	for i := 0; i < m.height-usedHeight-2; i++ {
		items = append(items, "")
	}

	items = append(items, SidebarHelpStyle.Render("? Help  q Quit"))

	content := lipgloss.JoinVertical(lipgloss.Left, items...)

	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(content)
}

// renderHelp renders the help overlay
func (m AppModel) renderHelp() string {
	key := func(k, desc string) string {
		return HelpKeyStyle.Render(k) + HelpDescStyle.Render(desc) + "\n"
	}

	helpText := HelpTitleStyle.Render("Pokédex") + "\n\n"

	helpText += HelpSectionStyle.Render("Global Keys") + "\n"
	helpText += key("1-3", "Switch views")
	helpText += key("tab", "Toggle sidebar focus")
	helpText += key("esc", "Leave input / sidebar")
	helpText += key("?", "Show this help")
	helpText += key("q", "Quit")

	helpText += HelpSectionStyle.Render("Compare") + "\n"
	helpText += key("enter", "Add Pokémon")
	helpText += key("j/k", "Select row")
	helpText += key("d", "Remove selected")
	helpText += key("c", "Clear selection")
	helpText += key("y", "Copy analysis")

	helpText += HelpSectionStyle.Render("Lookup") + "\n"
	helpText += key("enter", "Show Pokémon")
	helpText += key("a", "Add to comparison")
	helpText += key("/", "New lookup")

	helpText += HelpSectionStyle.Render("Browse") + "\n"
	helpText += key("n/p", "Next/previous page")
	helpText += key("s/o", "Sort key/order")
	helpText += key("/", "Search")
	helpText += key("enter", "Show details")

	helpText += "\n" + HelpFooterStyle.Render("Press any key to close")

	helpBox := HelpBoxStyle.Render(helpText)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpBox)
}
