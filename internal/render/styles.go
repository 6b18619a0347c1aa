// Package render formats Pokédex data for the terminal.
package render

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#FF6B6B") // Red - titles, errors
	ColorSecondary = lipgloss.Color("#4ecdc4") // Teal - subtitles
	ColorAccent    = lipgloss.Color("#ffe66d") // Yellow - winners, highlights
	ColorMuted     = lipgloss.Color("#666666") // Gray - help text
	ColorSuccess   = lipgloss.Color("#a8e6cf") // Green - success
	ColorText      = lipgloss.Color("#f1faee") // Light text
	ColorLabel     = lipgloss.Color("#a8dadc") // Label color
	ColorBg        = lipgloss.Color("#1a1a2e") // Dark background
	ColorBgAlt     = lipgloss.Color("#2d3436") // Alt background
	ColorBorder    = lipgloss.Color("#3d5a80") // Border color
)

// TypeColors maps each type to its badge color.
var TypeColors = map[string]lipgloss.Color{
	"normal":   "#9ca3af",
	"fire":     "#ef4444",
	"water":    "#3b82f6",
	"electric": "#facc15",
	"grass":    "#22c55e",
	"ice":      "#93c5fd",
	"fighting": "#b91c1c",
	"poison":   "#a855f7",
	"ground":   "#ca8a04",
	"flying":   "#818cf8",
	"psychic":  "#ec4899",
	"bug":      "#4ade80",
	"rock":     "#854d0e",
	"ghost":    "#7e22ce",
	"dragon":   "#4338ca",
	"dark":     "#1f2937",
	"steel":    "#6b7280",
	"fairy":    "#f9a8d4",
}

// SlotColors tell the members of a comparison apart.
var SlotColors = []lipgloss.Color{"#3b82f6", "#ef4444", "#22c55e", "#a855f7"}

// Title styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Background(ColorBg).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorLabel).
			MarginTop(1)
)

// Field styles
var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorLabel).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	WinnerStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	NumberStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	TypeBadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1)
)

// Box styles
var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	AnalysisBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorSecondary).
				Padding(1, 2).
				Margin(1, 0)
)

// Status styles
var (
	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	LoadingStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)
)

// TypeBadge renders a type name on its color.
func TypeBadge(t string) string {
	c, ok := TypeColors[t]
	if !ok {
		c = TypeColors["normal"]
	}
	return TypeBadgeStyle.Background(c).Render(t)
}

// SlotStyle returns the style for the i-th member of a comparison.
func SlotStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(SlotColors[i%len(SlotColors)])
}
