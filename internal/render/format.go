package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/f3rmion/pokedex/internal/pokemon"
)

var statLabels = map[pokemon.StatName]string{
	pokemon.StatHP:             "HP",
	pokemon.StatAttack:         "Attack",
	pokemon.StatDefense:        "Defense",
	pokemon.StatSpecialAttack:  "Sp. Atk",
	pokemon.StatSpecialDefense: "Sp. Def",
	pokemon.StatSpeed:          "Speed",
}

// DisplayName turns an API slug like "mr-mime" into "Mr Mime".
func DisplayName(slug string) string {
	// Casers keep state, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}

// StatLabel returns the short label of a stat.
func StatLabel(name pokemon.StatName) string {
	if l, ok := statLabels[name]; ok {
		return l
	}
	return DisplayName(name)
}

// DexNumber formats an id as "#025".
func DexNumber(id int) string {
	return fmt.Sprintf("#%03d", id)
}

// Height formats decimetres as metres.
func Height(dm int) string {
	return fmt.Sprintf("%.1f m", float64(dm)/10)
}

// Weight formats hectograms as kilograms.
func Weight(hg int) string {
	return fmt.Sprintf("%.1f kg", float64(hg)/10)
}

// Bar draws value relative to peak in width cells.
func Bar(value, peak, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if peak > 0 && value > 0 {
		filled = (value*width + peak/2) / peak
	}
	filled = min(filled, width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// pad fills s with spaces to width display cells, truncating with an
// ellipsis when it is too long.
func pad(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

// padLeft right-aligns s in width cells.
func padLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

// wordWrap wraps text at word boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineWidth := 0
	for i, word := range strings.Fields(text) {
		wordWidth := runewidth.StringWidth(word)
		if i > 0 {
			if lineWidth+1+wordWidth > width {
				result.WriteString("\n")
				lineWidth = 0
			} else {
				result.WriteString(" ")
				lineWidth++
			}
		}
		result.WriteString(word)
		lineWidth += wordWidth
	}
	return result.String()
}

// joinTypes renders "Water/Flying".
func joinTypes(types []string) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = DisplayName(t)
	}
	return strings.Join(names, "/")
}
