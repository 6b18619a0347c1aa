package render

import (
	"fmt"
	"strings"

	"github.com/f3rmion/pokedex/internal/compare"
	"github.com/f3rmion/pokedex/internal/pokemon"
)

const (
	labelWidth  = 9
	columnWidth = 18
	barWidth    = 10
)

// NoAnalysis is shown when fewer than two Pokémon are selected.
const NoAnalysis = "Select at least two Pokémon to see the analysis."

// Comparison renders the stat table for records followed by the analysis.
func Comparison(records []pokemon.Record, a *compare.Analysis) string {
	var b strings.Builder

	b.WriteString(StatTable(records))
	b.WriteString("\n")
	b.WriteString(Analysis(records, a))

	return b.String()
}

// StatTable renders one column per record with a bar per stat, scaled to
// the best value among the records.
func StatTable(records []pokemon.Record) string {
	if len(records) == 0 {
		return HelpStyle.Render("No Pokémon selected.") + "\n"
	}

	var b strings.Builder
	maxima := compare.StatMaxima(records)

	b.WriteString(pad("", labelWidth))
	for i, r := range records {
		b.WriteString(" ")
		b.WriteString(SlotStyle(i).Render(pad(DisplayName(r.Name), columnWidth)))
	}
	b.WriteString("\n")

	b.WriteString(pad("", labelWidth))
	for _, r := range records {
		b.WriteString(" ")
		b.WriteString(NumberStyle.Render(pad(DexNumber(r.ID)+" "+joinTypes(r.Types), columnWidth)))
	}
	b.WriteString("\n")

	for _, stat := range pokemon.StatNames {
		b.WriteString(LabelStyle.Render(pad(StatLabel(stat), labelWidth)))
		for _, r := range records {
			v := r.Stat(stat)
			cell := padLeft(fmt.Sprint(v), 3) + " " + Bar(v, maxima[stat], barWidth)
			b.WriteString(" ")
			b.WriteString(ValueStyle.Render(pad(cell, columnWidth)))
		}
		b.WriteString("\n")
	}

	highest := compare.MaxTotal(records)
	b.WriteString(LabelStyle.Render(pad("Total", labelWidth)))
	for _, r := range records {
		total := r.Total()
		cell := padLeft(fmt.Sprint(total), 3)
		style := ValueStyle
		if total == highest {
			style = WinnerStyle
		}
		b.WriteString(" ")
		b.WriteString(style.Render(pad(cell, columnWidth)))
	}
	b.WriteString("\n")

	return b.String()
}

// Analysis renders the categories, recommendations and type advantages.
// Type advantages are listed in selection order.
func Analysis(records []pokemon.Record, a *compare.Analysis) string {
	if a == nil {
		return HelpStyle.Render(NoAnalysis) + "\n"
	}

	var b strings.Builder

	b.WriteString(SectionStyle.Render("Winner"))
	b.WriteString("\n")
	b.WriteString(WinnerStyle.Render(DisplayName(a.Winner)))
	b.WriteString("\n")

	b.WriteString(SectionStyle.Render("Categories"))
	b.WriteString("\n")
	for _, c := range []struct{ label, name string }{
		{"Stats", a.Categories.Stats},
		{"Speed", a.Categories.Speed},
		{"Defense", a.Categories.Defense},
		{"Attack", a.Categories.Attack},
		{"Overall", a.Categories.Overall},
	} {
		b.WriteString(LabelStyle.Render(pad(c.label, labelWidth)))
		b.WriteString(" ")
		b.WriteString(ValueStyle.Render(DisplayName(c.name)))
		b.WriteString("\n")
	}

	b.WriteString(SectionStyle.Render("Recommendations"))
	b.WriteString("\n")
	for _, rec := range a.Recommendations {
		b.WriteString("  • ")
		b.WriteString(ValueStyle.Render(rec))
		b.WriteString("\n")
	}

	b.WriteString(SectionStyle.Render("Type advantages"))
	b.WriteString("\n")
	for i, r := range records {
		b.WriteString(SlotStyle(i).Render(DisplayName(r.Name)))
		b.WriteString("\n")
		advantages := a.TypeAdvantages[r.Name]
		if len(advantages) == 0 {
			b.WriteString(HelpStyle.Render("  No type advantages"))
			b.WriteString("\n")
			continue
		}
		for _, adv := range advantages {
			b.WriteString("  • ")
			b.WriteString(ValueStyle.Render(adv))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// AnalysisText renders the analysis as unstyled text, for copying.
func AnalysisText(records []pokemon.Record, a *compare.Analysis) string {
	if a == nil {
		return NoAnalysis
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Comparison: %s\n", strings.Join(names(records), " vs "))
	fmt.Fprintf(&b, "Winner: %s\n", a.Winner)
	fmt.Fprintf(&b, "Stats: %s\nSpeed: %s\nDefense: %s\nAttack: %s\nOverall: %s\n",
		a.Categories.Stats, a.Categories.Speed, a.Categories.Defense,
		a.Categories.Attack, a.Categories.Overall)
	for _, rec := range a.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}
	for _, r := range records {
		for _, adv := range a.TypeAdvantages[r.Name] {
			fmt.Fprintf(&b, "%s: %s\n", r.Name, adv)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func names(records []pokemon.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}
