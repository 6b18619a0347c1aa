package render

import (
	"fmt"
	"strings"

	"github.com/f3rmion/pokedex/internal/catalog"
	"github.com/f3rmion/pokedex/internal/pokemon"
)

// List renders a catalog page as a table. The row at index selected is
// marked; pass -1 for none.
func List(page catalog.Page[pokemon.Record], selected int) string {
	if page.Total == 0 {
		return HelpStyle.Render("No Pokémon match these filters.") + "\n"
	}

	var b strings.Builder
	header := "  " + pad("#", 6) + pad("Name", 18) + pad("Types", 18) +
		padLeft("Total", 5) + "  " + padLeft("Height", 8) + "  " + padLeft("Weight", 9)
	b.WriteString(LabelStyle.Render(header))
	b.WriteString("\n")

	for i, r := range page.Items {
		if i == selected {
			b.WriteString(WinnerStyle.Render("▸ "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(NumberStyle.Render(pad(DexNumber(r.ID), 6)))
		b.WriteString(ValueStyle.Render(pad(DisplayName(r.Name), 18)))
		b.WriteString(ValueStyle.Render(pad(joinTypes(r.Types), 18)))
		b.WriteString(ValueStyle.Render(padLeft(fmt.Sprint(r.Total()), 5)))
		b.WriteString("  ")
		b.WriteString(ValueStyle.Render(padLeft(Height(r.Height), 8)))
		b.WriteString("  ")
		b.WriteString(ValueStyle.Render(padLeft(Weight(r.Weight), 9)))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(fmt.Sprintf("Page %d/%d (%d total)", page.Page, max(page.TotalPages, 1), page.Total)))
	b.WriteString("\n")
	return b.String()
}

// Moves renders a move table.
func Moves(moves []pokemon.Move) string {
	if len(moves) == 0 {
		return HelpStyle.Render("No moves match these filters.") + "\n"
	}

	var b strings.Builder
	header := pad("Move", 18) + pad("Type", 10) + pad("Class", 9) +
		padLeft("Pow", 4) + padLeft("Acc", 5) + padLeft("PP", 4) + "  " + pad("Learned", 16)
	b.WriteString(LabelStyle.Render(header))
	b.WriteString("\n")

	for _, m := range moves {
		b.WriteString(ValueStyle.Render(pad(DisplayName(m.Name), 18)))
		b.WriteString(ValueStyle.Render(pad(DisplayName(m.Type), 10)))
		b.WriteString(ValueStyle.Render(pad(DisplayName(m.DamageClass), 9)))
		b.WriteString(ValueStyle.Render(padLeft(optional(m.Power), 4)))
		b.WriteString(ValueStyle.Render(padLeft(optional(m.Accuracy), 5)))
		b.WriteString(ValueStyle.Render(padLeft(fmt.Sprint(m.PP), 4)))
		b.WriteString("  ")
		b.WriteString(HelpStyle.Render(pad(learned(m), 16)))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(fmt.Sprintf("%d moves", len(moves))))
	b.WriteString("\n")
	return b.String()
}

func optional(v *int) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprint(*v)
}

func learned(m pokemon.Move) string {
	method := m.LearnMethod
	if method == "" {
		method = "unknown"
	}
	if m.LevelLearnedAt > 0 {
		return fmt.Sprintf("Lv. %d", m.LevelLearnedAt)
	}
	return strings.ReplaceAll(method, "-", " ")
}

// TypeRelations renders a type's row of the chart.
func TypeRelations(name string, rel pokemon.TypeRelations) string {
	var b strings.Builder

	b.WriteString(TypeBadge(name))
	b.WriteString("\n")

	row := func(label string, types []string) {
		b.WriteString(LabelStyle.Render(pad(label, 20)))
		if len(types) == 0 {
			b.WriteString(HelpStyle.Render("—"))
		} else {
			b.WriteString(ValueStyle.Render(joinTypes(types)))
		}
		b.WriteString("\n")
	}
	row("2× damage to", rel.DoubleDamageTo)
	row("½× damage to", rel.HalfDamageTo)
	row("0× damage to", rel.NoDamageTo)
	row("2× damage from", rel.DoubleDamageFrom)
	row("½× damage from", rel.HalfDamageFrom)
	row("0× damage from", rel.NoDamageFrom)

	return b.String()
}

// TypeChart renders the names in a chart, one badge each.
func TypeChart(chart pokemon.TypeChart) string {
	names := chart.Names()
	badges := make([]string, len(names))
	for i, n := range names {
		badges[i] = TypeBadge(n)
	}
	return strings.Join(badges, " ") + "\n"
}

// Effectiveness renders the multiplier of attacking against defending.
func Effectiveness(attacking string, defending []string, multiplier float64) string {
	verdict := "normal damage"
	switch {
	case multiplier == 0:
		verdict = "no effect"
	case multiplier > 1:
		verdict = "super effective"
	case multiplier < 1:
		verdict = "not very effective"
	}
	return fmt.Sprintf("%s → %s: ×%g (%s)", DisplayName(attacking), joinTypes(defending), multiplier, verdict)
}

// Featured renders the landing summary.
func Featured(count int, records []pokemon.Record) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Pokédex"))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render(pad("Pokémon", 12)))
	b.WriteString(ValueStyle.Render(fmt.Sprint(count)))
	b.WriteString("\n")

	b.WriteString(SectionStyle.Render("Featured"))
	b.WriteString("\n")
	for _, r := range records {
		b.WriteString(NumberStyle.Render(pad(DexNumber(r.ID), 6)))
		b.WriteString(ValueStyle.Render(pad(DisplayName(r.Name), 14)))
		b.WriteString(HelpStyle.Render(joinTypes(r.Types)))
		b.WriteString("\n")
	}
	return b.String()
}
