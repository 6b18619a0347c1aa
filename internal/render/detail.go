package render

import (
	"fmt"
	"strings"

	"github.com/f3rmion/pokedex/internal/pokemon"
)

// detailWidth is the wrap width of flavor text.
const detailWidth = 60

// Detail renders one Pokémon. species and chain may be nil when they
// could not be loaded.
func Detail(rec pokemon.Record, species *pokemon.Species, chain *pokemon.EvolutionChain) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(DisplayName(rec.Name)))
	b.WriteString(" ")
	b.WriteString(NumberStyle.Render(DexNumber(rec.ID)))
	b.WriteString("\n")

	if species != nil {
		b.WriteString(SubtitleStyle.Render(species.Genus()))
		b.WriteString("\n")
	}

	badges := make([]string, len(rec.Types))
	for i, t := range rec.Types {
		badges[i] = TypeBadge(t)
	}
	b.WriteString(strings.Join(badges, " "))
	b.WriteString("\n\n")

	field := func(label, value string) {
		b.WriteString(LabelStyle.Render(pad(label, 12)))
		b.WriteString(ValueStyle.Render(value))
		b.WriteString("\n")
	}
	field("Height", Height(rec.Height))
	field("Weight", Weight(rec.Weight))
	field("Abilities", strings.Join(displayNames(rec.Abilities), ", "))
	field("Base exp.", fmt.Sprint(rec.BaseExperience))
	if species != nil {
		if species.Habitat != "" {
			field("Habitat", DisplayName(species.Habitat))
		}
		field("Capture rate", fmt.Sprint(species.CaptureRate))
		field("Growth rate", DisplayName(species.GrowthRate))
		if len(species.EggGroups) > 0 {
			field("Egg groups", strings.Join(displayNames(species.EggGroups), ", "))
		}
	}

	b.WriteString(SectionStyle.Render("Base stats"))
	b.WriteString("\n")
	for _, stat := range pokemon.StatNames {
		v := rec.Stat(stat)
		b.WriteString(LabelStyle.Render(pad(StatLabel(stat), labelWidth)))
		b.WriteString(" ")
		b.WriteString(ValueStyle.Render(padLeft(fmt.Sprint(v), 3) + " " + Bar(v, 255, 20)))
		b.WriteString("\n")
	}
	b.WriteString(LabelStyle.Render(pad("Total", labelWidth)))
	b.WriteString(" ")
	b.WriteString(WinnerStyle.Render(padLeft(fmt.Sprint(rec.Total()), 3)))
	b.WriteString("\n")

	if species != nil {
		b.WriteString(SectionStyle.Render("Description"))
		b.WriteString("\n")
		b.WriteString(ValueStyle.Render(wordWrap(species.FlavorText(), detailWidth)))
		b.WriteString("\n")
	}

	if chain != nil {
		b.WriteString(SectionStyle.Render("Evolution"))
		b.WriteString("\n")
		b.WriteString(Evolution(*chain, rec.Name))
	}

	return b.String()
}

// Evolution renders a chain one stage per line. The current species is
// highlighted.
func Evolution(chain pokemon.EvolutionChain, current string) string {
	stages := chain.Stages()
	if len(stages) == 1 && len(stages[0]) == 1 {
		return HelpStyle.Render("This Pokémon does not evolve.") + "\n"
	}

	var b strings.Builder
	for i, stage := range stages {
		b.WriteString(LabelStyle.Render(fmt.Sprintf("Stage %d", i+1)))
		b.WriteString("  ")

		steps := make([]string, len(stage))
		for j, step := range stage {
			name := DisplayName(step.Species)
			if step.Species == current {
				name = WinnerStyle.Render(name)
			} else {
				name = ValueStyle.Render(name)
			}
			if len(step.Requirements) > 0 {
				name += HelpStyle.Render(" (" + strings.Join(step.Requirements, ", ") + ")")
			}
			steps[j] = name
		}
		b.WriteString(strings.Join(steps, DividerStyle.Render(" | ")))
		b.WriteString("\n")
	}
	return b.String()
}

func displayNames(slugs []string) []string {
	out := make([]string, len(slugs))
	for i, s := range slugs {
		out[i] = DisplayName(s)
	}
	return out
}
