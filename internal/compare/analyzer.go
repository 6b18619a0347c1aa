// Package compare implements the side-by-side comparison of up to four
// Pokémon: the selection set and the analysis derived from it.
package compare

import (
	"fmt"

	"github.com/f3rmion/pokedex/internal/pokemon"
)

// MinAnalyzed is the smallest selection that produces an analysis.
const MinAnalyzed = 2

// Categories names the winning Pokémon of each comparison category.
// Overall and Stats are both the stat-total winner and always agree.
type Categories struct {
	Stats   string `json:"stats"`
	Speed   string `json:"speed"`
	Defense string `json:"defense"`
	Attack  string `json:"attack"`
	Overall string `json:"overall"`
}

// Analysis is the derived result of comparing a selection.
type Analysis struct {
	Winner          string              `json:"winner"`
	Categories      Categories          `json:"categories"`
	Recommendations []string            `json:"recommendations"`
	TypeAdvantages  map[string][]string `json:"typeAdvantages"`
}

// statLine is the per-record projection the category folds run over.
type statLine struct {
	name    string
	total   int
	hp      int
	attack  int
	defense int
	speed   int
}

// Analyze compares the records against each other. It returns nil when
// fewer than two records are given.
func Analyze(records []pokemon.Record, chart pokemon.TypeChart) *Analysis {
	if len(records) < MinAnalyzed {
		return nil
	}

	lines := make([]statLine, len(records))
	for i, r := range records {
		lines[i] = statLine{
			name:    r.Name,
			total:   r.Total(),
			hp:      r.Stat(pokemon.StatHP),
			attack:  r.Stat(pokemon.StatAttack),
			defense: r.Stat(pokemon.StatDefense),
			speed:   r.Stat(pokemon.StatSpeed),
		}
	}

	byTotal := best(lines, func(l statLine) int { return l.total })
	bySpeed := best(lines, func(l statLine) int { return l.speed })
	byDefense := best(lines, func(l statLine) int { return l.defense })
	byAttack := best(lines, func(l statLine) int { return l.attack })

	categories := Categories{
		Stats:   byTotal.name,
		Speed:   bySpeed.name,
		Defense: byDefense.name,
		Attack:  byAttack.name,
		Overall: byTotal.name,
	}

	return &Analysis{
		Winner:     categories.Overall,
		Categories: categories,
		Recommendations: []string{
			fmt.Sprintf("%s has the highest total stats (%d)", categories.Overall, byTotal.total),
			fmt.Sprintf("%s is the fastest Pokémon in this comparison", categories.Speed),
			fmt.Sprintf("%s has the best defensive capabilities", categories.Defense),
			fmt.Sprintf("%s deals the most physical damage", categories.Attack),
		},
		TypeAdvantages: typeAdvantages(records, chart),
	}
}

// best folds left to right and only replaces the running maximum on a
// strictly greater value, so the earliest record wins a tie.
func best(lines []statLine, value func(statLine) int) statLine {
	top := lines[0]
	for _, l := range lines[1:] {
		if value(l) > value(top) {
			top = l
		}
	}
	return top
}

// typeAdvantages lists, for every record, each opponent type its own types
// hit for double damage. Duplicates are kept when both of a record's types
// threaten the same opponent type.
func typeAdvantages(records []pokemon.Record, chart pokemon.TypeChart) map[string][]string {
	advantages := make(map[string][]string, len(records))

	for _, subject := range records {
		list := []string{}
		for _, opponent := range records {
			if opponent.ID == subject.ID {
				continue
			}
			for _, t := range subject.Types {
				for _, o := range opponent.Types {
					if chart.SuperEffective(t, o) {
						list = append(list, fmt.Sprintf("Super effective against %s (%s)", opponent.Name, o))
					}
				}
			}
		}
		advantages[subject.Name] = list
	}

	return advantages
}

// StatMaxima returns the highest value of every base stat across the
// records, used to draw relative stat bars.
func StatMaxima(records []pokemon.Record) map[pokemon.StatName]int {
	maxima := make(map[pokemon.StatName]int, len(pokemon.StatNames))
	for _, name := range pokemon.StatNames {
		maxima[name] = 0
	}
	for _, r := range records {
		for _, s := range r.Stats {
			if s.Base > maxima[s.Name] {
				maxima[s.Name] = s.Base
			}
		}
	}
	return maxima
}

// MaxTotal returns the highest stat total across the records.
func MaxTotal(records []pokemon.Record) int {
	highest := 0
	for _, r := range records {
		if t := r.Total(); t > highest {
			highest = t
		}
	}
	return highest
}
