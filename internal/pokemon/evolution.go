package pokemon

import (
	"fmt"
	"strings"
)

// EvolutionDetail describes one way a species evolves from its parent.
// Pointer fields are nil when PokeAPI reports null.
type EvolutionDetail struct {
	Trigger               string `json:"trigger"`
	MinLevel              *int   `json:"min_level,omitempty"`
	Item                  string `json:"item,omitempty"`
	HeldItem              string `json:"held_item,omitempty"`
	TimeOfDay             string `json:"time_of_day,omitempty"`
	Location              string `json:"location,omitempty"`
	MinHappiness          *int   `json:"min_happiness,omitempty"`
	MinBeauty             *int   `json:"min_beauty,omitempty"`
	MinAffection          *int   `json:"min_affection,omitempty"`
	KnownMoveType         string `json:"known_move_type,omitempty"`
	PartySpecies          string `json:"party_species,omitempty"`
	PartyType             string `json:"party_type,omitempty"`
	TradeSpecies          string `json:"trade_species,omitempty"`
	RelativePhysicalStats *int   `json:"relative_physical_stats,omitempty"`
	NeedsOverworldRain    bool   `json:"needs_overworld_rain,omitempty"`
	TurnUpsideDown        bool   `json:"turn_upside_down,omitempty"`
}

// Requirements renders the conditions of an evolution as short phrases.
func (d EvolutionDetail) Requirements() []string {
	var reqs []string

	if d.MinLevel != nil {
		reqs = append(reqs, fmt.Sprintf("Level %d", *d.MinLevel))
	}
	if d.Item != "" {
		reqs = append(reqs, "Use "+humanize(d.Item))
	}
	if d.HeldItem != "" {
		reqs = append(reqs, "Hold "+humanize(d.HeldItem))
	}
	if d.MinHappiness != nil {
		reqs = append(reqs, fmt.Sprintf("Happiness %d", *d.MinHappiness))
	}
	if d.MinBeauty != nil {
		reqs = append(reqs, fmt.Sprintf("Beauty %d", *d.MinBeauty))
	}
	if d.MinAffection != nil {
		reqs = append(reqs, fmt.Sprintf("Affection %d", *d.MinAffection))
	}
	if d.TimeOfDay != "" {
		reqs = append(reqs, "During "+d.TimeOfDay)
	}
	if d.Location != "" {
		reqs = append(reqs, "At "+humanize(d.Location))
	}
	if d.KnownMoveType != "" {
		reqs = append(reqs, fmt.Sprintf("Knows a %s move", d.KnownMoveType))
	}
	if d.PartySpecies != "" {
		reqs = append(reqs, "With "+humanize(d.PartySpecies)+" in party")
	}
	if d.PartyType != "" {
		reqs = append(reqs, fmt.Sprintf("With a %s type in party", d.PartyType))
	}
	if d.RelativePhysicalStats != nil {
		switch {
		case *d.RelativePhysicalStats > 0:
			reqs = append(reqs, "Attack > Defense")
		case *d.RelativePhysicalStats < 0:
			reqs = append(reqs, "Attack < Defense")
		default:
			reqs = append(reqs, "Attack = Defense")
		}
	}
	if d.NeedsOverworldRain {
		reqs = append(reqs, "While raining")
	}
	if d.TurnUpsideDown {
		reqs = append(reqs, "Turn console upside down")
	}

	switch d.Trigger {
	case "trade":
		if d.TradeSpecies != "" {
			reqs = append(reqs, "Trade for "+humanize(d.TradeSpecies))
		} else {
			reqs = append(reqs, "Trade")
		}
	case "shed":
		reqs = append(reqs, "Empty slot in party")
	}

	if len(reqs) == 0 && d.Trigger != "" && d.Trigger != "level-up" {
		reqs = append(reqs, humanize(d.Trigger))
	}
	if len(reqs) == 0 && d.Trigger == "level-up" {
		reqs = append(reqs, "Level up")
	}

	return reqs
}

// EvolutionNode is one species in an evolution tree.
type EvolutionNode struct {
	Species   string            `json:"species"`
	SpeciesID int               `json:"species_id"`
	Details   []EvolutionDetail `json:"details,omitempty"`
	EvolvesTo []EvolutionNode   `json:"evolves_to,omitempty"`
}

// EvolutionChain is a full evolution tree rooted at the base species.
type EvolutionChain struct {
	ID    int           `json:"id"`
	Chain EvolutionNode `json:"chain"`
}

// EvolutionStep is a flattened node with the requirements to reach it.
type EvolutionStep struct {
	Species      string   `json:"species"`
	SpeciesID    int      `json:"species_id"`
	From         string   `json:"from,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
}

// Stages flattens the tree breadth-first. Stage 0 holds the base species;
// branching evolutions (e.g. Eevee) put all siblings in the same stage.
func (c EvolutionChain) Stages() [][]EvolutionStep {
	var stages [][]EvolutionStep

	type queued struct {
		node   EvolutionNode
		parent string
	}
	level := []queued{{node: c.Chain}}

	for len(level) > 0 {
		var stage []EvolutionStep
		var next []queued
		for _, q := range level {
			step := EvolutionStep{
				Species:   q.node.Species,
				SpeciesID: q.node.SpeciesID,
				From:      q.parent,
			}
			for _, d := range q.node.Details {
				step.Requirements = append(step.Requirements, d.Requirements()...)
			}
			stage = append(stage, step)
			for _, child := range q.node.EvolvesTo {
				next = append(next, queued{node: child, parent: q.node.Species})
			}
		}
		stages = append(stages, stage)
		level = next
	}

	return stages
}

// Contains reports whether the species appears anywhere in the chain.
func (c EvolutionChain) Contains(species string) bool {
	for _, stage := range c.Stages() {
		for _, step := range stage {
			if step.Species == species {
				return true
			}
		}
	}
	return false
}

// humanize turns an API slug like "thunder-stone" into "thunder stone".
func humanize(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}
