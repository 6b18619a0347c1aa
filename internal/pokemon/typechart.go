package pokemon

import "sort"

// TypeRelations holds the damage relations of a single elemental type.
type TypeRelations struct {
	DoubleDamageTo   []string `json:"double_damage_to"`
	HalfDamageTo     []string `json:"half_damage_to"`
	NoDamageTo       []string `json:"no_damage_to"`
	DoubleDamageFrom []string `json:"double_damage_from"`
	HalfDamageFrom   []string `json:"half_damage_from"`
	NoDamageFrom     []string `json:"no_damage_from"`
}

// TypeChart maps a type name to its damage relations.
// A chart is loaded once and treated as read-only afterwards.
type TypeChart map[string]TypeRelations

// SuperEffective reports whether attacking deals double damage to defending.
func (c TypeChart) SuperEffective(attacking, defending string) bool {
	rel, ok := c[attacking]
	if !ok {
		return false
	}
	return contains(rel.DoubleDamageTo, defending)
}

// Multiplier returns the damage multiplier of an attacking type against a
// defender with the given types. Unknown types count as neutral.
func (c TypeChart) Multiplier(attacking string, defending []string) float64 {
	rel, ok := c[attacking]
	if !ok {
		return 1
	}

	eff := 1.0
	for _, d := range defending {
		switch {
		case contains(rel.NoDamageTo, d):
			eff *= 0
		case contains(rel.DoubleDamageTo, d):
			eff *= 2
		case contains(rel.HalfDamageTo, d):
			eff *= 0.5
		}
	}
	return eff
}

// Names returns the chart's type names in alphabetical order.
func (c TypeChart) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
