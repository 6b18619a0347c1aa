// Package pokemon provides the core domain types for the Pokédex.
package pokemon

// StatName identifies one of the six base stats.
type StatName = string

const (
	StatHP             StatName = "hp"
	StatAttack         StatName = "attack"
	StatDefense        StatName = "defense"
	StatSpecialAttack  StatName = "special-attack"
	StatSpecialDefense StatName = "special-defense"
	StatSpeed          StatName = "speed"
)

// StatNames lists the base stats in PokeAPI order.
var StatNames = []StatName{
	StatHP,
	StatAttack,
	StatDefense,
	StatSpecialAttack,
	StatSpecialDefense,
	StatSpeed,
}

// Stat is a single named base stat.
type Stat struct {
	Name StatName `json:"name" yaml:"name"`
	Base int      `json:"base_stat" yaml:"base_stat"`
}

// Record is a normalized Pokémon as used by the comparison engine.
// Records are built from a provider response and never mutated afterwards.
type Record struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Sprite         string   `json:"sprite"`
	Types          []string `json:"types"`  // 1 or 2 entries, primary first
	Stats          []Stat   `json:"stats"`  // six base stats
	Height         int      `json:"height"` // decimetres
	Weight         int      `json:"weight"` // hectograms
	Abilities      []string `json:"abilities"`
	BaseExperience int      `json:"base_experience"` // 0 when the API omits it
}

// Total returns the sum of all base stats.
func (r Record) Total() int {
	total := 0
	for _, s := range r.Stats {
		total += s.Base
	}
	return total
}

// Stat returns the named base stat, or 0 if the record does not carry it.
func (r Record) Stat(name StatName) int {
	for _, s := range r.Stats {
		if s.Name == name {
			return s.Base
		}
	}
	return 0
}

// HasType reports whether the record has the given elemental type.
func (r Record) HasType(t string) bool {
	for _, own := range r.Types {
		if own == t {
			return true
		}
	}
	return false
}

// ListItem is an entry of the paginated species list.
type ListItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}
