package pokemon

import "strings"

const (
	// DefaultFlavorText is shown when a species has no English description.
	DefaultFlavorText = "No description available."
	// DefaultGenus is shown when a species has no English genus.
	DefaultGenus = "Unknown Pokémon"
)

// LocalizedText is a piece of text tagged with its language.
type LocalizedText struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Species holds the species-level data shown on a detail page.
type Species struct {
	ID                int             `json:"id"`
	Name              string          `json:"name"`
	FlavorTexts       []LocalizedText `json:"flavor_texts,omitempty"`
	Genera            []LocalizedText `json:"genera,omitempty"`
	Habitat           string          `json:"habitat,omitempty"`
	CaptureRate       int             `json:"capture_rate"`
	BaseHappiness     int             `json:"base_happiness"`
	GrowthRate        string          `json:"growth_rate"`
	EggGroups         []string        `json:"egg_groups"`
	EvolutionChainURL string          `json:"evolution_chain_url"`
}

// FlavorText returns the first English flavor text with form feeds and line
// breaks collapsed to spaces.
func (s Species) FlavorText() string {
	for _, entry := range s.FlavorTexts {
		if entry.Language == "en" {
			return cleanFlavorText(entry.Text)
		}
	}
	return DefaultFlavorText
}

// Genus returns the English genus, e.g. "Mouse Pokémon".
func (s Species) Genus() string {
	for _, entry := range s.Genera {
		if entry.Language == "en" && entry.Text != "" {
			return entry.Text
		}
	}
	return DefaultGenus
}

func cleanFlavorText(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\f", " ")), " ")
}
