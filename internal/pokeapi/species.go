package pokeapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/f3rmion/pokedex/internal/pokemon"
)

// Species fetches species data by name or id.
func (c *Client) Species(ctx context.Context, ref string) (pokemon.Species, error) {
	ref, err := normalizeRef(ref)
	if err != nil {
		return pokemon.Species{}, fmt.Errorf("fetching species: %w", err)
	}

	var raw speciesResponse
	if err := c.getJSON(ctx, "/pokemon-species/"+ref, &raw); err != nil {
		return pokemon.Species{}, fmt.Errorf("fetching species %s: %w", ref, err)
	}
	return raw.species(), nil
}

// SpeciesOf fetches the species a Pokémon belongs to. Alternate forms
// (e.g. "giratina-origin") have a species name different from their own.
func (c *Client) SpeciesOf(ctx context.Context, rec pokemon.Record) (pokemon.Species, error) {
	raw, err := c.pokemonResponse(ctx, fmt.Sprint(rec.ID))
	if err != nil {
		return pokemon.Species{}, err
	}
	if raw.Species.URL == "" {
		return c.Species(ctx, rec.Name)
	}

	var sp speciesResponse
	if err := c.getJSON(ctx, raw.Species.URL, &sp); err != nil {
		return pokemon.Species{}, fmt.Errorf("fetching species %s: %w", raw.Species.Name, err)
	}
	return sp.species(), nil
}

// EvolutionChain fetches an evolution chain by id.
func (c *Client) EvolutionChain(ctx context.Context, id int) (pokemon.EvolutionChain, error) {
	return c.evolutionChain(ctx, fmt.Sprintf("/evolution-chain/%d", id))
}

// EvolutionChainURL fetches the chain a species links to.
func (c *Client) EvolutionChainURL(ctx context.Context, url string) (pokemon.EvolutionChain, error) {
	if url == "" {
		return pokemon.EvolutionChain{}, errors.New("fetching evolution chain: empty url")
	}
	return c.evolutionChain(ctx, url)
}

func (c *Client) evolutionChain(ctx context.Context, ref string) (pokemon.EvolutionChain, error) {
	var raw evolutionChainResponse
	if err := c.getJSON(ctx, ref, &raw); err != nil {
		return pokemon.EvolutionChain{}, fmt.Errorf("fetching evolution chain: %w", err)
	}
	return pokemon.EvolutionChain{ID: raw.ID, Chain: raw.Chain.node()}, nil
}

func (s speciesResponse) species() pokemon.Species {
	sp := pokemon.Species{
		ID:          s.ID,
		Name:        s.Name,
		Habitat:     s.Habitat.name(),
		CaptureRate: s.CaptureRate,
		GrowthRate:  s.GrowthRate.name(),
		EggGroups:   names(s.EggGroups),
	}
	if s.BaseHappiness != nil {
		sp.BaseHappiness = *s.BaseHappiness
	}
	if s.EvolutionChain != nil {
		sp.EvolutionChainURL = s.EvolutionChain.URL
	}
	for _, f := range s.FlavorTextEntries {
		sp.FlavorTexts = append(sp.FlavorTexts, pokemon.LocalizedText{
			Text:     f.FlavorText,
			Language: f.Language.Name,
		})
	}
	for _, g := range s.Genera {
		sp.Genera = append(sp.Genera, pokemon.LocalizedText{
			Text:     g.Genus,
			Language: g.Language.Name,
		})
	}
	return sp
}

func (l chainLinkJSON) node() pokemon.EvolutionNode {
	n := pokemon.EvolutionNode{
		Species:   l.Species.Name,
		SpeciesID: IDFromURL(l.Species.URL),
	}
	for _, d := range l.EvolutionDetails {
		n.Details = append(n.Details, d.detail())
	}
	for _, next := range l.EvolvesTo {
		n.EvolvesTo = append(n.EvolvesTo, next.node())
	}
	return n
}

func (d evolutionDetailJSON) detail() pokemon.EvolutionDetail {
	return pokemon.EvolutionDetail{
		Trigger:               d.Trigger.name(),
		MinLevel:              d.MinLevel,
		Item:                  d.Item.name(),
		HeldItem:              d.HeldItem.name(),
		TimeOfDay:             d.TimeOfDay,
		Location:              d.Location.name(),
		MinHappiness:          d.MinHappiness,
		MinBeauty:             d.MinBeauty,
		MinAffection:          d.MinAffection,
		KnownMoveType:         d.KnownMoveType.name(),
		PartySpecies:          d.PartySpecies.name(),
		PartyType:             d.PartyType.name(),
		TradeSpecies:          d.TradeSpecies.name(),
		RelativePhysicalStats: d.RelativePhysicalStats,
		NeedsOverworldRain:    d.NeedsOverworldRain,
		TurnUpsideDown:        d.TurnUpsideDown,
	}
}
