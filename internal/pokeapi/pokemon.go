package pokeapi

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/f3rmion/pokedex/internal/pokemon"
)

// List is one page of the Pokémon index.
type List struct {
	Count int                `json:"count"`
	Items []pokemon.ListItem `json:"items"`
}

// Pokemon fetches a Pokémon by name or id.
func (c *Client) Pokemon(ctx context.Context, ref string) (pokemon.Record, error) {
	raw, err := c.pokemonResponse(ctx, ref)
	if err != nil {
		return pokemon.Record{}, err
	}
	return raw.record(), nil
}

// PokemonByID fetches a Pokémon by national dex id.
func (c *Client) PokemonByID(ctx context.Context, id int) (pokemon.Record, error) {
	if id <= 0 {
		return pokemon.Record{}, fmt.Errorf("fetching pokemon: %w %d", ErrInvalidRef, id)
	}
	return c.Pokemon(ctx, strconv.Itoa(id))
}

func (c *Client) pokemonResponse(ctx context.Context, ref string) (pokemonResponse, error) {
	var raw pokemonResponse

	ref, err := normalizeRef(ref)
	if err != nil {
		return raw, fmt.Errorf("fetching pokemon: %w", err)
	}
	if err := c.getJSON(ctx, "/pokemon/"+ref, &raw); err != nil {
		return raw, fmt.Errorf("fetching pokemon %s: %w", ref, err)
	}
	return raw, nil
}

// PokemonList fetches one page of the index.
func (c *Client) PokemonList(ctx context.Context, limit, offset int) (List, error) {
	var raw listResponse
	path := fmt.Sprintf("/pokemon?limit=%d&offset=%d", limit, offset)
	if err := c.getJSON(ctx, path, &raw); err != nil {
		return List{}, fmt.Errorf("listing pokemon: %w", err)
	}

	list := List{Count: raw.Count, Items: make([]pokemon.ListItem, 0, len(raw.Results))}
	for _, r := range raw.Results {
		list.Items = append(list.Items, pokemon.ListItem{
			ID:   IDFromURL(r.URL),
			Name: r.Name,
			URL:  r.URL,
		})
	}
	return list, nil
}

// Count returns the number of Pokémon PokeAPI knows about.
func (c *Client) Count(ctx context.Context) (int, error) {
	list, err := c.PokemonList(ctx, 1, 0)
	if err != nil {
		return 0, err
	}
	return list.Count, nil
}

// Featured fetches FeaturedIDs in order.
func (c *Client) Featured(ctx context.Context) ([]pokemon.Record, error) {
	return c.PokemonByIDs(ctx, FeaturedIDs)
}

// PokemonByIDs fetches several Pokémon in parallel, preserving order.
func (c *Client) PokemonByIDs(ctx context.Context, ids []int) ([]pokemon.Record, error) {
	records := make([]pokemon.Record, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			rec, err := c.PokemonByID(ctx, id)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// IDFromURL extracts the trailing numeric id from a resource URL such as
// https://pokeapi.co/api/v2/pokemon/25/. It returns 0 when there is none.
func IDFromURL(u string) int {
	u = strings.TrimRight(u, "/")
	i := strings.LastIndexByte(u, '/')
	id, err := strconv.Atoi(u[i+1:])
	if err != nil {
		return 0
	}
	return id
}

func (p pokemonResponse) record() pokemon.Record {
	rec := pokemon.Record{
		ID:     p.ID,
		Name:   p.Name,
		Sprite: p.sprite(),
		Height: p.Height,
		Weight: p.Weight,
	}
	if p.BaseExperience != nil {
		rec.BaseExperience = *p.BaseExperience
	}

	slots := append([]typeSlot(nil), p.Types...)
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Slot < slots[j].Slot })
	rec.Types = make([]string, 0, len(slots))
	for _, s := range slots {
		rec.Types = append(rec.Types, s.Type.Name)
	}

	rec.Stats = make([]pokemon.Stat, 0, len(p.Stats))
	for _, s := range p.Stats {
		rec.Stats = append(rec.Stats, pokemon.Stat{Name: s.Stat.Name, Base: s.BaseStat})
	}

	abilities := append([]abilitySlot(nil), p.Abilities...)
	sort.SliceStable(abilities, func(i, j int) bool { return abilities[i].Slot < abilities[j].Slot })
	rec.Abilities = make([]string, 0, len(abilities))
	for _, a := range abilities {
		rec.Abilities = append(rec.Abilities, a.Ability.Name)
	}

	return rec
}

func (p pokemonResponse) sprite() string {
	if art := p.Sprites.Other.OfficialArtwork.FrontDefault; art != nil && *art != "" {
		return *art
	}
	if p.Sprites.FrontDefault != nil {
		return *p.Sprites.FrontDefault
	}
	return ""
}
