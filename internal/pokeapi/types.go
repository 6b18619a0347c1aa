package pokeapi

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/f3rmion/pokedex/internal/pokemon"
)

// chartMemo holds the assembled type chart once loaded.
type chartMemo struct {
	mu    sync.Mutex
	chart pokemon.TypeChart
}

// TypeNames lists every type name PokeAPI defines.
func (c *Client) TypeNames(ctx context.Context) ([]string, error) {
	var raw listResponse
	if err := c.getJSON(ctx, "/type?limit=100", &raw); err != nil {
		return nil, fmt.Errorf("listing types: %w", err)
	}

	names := make([]string, 0, len(raw.Results))
	for _, r := range raw.Results {
		names = append(names, r.Name)
	}
	return names, nil
}

// Type fetches the damage relations of one type.
func (c *Client) Type(ctx context.Context, name string) (pokemon.TypeRelations, error) {
	name, err := normalizeRef(name)
	if err != nil {
		return pokemon.TypeRelations{}, fmt.Errorf("fetching type: %w", err)
	}

	var raw typeResponse
	if err := c.getJSON(ctx, "/type/"+name, &raw); err != nil {
		return pokemon.TypeRelations{}, fmt.Errorf("fetching type %s: %w", name, err)
	}

	d := raw.DamageRelations
	return pokemon.TypeRelations{
		DoubleDamageTo:   names(d.DoubleDamageTo),
		HalfDamageTo:     names(d.HalfDamageTo),
		NoDamageTo:       names(d.NoDamageTo),
		DoubleDamageFrom: names(d.DoubleDamageFrom),
		HalfDamageFrom:   names(d.HalfDamageFrom),
		NoDamageFrom:     names(d.NoDamageFrom),
	}, nil
}

// TypeChart loads every type's damage relations. The first successful
// result is kept for the life of the client.
func (c *Client) TypeChart(ctx context.Context) (pokemon.TypeChart, error) {
	c.chart.mu.Lock()
	defer c.chart.mu.Unlock()

	if c.chart.chart != nil {
		return c.chart.chart, nil
	}

	typeNames, err := c.TypeNames(ctx)
	if err != nil {
		return nil, err
	}

	relations := make([]pokemon.TypeRelations, len(typeNames))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, name := range typeNames {
		g.Go(func() error {
			rel, err := c.Type(gctx, name)
			if err != nil {
				return err
			}
			relations[i] = rel
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading type chart: %w", err)
	}

	chart := make(pokemon.TypeChart, len(typeNames))
	for i, name := range typeNames {
		chart[name] = relations[i]
	}
	c.chart.chart = chart
	c.logger.Debug("type chart loaded", zap.Int("types", len(chart)))
	return chart, nil
}

func names(rs []namedResource) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Name)
	}
	return out
}
