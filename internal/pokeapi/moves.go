package pokeapi

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/f3rmion/pokedex/internal/pokemon"
)

// Move fetches a move by name or id.
func (c *Client) Move(ctx context.Context, ref string) (pokemon.Move, error) {
	ref, err := normalizeRef(ref)
	if err != nil {
		return pokemon.Move{}, fmt.Errorf("fetching move: %w", err)
	}

	var raw moveResponse
	if err := c.getJSON(ctx, "/move/"+ref, &raw); err != nil {
		return pokemon.Move{}, fmt.Errorf("fetching move %s: %w", ref, err)
	}
	return raw.move(), nil
}

// Moves fetches the details of every move rec can learn, with the learn
// method and level of the first version group listed. The result is sorted
// with pokemon.SortMoves.
func (c *Client) Moves(ctx context.Context, rec pokemon.Record) ([]pokemon.Move, error) {
	raw, err := c.pokemonResponse(ctx, fmt.Sprint(rec.ID))
	if err != nil {
		return nil, err
	}

	moves := make([]pokemon.Move, len(raw.Moves))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, slot := range raw.Moves {
		g.Go(func() error {
			m, err := c.Move(gctx, slot.Move.Name)
			if err != nil {
				return err
			}
			if len(slot.VersionGroupDetails) > 0 {
				vg := slot.VersionGroupDetails[0]
				m.LearnMethod = vg.MoveLearnMethod.Name
				m.LevelLearnedAt = vg.LevelLearnedAt
			}
			moves[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching moves for %s: %w", rec.Name, err)
	}

	pokemon.SortMoves(moves)
	return moves, nil
}

// Sprite downloads the image at url. Image bytes are cached like any
// other response.
func (c *Client) Sprite(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("fetching sprite: %w", ErrNoSprite)
	}
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching sprite: %w", err)
	}
	return body, nil
}

// ErrNoSprite is returned for records without a sprite URL.
var ErrNoSprite = errors.New("no sprite available")

func (m moveResponse) move() pokemon.Move {
	mv := pokemon.Move{
		ID:          m.ID,
		Name:        m.Name,
		Type:        m.Type.Name,
		Power:       m.Power,
		Accuracy:    m.Accuracy,
		Priority:    m.Priority,
		DamageClass: m.DamageClass.name(),
	}
	if m.PP != nil {
		mv.PP = *m.PP
	}
	for _, e := range m.EffectEntries {
		if e.Language.Name != "en" {
			continue
		}
		mv.Effect = e.ShortEffect
		if mv.Effect == "" {
			mv.Effect = e.Effect
		}
		break
	}
	return mv
}
