package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/f3rmion/pokedex/internal/cache"
	"github.com/f3rmion/pokedex/internal/catalog"
	"github.com/f3rmion/pokedex/internal/compare"
	"github.com/f3rmion/pokedex/internal/config"
	"github.com/f3rmion/pokedex/internal/pokeapi"
	"github.com/f3rmion/pokedex/internal/sprite"
)

// app bundles the services commands are built from.
type app struct {
	client  *pokeapi.Client
	catalog *catalog.Loader
	sprites *sprite.Cache
}

func logPath(dir string) string {
	return filepath.Join(dir, "pokedex.log")
}

// openStore opens the response cache configured in c. A disabled cache
// falls back to memory so a single run still shares responses.
func openStore(c config.Config) (cache.Store, error) {
	cc := cache.Config{TTL: c.Cache.TTL}
	if c.Cache.Disabled {
		return cache.NewMemoryStore(cc), nil
	}

	store, err := cache.OpenSQLite(c.Cache.Path, cc)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", c.Cache.Path, err)
	}
	return store, nil
}

// newApp builds the client stack from the loaded configuration. Callers
// must call close when done.
func newApp() (*app, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	client := pokeapi.NewClient(
		pokeapi.WithBaseURL(cfg.API.BaseURL),
		pokeapi.WithTimeout(cfg.API.Timeout),
		pokeapi.WithUserAgent(cfg.API.UserAgent),
		pokeapi.WithConcurrency(cfg.API.Concurrency),
		pokeapi.WithStore(store),
		pokeapi.WithLogger(logger.Named("pokeapi")),
	)

	return &app{
		client: client,
		catalog: catalog.NewLoader(client,
			catalog.WithLimit(cfg.Catalog.Limit),
			catalog.WithConcurrency(cfg.API.Concurrency),
			catalog.WithLogger(logger.Named("catalog"))),
		sprites: sprite.NewCache(client),
	}, nil
}

func (a *app) close() {
	if err := a.client.Store().Close(); err != nil {
		logger.Warn("closing cache", zap.Error(err))
	}
}

// newSelection returns an empty selection with the type chart loaded.
// Without the chart, comparisons still run but list no type advantages.
func (a *app) newSelection(ctx context.Context) *compare.Selection {
	opts := []compare.Option{compare.WithLogger(logger.Named("compare"))}
	chart, err := a.client.TypeChart(ctx)
	if err != nil {
		logger.Warn("type chart unavailable", zap.Error(err))
	} else {
		opts = append(opts, compare.WithTypeChart(chart))
	}
	return compare.NewSelection(a.client, opts...)
}
