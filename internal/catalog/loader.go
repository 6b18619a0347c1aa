package catalog

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/f3rmion/pokedex/internal/pokeapi"
	"github.com/f3rmion/pokedex/internal/pokemon"
)

const (
	// MasterListLimit is the number of index entries loaded up front.
	MasterListLimit = 1302

	// SearchScope is how many index entries Search looks at.
	SearchScope = 1000

	// SearchLimit caps the number of Search results.
	SearchLimit = 10

	// MinSearchLength is the shortest term Search acts on, in runes.
	MinSearchLength = 2
)

// Source is the subset of the PokeAPI client the catalog needs.
type Source interface {
	PokemonList(ctx context.Context, limit, offset int) (pokeapi.List, error)
	PokemonByID(ctx context.Context, id int) (pokemon.Record, error)
}

// Loader pages through the Pokémon index, fetching details on demand.
type Loader struct {
	src         Source
	limit       int
	concurrency int
	logger      *zap.Logger

	mu    sync.Mutex
	items []pokemon.ListItem
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLimit overrides MasterListLimit.
func WithLimit(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.limit = n
		}
	}
}

// WithConcurrency bounds parallel detail fetches.
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a Loader reading from src.
func NewLoader(src Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		src:         src,
		limit:       MasterListLimit,
		concurrency: pokeapi.DefaultConcurrency,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// List returns the master index. It is fetched once per Loader.
func (l *Loader) List(ctx context.Context) ([]pokemon.ListItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.items != nil {
		return l.items, nil
	}

	list, err := l.src.PokemonList(ctx, l.limit, 0)
	if err != nil {
		return nil, fmt.Errorf("loading index: %w", err)
	}
	l.items = list.Items
	l.logger.Debug("index loaded", zap.Int("entries", len(l.items)), zap.Int("count", list.Count))
	return l.items, nil
}

// Page fetches details for the index window [offset, offset+limit).
func (l *Loader) Page(ctx context.Context, offset, limit int) ([]pokemon.Record, error) {
	items, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) || limit <= 0 {
		return []pokemon.Record{}, nil
	}
	end := min(offset+limit, len(items))
	return l.details(ctx, items[offset:end])
}

// Query applies f to the whole index and returns one page of results.
// Filters that only look at names and ids run against the index, and
// details are fetched for the returned page alone; anything else needs
// details for every entry matching the name search.
func (l *Loader) Query(ctx context.Context, f Filter, page, size int) (Page[pokemon.Record], error) {
	if err := f.Validate(); err != nil {
		return Page[pokemon.Record]{}, err
	}
	if f.Expr != "" {
		if _, err := Compile(f.Expr); err != nil {
			return Page[pokemon.Record]{}, err
		}
	}

	items, err := l.List(ctx)
	if err != nil {
		return Page[pokemon.Record]{}, err
	}

	var named []pokemon.ListItem
	for _, it := range items {
		if f.MatchesName(it.ID, it.Name) {
			named = append(named, it)
		}
	}

	if !f.NeedsDetails() {
		sortItems(named, f.SortBy, f.Order)
		window := Paginate(named, page, size)
		records, err := l.details(ctx, window.Items)
		if err != nil {
			return Page[pokemon.Record]{}, err
		}
		return Page[pokemon.Record]{
			Items:      records,
			Page:       window.Page,
			Limit:      window.Limit,
			Total:      window.Total,
			TotalPages: window.TotalPages,
		}, nil
	}

	records, err := l.details(ctx, named)
	if err != nil {
		return Page[pokemon.Record]{}, err
	}
	filtered, err := f.Apply(records)
	if err != nil {
		return Page[pokemon.Record]{}, err
	}
	return Paginate(filtered, page, size), nil
}

// Search returns up to SearchLimit Pokémon whose name or id contains term,
// looking at the first SearchScope index entries. Terms shorter than
// MinSearchLength return nothing.
func (l *Loader) Search(ctx context.Context, term string) ([]pokemon.Record, error) {
	if utf8.RuneCountInString(term) < MinSearchLength {
		return nil, nil
	}

	items, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) > SearchScope {
		items = items[:SearchScope]
	}

	f := Filter{Search: term}
	var hits []pokemon.ListItem
	for _, it := range items {
		if f.MatchesName(it.ID, it.Name) {
			hits = append(hits, it)
			if len(hits) == SearchLimit {
				break
			}
		}
	}
	return l.details(ctx, hits)
}

func (l *Loader) details(ctx context.Context, items []pokemon.ListItem) ([]pokemon.Record, error) {
	records := make([]pokemon.Record, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, it := range items {
		g.Go(func() error {
			rec, err := l.src.PokemonByID(gctx, it.ID)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading details: %w", err)
	}
	return records, nil
}

func sortItems(items []pokemon.ListItem, key, order string) {
	less := func(a, b pokemon.ListItem) bool { return a.ID < b.ID }
	if key == SortByName {
		less = func(a, b pokemon.ListItem) bool { return a.Name < b.Name }
	}
	sortStable(items, less, order == OrderDesc)
}
