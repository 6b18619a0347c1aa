package pokeapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/pokedex/internal/cache"
	"github.com/f3rmion/pokedex/internal/pokemon"
)

const pikachuJSON = `{
	"id": 25,
	"name": "pikachu",
	"height": 4,
	"weight": 60,
	"base_experience": 112,
	"types": [{"slot": 1, "type": {"name": "electric", "url": "https://pokeapi.co/api/v2/type/13/"}}],
	"stats": [
		{"base_stat": 35, "stat": {"name": "hp"}},
		{"base_stat": 55, "stat": {"name": "attack"}},
		{"base_stat": 40, "stat": {"name": "defense"}},
		{"base_stat": 50, "stat": {"name": "special-attack"}},
		{"base_stat": 50, "stat": {"name": "special-defense"}},
		{"base_stat": 90, "stat": {"name": "speed"}}
	],
	"abilities": [
		{"slot": 3, "is_hidden": true, "ability": {"name": "lightning-rod"}},
		{"slot": 1, "is_hidden": false, "ability": {"name": "static"}}
	],
	"sprites": {
		"front_default": "https://img.example/25.png",
		"other": {"official-artwork": {"front_default": "https://img.example/art/25.png"}}
	},
	"species": {"name": "pikachu", "url": "https://pokeapi.co/api/v2/pokemon-species/25/"},
	"moves": [
		{"move": {"name": "thunderbolt"}, "version_group_details": [{"level_learned_at": 0, "move_learn_method": {"name": "machine"}}]},
		{"move": {"name": "thunder-shock"}, "version_group_details": [{"level_learned_at": 1, "move_learn_method": {"name": "level-up"}}]}
	]
}`

const gyaradosJSON = `{
	"id": 130,
	"name": "gyarados",
	"height": 65,
	"weight": 2350,
	"base_experience": null,
	"types": [
		{"slot": 2, "type": {"name": "flying"}},
		{"slot": 1, "type": {"name": "water"}}
	],
	"stats": [
		{"base_stat": 95, "stat": {"name": "hp"}},
		{"base_stat": 125, "stat": {"name": "attack"}}
	],
	"abilities": [],
	"sprites": {"front_default": "https://img.example/130.png", "other": {"official-artwork": {"front_default": null}}},
	"species": {"name": "gyarados", "url": "https://pokeapi.co/api/v2/pokemon-species/130/"},
	"moves": []
}`

// fakeAPI serves canned PokeAPI responses and counts requests per path.
type fakeAPI struct {
	mu     sync.Mutex
	routes map[string]string
	hits   map[string]int
	delay  time.Duration
	status map[string]int

	// When hold is set, requests signal arrived and block until hold closes.
	hold    chan struct{}
	arrived chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		routes: map[string]string{
			"/pokemon/25":         pikachuJSON,
			"/pokemon/pikachu":    pikachuJSON,
			"/pokemon/130":        gyaradosJSON,
			"/move/thunderbolt":   `{"id": 85, "name": "thunderbolt", "type": {"name": "electric"}, "power": 90, "pp": 15, "accuracy": 100, "priority": 0, "damage_class": {"name": "special"}, "effect_entries": [{"effect": "long", "short_effect": "May paralyze.", "language": {"name": "en"}}]}`,
			"/move/thunder-shock": `{"id": 84, "name": "thunder-shock", "type": {"name": "electric"}, "power": 40, "pp": 30, "accuracy": 100, "priority": 0, "damage_class": {"name": "special"}, "effect_entries": []}`,
			"/type":               `{"count": 3, "results": [{"name": "electric"}, {"name": "water"}, {"name": "flying"}]}`,
			"/type/electric":      `{"id": 13, "name": "electric", "damage_relations": {"double_damage_to": [{"name": "water"}, {"name": "flying"}], "half_damage_to": [{"name": "electric"}], "no_damage_to": [{"name": "ground"}], "double_damage_from": [{"name": "ground"}], "half_damage_from": [{"name": "flying"}], "no_damage_from": []}}`,
			"/type/water":         `{"id": 11, "name": "water", "damage_relations": {"double_damage_to": [{"name": "fire"}], "half_damage_to": [{"name": "water"}], "no_damage_to": [], "double_damage_from": [{"name": "electric"}], "half_damage_from": [], "no_damage_from": []}}`,
			"/type/flying":        `{"id": 3, "name": "flying", "damage_relations": {"double_damage_to": [{"name": "grass"}], "half_damage_to": [{"name": "electric"}], "no_damage_to": [], "double_damage_from": [{"name": "electric"}], "half_damage_from": [], "no_damage_from": [{"name": "ground"}]}}`,
			"/pokemon":            `{"count": 1302, "results": [{"name": "bulbasaur", "url": "https://pokeapi.co/api/v2/pokemon/1/"}, {"name": "ivysaur", "url": "https://pokeapi.co/api/v2/pokemon/2/"}]}`,
			"/pokemon-species/25": `{
				"id": 25, "name": "pikachu",
				"flavor_text_entries": [
					{"flavor_text": "Une souris.", "language": {"name": "fr"}},
					{"flavor_text": "When several of\fthese POKéMON\ngather.", "language": {"name": "en"}}
				],
				"genera": [{"genus": "Mouse Pokémon", "language": {"name": "en"}}],
				"habitat": {"name": "forest"},
				"capture_rate": 190,
				"base_happiness": 50,
				"growth_rate": {"name": "medium"},
				"egg_groups": [{"name": "ground"}, {"name": "fairy"}],
				"evolution_chain": {"url": "BASE/evolution-chain/10/"}
			}`,
			"/evolution-chain/10": `{
				"id": 10,
				"chain": {
					"species": {"name": "pichu", "url": "https://pokeapi.co/api/v2/pokemon-species/172/"},
					"evolution_details": [],
					"evolves_to": [{
						"species": {"name": "pikachu", "url": "https://pokeapi.co/api/v2/pokemon-species/25/"},
						"evolution_details": [{"trigger": {"name": "level-up"}, "min_happiness": 160, "min_level": null, "time_of_day": ""}],
						"evolves_to": [{
							"species": {"name": "raichu", "url": "https://pokeapi.co/api/v2/pokemon-species/26/"},
							"evolution_details": [{"trigger": {"name": "use-item"}, "item": {"name": "thunder-stone"}, "time_of_day": ""}],
							"evolves_to": []
						}]
					}]
				}
			}`,
			"/sprites/25.png": "\x89PNG fake",
		},
		hits:   map[string]int{},
		status: map[string]int{},
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.hold != nil {
		select {
		case f.arrived <- struct{}{}:
		default:
		}
		<-f.hold
	}

	f.mu.Lock()
	path := strings.TrimSuffix(r.URL.Path, "/")
	f.hits[r.URL.RequestURI()]++
	body, ok := f.routes[path]
	status := f.status[path]
	f.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte(body))
}

func (f *fakeAPI) count(uri string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[uri]
}

func newTestClient(t *testing.T, api *fakeAPI, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	api.mu.Lock()
	for k, v := range api.routes {
		api.routes[k] = strings.ReplaceAll(v, "BASE", srv.URL)
	}
	api.mu.Unlock()

	opts = append([]Option{WithBaseURL(srv.URL)}, opts...)
	return NewClient(opts...), srv
}

func TestPokemonNormalizes(t *testing.T) {
	c, _ := newTestClient(t, newFakeAPI())

	got, err := c.PokemonByID(context.Background(), 25)
	require.NoError(t, err)

	want := pokemon.Record{
		ID:     25,
		Name:   "pikachu",
		Sprite: "https://img.example/art/25.png",
		Types:  []string{"electric"},
		Stats: []pokemon.Stat{
			{Name: "hp", Base: 35},
			{Name: "attack", Base: 55},
			{Name: "defense", Base: 40},
			{Name: "special-attack", Base: 50},
			{Name: "special-defense", Base: 50},
			{Name: "speed", Base: 90},
		},
		Height:         4,
		Weight:         60,
		Abilities:      []string{"static", "lightning-rod"},
		BaseExperience: 112,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PokemonByID(25) mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 320, got.Total())
}

func TestPokemonFallbacks(t *testing.T) {
	c, _ := newTestClient(t, newFakeAPI())

	got, err := c.PokemonByID(context.Background(), 130)
	require.NoError(t, err)

	assert.Equal(t, []string{"water", "flying"}, got.Types, "types ordered by slot")
	assert.Equal(t, "https://img.example/130.png", got.Sprite, "falls back to front_default")
	assert.Equal(t, 0, got.BaseExperience, "null base_experience")
	assert.Equal(t, 0, got.Stat(pokemon.StatSpeed))
}

func TestPokemonRefIsNormalized(t *testing.T) {
	api := newFakeAPI()
	c, _ := newTestClient(t, api)

	got, err := c.Pokemon(context.Background(), "  PIKACHU ")
	require.NoError(t, err)
	assert.Equal(t, 25, got.ID)
	assert.Equal(t, 1, api.count("/pokemon/pikachu"))

	_, err = c.Pokemon(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidRef)

	_, err = c.Pokemon(context.Background(), "../type")
	assert.ErrorIs(t, err, ErrInvalidRef)
}

func TestPokemonIsCached(t *testing.T) {
	api := newFakeAPI()
	c, _ := newTestClient(t, api)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.PokemonByID(ctx, 25)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, api.count("/pokemon/25"))
}

func TestPersistentStoreSurvivesClients(t *testing.T) {
	api := newFakeAPI()
	store := cache.NewMemoryStore(cache.DefaultConfig())
	ctx := context.Background()

	c1, srv := newTestClient(t, api, WithStore(store))
	_, err := c1.PokemonByID(ctx, 25)
	require.NoError(t, err)

	c2 := NewClient(WithBaseURL(srv.URL), WithStore(store))
	_, err = c2.PokemonByID(ctx, 25)
	require.NoError(t, err)

	assert.Equal(t, 1, api.count("/pokemon/25"))
	assert.Same(t, store, c2.Store())
}

func TestConcurrentLookupsCollapse(t *testing.T) {
	api := newFakeAPI()
	api.delay = 50 * time.Millisecond
	c, _ := newTestClient(t, api)

	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.PokemonByID(context.Background(), 25); err != nil {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, failures.Load())
	assert.Equal(t, 1, api.count("/pokemon/25"))
}

func TestCanceledCallerDoesNotFailSharedRequest(t *testing.T) {
	api := newFakeAPI()
	api.hold = make(chan struct{})
	api.arrived = make(chan struct{}, 1)
	c, _ := newTestClient(t, api)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.PokemonByID(ctxA, 25)
		errA <- err
	}()
	<-api.arrived

	type result struct {
		rec pokemon.Record
		err error
	}
	resB := make(chan result, 1)
	go func() {
		rec, err := c.PokemonByID(context.Background(), 25)
		resB <- result{rec, err}
	}()

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	// Give B time to join the in-flight request before it completes.
	time.Sleep(20 * time.Millisecond)
	close(api.hold)

	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, "pikachu", b.rec.Name)
	assert.Equal(t, 1, api.count("/pokemon/25"))
}

func TestNotFound(t *testing.T) {
	c, _ := newTestClient(t, newFakeAPI())

	_, err := c.Pokemon(context.Background(), "missingno")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "missingno")
}

func TestAPIError(t *testing.T) {
	api := newFakeAPI()
	api.status["/pokemon/25"] = http.StatusServiceUnavailable
	c, _ := newTestClient(t, api)

	_, err := c.PokemonByID(context.Background(), 25)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, "/pokemon/25", apiErr.Path)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestErrorsAreNotCached(t *testing.T) {
	api := newFakeAPI()
	api.status["/pokemon/25"] = http.StatusInternalServerError
	c, _ := newTestClient(t, api)
	ctx := context.Background()

	_, err := c.PokemonByID(ctx, 25)
	require.Error(t, err)

	api.mu.Lock()
	delete(api.status, "/pokemon/25")
	api.mu.Unlock()

	got, err := c.PokemonByID(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, "pikachu", got.Name)
	assert.Equal(t, 2, api.count("/pokemon/25"))
}

func TestDecodeError(t *testing.T) {
	api := newFakeAPI()
	api.routes["/pokemon/1"] = `{"id": "not a number"`
	c, _ := newTestClient(t, api)

	_, err := c.PokemonByID(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding /pokemon/1")
}

func TestInvalidID(t *testing.T) {
	c, _ := newTestClient(t, newFakeAPI())
	_, err := c.PokemonByID(context.Background(), 0)
	assert.Error(t, err)
}

func TestUserAgent(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(pikachuJSON))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithUserAgent("pokedex-test"))
	_, err := c.PokemonByID(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, "pokedex-test", got.Load())
}

func TestTypeChart(t *testing.T) {
	api := newFakeAPI()
	c, _ := newTestClient(t, api)
	ctx := context.Background()

	chart, err := c.TypeChart(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"electric", "flying", "water"}, chart.Names())
	assert.Equal(t, []string{"water", "flying"}, chart["electric"].DoubleDamageTo)
	assert.Equal(t, []string{"ground"}, chart["electric"].NoDamageTo)
	assert.True(t, chart.SuperEffective("electric", "water"))
	assert.Equal(t, 4.0, chart.Multiplier("electric", []string{"water", "flying"}))

	again, err := c.TypeChart(ctx)
	require.NoError(t, err)
	assert.Equal(t, chart, again)
	assert.Equal(t, 1, api.count("/type?limit=100"))
	assert.Equal(t, 1, api.count("/type/electric"))
}

func TestTypeChartFailure(t *testing.T) {
	api := newFakeAPI()
	api.status["/type/water"] = http.StatusBadGateway
	c, _ := newTestClient(t, api)

	_, err := c.TypeChart(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestPokemonList(t *testing.T) {
	api := newFakeAPI()
	c, _ := newTestClient(t, api)

	list, err := c.PokemonList(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 1302, list.Count)
	require.Len(t, list.Items, 2)
	assert.Equal(t, pokemon.ListItem{ID: 2, Name: "ivysaur", URL: "https://pokeapi.co/api/v2/pokemon/2/"}, list.Items[1])
	assert.Equal(t, 1, api.count("/pokemon?limit=2&offset=0"))

	n, err := c.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1302, n)
}

func TestSpeciesAndEvolution(t *testing.T) {
	c, srv := newTestClient(t, newFakeAPI())
	ctx := context.Background()

	sp, err := c.Species(ctx, "25")
	require.NoError(t, err)
	assert.Equal(t, "When several of these POKéMON gather.", sp.FlavorText())
	assert.Equal(t, "Mouse Pokémon", sp.Genus())
	assert.Equal(t, "forest", sp.Habitat)
	assert.Equal(t, 50, sp.BaseHappiness)
	assert.Equal(t, []string{"ground", "fairy"}, sp.EggGroups)
	assert.Equal(t, srv.URL+"/evolution-chain/10/", sp.EvolutionChainURL)

	chain, err := c.EvolutionChainURL(ctx, sp.EvolutionChainURL)
	require.NoError(t, err)
	assert.Equal(t, 10, chain.ID)

	stages := chain.Stages()
	require.Len(t, stages, 3)
	assert.Equal(t, "pichu", stages[0][0].Species)
	assert.Equal(t, 172, stages[0][0].SpeciesID)
	assert.Equal(t, []string{"Happiness 160"}, stages[1][0].Requirements)
	assert.Equal(t, []string{"Use thunder stone"}, stages[2][0].Requirements)

	byID, err := c.EvolutionChain(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, chain, byID)

	_, err = c.EvolutionChainURL(ctx, "")
	assert.Error(t, err)
}

func TestMoves(t *testing.T) {
	c, _ := newTestClient(t, newFakeAPI())
	ctx := context.Background()

	rec, err := c.PokemonByID(ctx, 25)
	require.NoError(t, err)

	moves, err := c.Moves(ctx, rec)
	require.NoError(t, err)
	require.Len(t, moves, 2)

	assert.Equal(t, "thunder-shock", moves[0].Name, "leveled moves first")
	assert.Equal(t, "level-up", moves[0].LearnMethod)
	assert.Equal(t, 1, moves[0].LevelLearnedAt)

	assert.Equal(t, "thunderbolt", moves[1].Name)
	assert.Equal(t, "machine", moves[1].LearnMethod)
	assert.Equal(t, "May paralyze.", moves[1].Effect)
	require.NotNil(t, moves[1].Power)
	assert.Equal(t, 90, *moves[1].Power)
	assert.Equal(t, 15, moves[1].PP)
}

func TestSprite(t *testing.T) {
	api := newFakeAPI()
	c, srv := newTestClient(t, api)
	ctx := context.Background()

	url := srv.URL + "/sprites/25.png"
	for i := 0; i < 2; i++ {
		body, err := c.Sprite(ctx, url)
		require.NoError(t, err)
		assert.Equal(t, "\x89PNG fake", string(body))
	}
	assert.Equal(t, 1, api.count("/sprites/25.png"))

	_, err := c.Sprite(ctx, "")
	assert.ErrorIs(t, err, ErrNoSprite)
}

func TestFeaturedPreservesOrder(t *testing.T) {
	api := newFakeAPI()
	for _, id := range FeaturedIDs {
		api.routes[fmt.Sprintf("/pokemon/%d", id)] = fmt.Sprintf(`{"id": %d, "name": "p%d"}`, id, id)
	}
	c, _ := newTestClient(t, api)

	recs, err := c.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, len(FeaturedIDs))
	for i, id := range FeaturedIDs {
		assert.Equal(t, id, recs[i].ID)
	}
}

func TestIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"https://pokeapi.co/api/v2/pokemon/25/", 25},
		{"https://pokeapi.co/api/v2/pokemon/1302", 1302},
		{"https://pokeapi.co/api/v2/pokemon/", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IDFromURL(tt.url), tt.url)
	}
}

func TestCanceledContext(t *testing.T) {
	api := newFakeAPI()
	c, _ := newTestClient(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.PokemonByID(ctx, 25)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
