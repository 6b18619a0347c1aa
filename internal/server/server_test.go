package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/pokedex/internal/catalog"
	"github.com/f3rmion/pokedex/internal/pokeapi"
	"github.com/f3rmion/pokedex/internal/pokemon"
)

func record(id int, name string, types []string, stats ...int) pokemon.Record {
	r := pokemon.Record{ID: id, Name: name, Types: types}
	for i, base := range stats {
		r.Stats = append(r.Stats, pokemon.Stat{Name: pokemon.StatNames[i], Base: base})
	}
	return r
}

// fakeProvider serves a fixed set of Pokémon. Id 999 fails upstream.
type fakeProvider struct {
	records []pokemon.Record
	chart   pokemon.TypeChart

	// chartFailures is how many TypeChart calls fail before one succeeds.
	chartFailures atomic.Int32
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		records: []pokemon.Record{
			record(1, "bulbasaur", []string{"grass", "poison"}, 45, 49, 49, 65, 65, 45),
			record(25, "pikachu", []string{"electric"}, 35, 55, 40, 50, 50, 90),
			record(130, "gyarados", []string{"water", "flying"}, 95, 125, 79, 60, 100, 81),
			record(143, "snorlax", []string{"normal"}, 160, 110, 65, 65, 110, 30),
			record(150, "mewtwo", []string{"psychic"}, 106, 110, 90, 154, 90, 130),
		},
		chart: pokemon.TypeChart{
			"electric": {DoubleDamageTo: []string{"water", "flying"}, NoDamageTo: []string{"ground"}},
		},
	}
}

func (p *fakeProvider) Pokemon(_ context.Context, ref string) (pokemon.Record, error) {
	if ref == "999" {
		return pokemon.Record{}, fmt.Errorf("fetching pokemon 999: %w", &pokeapi.APIError{Status: 500, Path: "/pokemon/999"})
	}
	id, _ := strconv.Atoi(ref)
	for _, r := range p.records {
		if r.Name == strings.ToLower(ref) || r.ID == id {
			return r, nil
		}
	}
	return pokemon.Record{}, fmt.Errorf("fetching pokemon %s: %w", ref, pokeapi.ErrNotFound)
}

func (p *fakeProvider) PokemonByID(ctx context.Context, id int) (pokemon.Record, error) {
	if id <= 0 {
		return pokemon.Record{}, fmt.Errorf("fetching pokemon: %w %d", pokeapi.ErrInvalidRef, id)
	}
	return p.Pokemon(ctx, strconv.Itoa(id))
}

func (p *fakeProvider) PokemonList(_ context.Context, limit, offset int) (pokeapi.List, error) {
	list := pokeapi.List{Count: len(p.records)}
	for i := offset; i < len(p.records) && i < offset+limit; i++ {
		r := p.records[i]
		list.Items = append(list.Items, pokemon.ListItem{ID: r.ID, Name: r.Name})
	}
	return list, nil
}

func (p *fakeProvider) Type(_ context.Context, name string) (pokemon.TypeRelations, error) {
	rel, ok := p.chart[name]
	if !ok {
		return pokemon.TypeRelations{}, fmt.Errorf("fetching type %s: %w", name, pokeapi.ErrNotFound)
	}
	return rel, nil
}

func (p *fakeProvider) TypeChart(context.Context) (pokemon.TypeChart, error) {
	if p.chartFailures.Add(-1) >= 0 {
		return nil, &pokeapi.APIError{Status: 503, Path: "/type"}
	}
	return p.chart, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerFor(t, newFakeProvider())
}

func newTestServerFor(t *testing.T, p *fakeProvider) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(p, catalog.NewLoader(p), WithPageSize(2)))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var r io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			r = strings.NewReader(s)
		} else {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			r = bytes.NewReader(b)
		}
	}

	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]any
	status := do(t, http.MethodGet, srv.URL+"/api/v1/health", nil, &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestGetPokemon(t *testing.T) {
	srv := newTestServer(t)

	var rec pokemon.Record
	status := do(t, http.MethodGet, srv.URL+"/api/v1/pokemon/pikachu", nil, &rec)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 25, rec.ID)
	assert.Equal(t, 320, rec.Total())

	status = do(t, http.MethodGet, srv.URL+"/api/v1/pokemon/130", nil, &rec)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "gyarados", rec.Name)
}

func TestErrorStatuses(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"not found", "/api/v1/pokemon/missingno", http.StatusNotFound},
		{"upstream failure", "/api/v1/pokemon/999", http.StatusBadGateway},
		{"unknown type", "/api/v1/types/shadow", http.StatusNotFound},
		{"bad sort", "/api/v1/pokemon?sort=color", http.StatusBadRequest},
		{"bad number", "/api/v1/pokemon?min=lots", http.StatusBadRequest},
		{"limit too large", "/api/v1/pokemon?limit=1000", http.StatusBadRequest},
		{"zero limit", "/api/v1/pokemon?limit=0", http.StatusBadRequest},
		{"bad bounds", "/api/v1/pokemon?min=500&max=100", http.StatusBadRequest},
		{"bad expression", "/api/v1/pokemon?where=speed%20%2B", http.StatusBadRequest},
		{"non-bool expression", "/api/v1/pokemon?where=speed", http.StatusBadRequest},
		{"unknown route", "/api/v1/berries", http.StatusNotFound},
		{"bad session id", "/api/v1/sessions/42", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)

			if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
				var body errorBody
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.NotEmpty(t, body.Error)
			}
		})
	}
}

func TestGetType(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		Name      string                `json:"name"`
		Relations pokemon.TypeRelations `json:"relations"`
	}
	status := do(t, http.MethodGet, srv.URL+"/api/v1/types/electric", nil, &body)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "electric", body.Name)
	assert.Equal(t, []string{"water", "flying"}, body.Relations.DoubleDamageTo)
}

func TestListPokemon(t *testing.T) {
	srv := newTestServer(t)

	var page catalog.Page[pokemon.Record]
	status := do(t, http.MethodGet, srv.URL+"/api/v1/pokemon", nil, &page)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, []string{"bulbasaur", "pikachu"}, names(page.Items))

	status = do(t, http.MethodGet, srv.URL+"/api/v1/pokemon?sort=stats&order=desc&limit=3", nil, &page)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"mewtwo", "gyarados", "snorlax"}, names(page.Items))

	status = do(t, http.MethodGet, srv.URL+"/api/v1/pokemon?type=water,electric", nil, &page)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"pikachu", "gyarados"}, names(page.Items))

	status = do(t, http.MethodGet, srv.URL+"/api/v1/pokemon?where=speed%20%3E%20100", nil, &page)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"mewtwo"}, names(page.Items))

	status = do(t, http.MethodGet, srv.URL+"/api/v1/pokemon?page=922337203685477580", nil, &page)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, page.Items)
	assert.Equal(t, 5, page.Total)

	status = do(t, http.MethodGet, srv.URL+"/api/v1/pokemon?search=char", nil, &page)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Items)
}

func names(records []pokemon.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

type comparisonBody struct {
	ID       string           `json:"id"`
	Pokemon  []pokemon.Record `json:"pokemon"`
	Analysis *struct {
		Winner         string              `json:"winner"`
		TypeAdvantages map[string][]string `json:"typeAdvantages"`
	} `json:"analysis"`
}

func TestCompare(t *testing.T) {
	srv := newTestServer(t)

	var body comparisonBody
	status := do(t, http.MethodPost, srv.URL+"/api/v1/compare", map[string]any{"ids": []int{25, 130, 25}}, &body)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body.ID)
	assert.Equal(t, []string{"pikachu", "gyarados"}, names(body.Pokemon))
	require.NotNil(t, body.Analysis)
	assert.Equal(t, "gyarados", body.Analysis.Winner)
	assert.Equal(t, []string{
		"Super effective against gyarados (water)",
		"Super effective against gyarados (flying)",
	}, body.Analysis.TypeAdvantages["pikachu"])

	status = do(t, http.MethodPost, srv.URL+"/api/v1/compare", map[string]any{"ids": []int{25}}, &body)
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, body.Analysis)
}

func TestCompareRejects(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"malformed", `{"ids":`, http.StatusBadRequest},
		{"empty", map[string]any{"ids": []int{}}, http.StatusBadRequest},
		{"too many", map[string]any{"ids": []int{1, 25, 130, 143, 150}}, http.StatusBadRequest},
		{"invalid id", map[string]any{"ids": []int{25, -1}}, http.StatusBadRequest},
		{"unknown id", map[string]any{"ids": []int{25, 10000}}, http.StatusNotFound},
		{"upstream", map[string]any{"ids": []int{999}}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorBody
			status := do(t, http.MethodPost, srv.URL+"/api/v1/compare", tt.body, &body)
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1/sessions"

	var sess comparisonBody
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, base, nil, &sess))
	require.NotEmpty(t, sess.ID)
	assert.Empty(t, sess.Pokemon)
	assert.Nil(t, sess.Analysis)

	url := base + "/" + sess.ID
	for _, id := range []int{25, 130, 143, 150, 1} {
		require.Equal(t, http.StatusOK, do(t, http.MethodPut, fmt.Sprintf("%s/pokemon/%d", url, id), nil, &sess))
	}
	assert.Equal(t, []string{"pikachu", "gyarados", "snorlax", "mewtwo"}, names(sess.Pokemon), "fifth add is ignored")
	require.NotNil(t, sess.Analysis)
	assert.Equal(t, "mewtwo", sess.Analysis.Winner)

	require.Equal(t, http.StatusOK, do(t, http.MethodDelete, url+"/pokemon/150", nil, &sess))
	assert.Equal(t, "gyarados", sess.Analysis.Winner)

	require.Equal(t, http.StatusOK, do(t, http.MethodGet, url, nil, &sess))
	assert.Len(t, sess.Pokemon, 3)

	require.Equal(t, http.StatusOK, do(t, http.MethodDelete, url+"/pokemon", nil, &sess))
	assert.Empty(t, sess.Pokemon)
	assert.Nil(t, sess.Analysis)

	var health map[string]any
	do(t, http.MethodGet, srv.URL+"/api/v1/health", nil, &health)
	assert.EqualValues(t, 1, health["sessions"])

	assert.Equal(t, http.StatusNoContent, do(t, http.MethodDelete, url, nil, nil))
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, url, nil, &errorBody{}))
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodDelete, url, nil, &errorBody{}))
}

func TestSessionRetriesTypeChart(t *testing.T) {
	p := newFakeProvider()
	p.chartFailures.Store(1)
	srv := newTestServerFor(t, p)
	base := srv.URL + "/api/v1/sessions"

	var sess comparisonBody
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, base, nil, &sess))
	url := base + "/" + sess.ID

	for _, id := range []int{25, 130} {
		require.Equal(t, http.StatusOK, do(t, http.MethodPut, fmt.Sprintf("%s/pokemon/%d", url, id), nil, &sess))
	}
	require.NotNil(t, sess.Analysis)
	assert.Equal(t, []string{
		"Super effective against gyarados (water)",
		"Super effective against gyarados (flying)",
	}, sess.Analysis.TypeAdvantages["pikachu"])
}

func TestSessionBadInput(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1/sessions"

	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodGet, base+"/not-a-uuid", nil, &errorBody{}))

	var sess comparisonBody
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, base, nil, &sess))
	url := base + "/" + sess.ID

	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPut, url+"/pokemon/pikachu", nil, &errorBody{}))
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodPut, url+"/pokemon/0", nil, &errorBody{}))
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodPut, url+"/pokemon/10000", nil, &errorBody{}))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(fmt.Errorf("x: %w", pokeapi.ErrNotFound)))
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("x: %w", catalog.ErrInvalidExpression)))
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(fmt.Errorf("x: %w", context.DeadlineExceeded)))
	assert.Equal(t, http.StatusBadGateway, statusFor(&pokeapi.APIError{Status: 503}))
}
