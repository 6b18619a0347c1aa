package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/pokedex/internal/catalog"
	"github.com/f3rmion/pokedex/internal/compare"
	"github.com/f3rmion/pokedex/internal/pokeapi"
	"github.com/f3rmion/pokedex/internal/pokemon"
	"github.com/f3rmion/pokedex/internal/sprite"
)

func record(id int, name string, types []string, stats ...int) pokemon.Record {
	r := pokemon.Record{ID: id, Name: name, Types: types, Sprite: "https://img.test/" + name + ".png"}
	for i, base := range stats {
		r.Stats = append(r.Stats, pokemon.Stat{Name: pokemon.StatNames[i], Base: base})
	}
	return r
}

var (
	bulbasaur = record(1, "bulbasaur", []string{"grass", "poison"}, 45, 49, 49, 65, 65, 45)
	pikachu   = record(25, "pikachu", []string{"electric"}, 35, 55, 40, 50, 50, 90)
	gyarados  = record(130, "gyarados", []string{"water", "flying"}, 95, 125, 79, 60, 100, 81)
	snorlax   = record(143, "snorlax", []string{"normal"}, 160, 110, 65, 65, 110, 30)
	mewtwo    = record(150, "mewtwo", []string{"psychic"}, 106, 110, 90, 154, 90, 130)
)

type fakeProvider struct {
	records []pokemon.Record
	chart   pokemon.TypeChart

	chartFailures int
	byID          int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		records: []pokemon.Record{bulbasaur, pikachu, gyarados, snorlax, mewtwo},
		chart:   pokemon.TypeChart{"electric": {DoubleDamageTo: []string{"water", "flying"}}},
	}
}

func (p *fakeProvider) Pokemon(_ context.Context, ref string) (pokemon.Record, error) {
	id, _ := strconv.Atoi(ref)
	for _, r := range p.records {
		if r.Name == strings.ToLower(ref) || r.ID == id {
			return r, nil
		}
	}
	return pokemon.Record{}, fmt.Errorf("%s: %w", ref, pokeapi.ErrNotFound)
}

func (p *fakeProvider) PokemonByID(ctx context.Context, id int) (pokemon.Record, error) {
	p.byID++
	return p.Pokemon(ctx, strconv.Itoa(id))
}

func (p *fakeProvider) TypeChart(context.Context) (pokemon.TypeChart, error) {
	if p.chartFailures > 0 {
		p.chartFailures--
		return nil, errors.New("type chart: unexpected status 503")
	}
	return p.chart, nil
}

func (p *fakeProvider) SpeciesOf(_ context.Context, rec pokemon.Record) (pokemon.Species, error) {
	if rec.Name != "pikachu" {
		return pokemon.Species{}, pokeapi.ErrNotFound
	}
	return pokemon.Species{
		Name:              "pikachu",
		Genera:            []pokemon.LocalizedText{{Text: "Mouse Pokémon", Language: "en"}},
		EvolutionChainURL: "https://pokeapi.co/api/v2/evolution-chain/10/",
	}, nil
}

func (p *fakeProvider) EvolutionChainURL(context.Context, string) (pokemon.EvolutionChain, error) {
	return pokemon.EvolutionChain{ID: 10, Chain: pokemon.EvolutionNode{
		Species:   "pichu",
		EvolvesTo: []pokemon.EvolutionNode{{Species: "pikachu", EvolvesTo: []pokemon.EvolutionNode{{Species: "raichu"}}}},
	}}, nil
}

func (p *fakeProvider) Sprite(context.Context, string) ([]byte, error) {
	return nil, pokeapi.ErrNoSprite
}

type fakeClipboard struct {
	mu   sync.Mutex
	text string
	err  error
}

func (c *fakeClipboard) Write(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return c.err
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newCompare(t *testing.T) (CompareModel, *compare.Selection, *fakeClipboard) {
	t.Helper()
	p := newFakeProvider()
	sel := compare.NewSelection(p)
	clip := &fakeClipboard{}
	return NewCompareModel(p, sel, clip, nil), sel, clip
}

func submit(t *testing.T, m CompareModel, ref string) CompareModel {
	t.Helper()
	if !m.InputFocused() {
		m, _ = m.Update(key("/"))
	}
	m.input.SetValue(ref)
	m, cmd := m.Update(key("enter"))
	if cmd == nil {
		return m
	}
	m, _ = m.Update(cmd())
	return m
}

func TestCompareAdd(t *testing.T) {
	m, sel, _ := newCompare(t)

	m = submit(t, m, "pikachu")
	require.Equal(t, 1, sel.Len())
	assert.Contains(t, m.View(), "Pikachu added")
	assert.Empty(t, m.input.Value())

	m = submit(t, m, "130")
	assert.Equal(t, []string{"pikachu", "gyarados"}, selectedNames(sel))
	assert.Contains(t, m.View(), "Winner")
}

func TestCompareAddErrors(t *testing.T) {
	m, sel, _ := newCompare(t)

	m = submit(t, m, "missingno")
	assert.Equal(t, 0, sel.Len())
	assert.Contains(t, m.View(), "Error:")

	m = submit(t, m, "pikachu")
	m = submit(t, m, "PIKACHU")
	assert.Equal(t, 1, sel.Len())
	assert.Contains(t, m.View(), "already selected")
}

func TestCompareFull(t *testing.T) {
	m, sel, _ := newCompare(t)
	for _, ref := range []string{"1", "25", "130", "143"} {
		m = submit(t, m, ref)
	}
	require.True(t, sel.Full())

	m.input.SetValue("mewtwo")
	m, cmd := m.Update(key("enter"))
	assert.Nil(t, cmd)
	assert.ErrorIs(t, m.err, errSelectionFull)
	assert.False(t, sel.Contains(150))
}

func TestCompareRemoveAndClear(t *testing.T) {
	m, sel, _ := newCompare(t)
	for _, ref := range []string{"pikachu", "gyarados", "snorlax"} {
		m = submit(t, m, ref)
	}

	m, _ = m.Update(key("esc"))
	require.False(t, m.InputFocused())

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("d"))
	assert.Equal(t, []string{"pikachu", "snorlax"}, selectedNames(sel))

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("backspace"))
	assert.Equal(t, []string{"pikachu"}, selectedNames(sel))
	assert.Equal(t, 0, m.cursor)

	m, _ = m.Update(key("c"))
	assert.Equal(t, 0, sel.Len())
	assert.Contains(t, m.View(), "Selection cleared")
}

func TestCompareTypeChart(t *testing.T) {
	m, sel, _ := newCompare(t)

	m, _ = m.Update(m.Init()())
	m = submit(t, m, "pikachu")
	m = submit(t, m, "gyarados")

	a := sel.Analysis()
	require.NotNil(t, a)
	assert.Equal(t, []string{
		"Super effective against gyarados (water)",
		"Super effective against gyarados (flying)",
	}, a.TypeAdvantages["pikachu"])
}

func TestCompareRetriesTypeChart(t *testing.T) {
	p := newFakeProvider()
	p.chartFailures = 1
	sel := compare.NewSelection(p)
	m := NewCompareModel(p, sel, &fakeClipboard{}, nil)

	m, cmd := m.Update(m.Init()())
	require.NotNil(t, cmd, "a failed load schedules a retry")
	assert.False(t, sel.HasTypeChart())
	assert.Contains(t, m.View(), "503")

	m, cmd = m.Update(chartRetryMsg{})
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	assert.True(t, sel.HasTypeChart())
	assert.NotContains(t, m.View(), "503")

	_, cmd = m.Update(chartRetryMsg{})
	assert.Nil(t, cmd, "no retry once the chart is loaded")
}

func TestCompareAddFetchesOnce(t *testing.T) {
	m, sel, _ := newCompare(t)
	p := m.provider.(*fakeProvider)

	submit(t, m, "pikachu")
	assert.Equal(t, []string{"pikachu"}, selectedNames(sel))
	assert.Zero(t, p.byID, "the record resolved by name is added as is")
}

func TestCompareCopy(t *testing.T) {
	m, _, clip := newCompare(t)

	m = submit(t, m, "pikachu")
	m, _ = m.Update(key("esc"))
	m, cmd := m.Update(key("y"))
	assert.Nil(t, cmd, "nothing to copy with one Pokémon")

	m = submit(t, m, "snorlax")
	m, _ = m.Update(key("esc"))
	m, cmd = m.Update(key("y"))
	require.NotNil(t, cmd)
	m, tick := m.Update(cmd())
	assert.NotNil(t, tick)
	assert.True(t, m.copied)
	assert.Contains(t, clip.text, "Comparison: pikachu vs snorlax")
	assert.Contains(t, m.View(), "Copied!")

	m, _ = m.Update(clearCopiedMsg{})
	assert.False(t, m.copied)

	clip.err = errors.New("xclip: exit status 1")
	m, cmd = m.Update(key("y"))
	m, _ = m.Update(cmd())
	assert.False(t, m.copied)
	assert.Contains(t, m.View(), "xclip")
}

func TestCompareRequest(t *testing.T) {
	m, sel, _ := newCompare(t)
	m, cmd := m.Update(CompareRequestMsg{ID: 143})
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	assert.True(t, sel.Contains(143))
	assert.Contains(t, m.View(), "Snorlax")
}

func selectedNames(sel *compare.Selection) []string {
	var out []string
	for _, r := range sel.Records() {
		out = append(out, r.Name)
	}
	return out
}

func TestLookup(t *testing.T) {
	p := newFakeProvider()
	m := NewLookupModel(p, sprite.NewCache(p), nil)

	m.input.SetValue("pikachu")
	m, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.False(t, m.InputFocused())

	m, _ = m.Update(cmd())
	require.NotNil(t, m.result)
	assert.NoError(t, m.err)
	assert.Empty(t, m.result.sprite)

	view := m.View()
	assert.Contains(t, view, "Pikachu")
	assert.Contains(t, view, "Mouse Pokémon")
	assert.Contains(t, view, "Raichu")

	_, cmd = m.Update(key("a"))
	require.NotNil(t, cmd)
	assert.Equal(t, CompareRequestMsg{ID: 25}, cmd())
}

func TestLookupWithoutSpecies(t *testing.T) {
	m := NewLookupModel(newFakeProvider(), nil, nil)
	m, cmd := m.Update(LookupRequestMsg{Ref: "snorlax"})
	m, _ = m.Update(cmd())

	require.NotNil(t, m.result)
	assert.Nil(t, m.result.species)
	assert.Contains(t, m.View(), "Snorlax")
}

func TestLookupErrorAndStaleResult(t *testing.T) {
	m := NewLookupModel(newFakeProvider(), nil, nil)

	m, first := m.Update(LookupRequestMsg{Ref: "pikachu"})
	m, second := m.Update(LookupRequestMsg{Ref: "missingno"})

	m, _ = m.Update(first())
	assert.Nil(t, m.result, "superseded lookup must be dropped")

	m, _ = m.Update(second())
	assert.ErrorIs(t, m.err, pokeapi.ErrNotFound)
	assert.Contains(t, m.View(), "Error:")
}

type fakeCatalog struct {
	records []pokemon.Record
	queries []catalog.Filter
}

func (c *fakeCatalog) Query(_ context.Context, f catalog.Filter, page, size int) (catalog.Page[pokemon.Record], error) {
	c.queries = append(c.queries, f)
	var out []pokemon.Record
	for _, r := range c.records {
		if f.MatchesName(r.ID, r.Name) {
			out = append(out, r)
		}
	}
	catalog.Sort(out, f.SortBy, f.Order)
	return catalog.Paginate(out, page, size), nil
}

func TestBrowse(t *testing.T) {
	c := &fakeCatalog{records: []pokemon.Record{bulbasaur, pikachu, gyarados}}
	m := NewBrowseModel(c, 2, nil)

	m, _ = m.Update(m.Init()())
	require.False(t, m.loading)
	assert.Equal(t, []pokemon.Record{bulbasaur, pikachu}, m.page.Items)
	assert.Contains(t, m.View(), "Page 1/2")

	m, cmd := m.Update(key("n"))
	m, _ = m.Update(cmd())
	assert.Equal(t, 2, m.pageNum)
	assert.Equal(t, []pokemon.Record{gyarados}, m.page.Items)

	m, cmd = m.Update(key("n"))
	assert.Nil(t, cmd, "no page after the last")

	m, cmd = m.Update(key("p"))
	m, _ = m.Update(cmd())
	assert.Equal(t, 1, m.pageNum)

	m, _ = m.Update(key("j"))
	_, cmd = m.Update(key("enter"))
	assert.Equal(t, LookupRequestMsg{Ref: "pikachu"}, cmd())
}

func TestBrowseSearchAndSort(t *testing.T) {
	c := &fakeCatalog{records: []pokemon.Record{bulbasaur, pikachu, gyarados}}
	m := NewBrowseModel(c, 20, nil)
	m, _ = m.Update(m.Init()())

	m, _ = m.Update(key("/"))
	require.True(t, m.InputFocused())
	m.search.SetValue("pika")
	m, cmd := m.Update(key("enter"))
	m, _ = m.Update(cmd())
	assert.False(t, m.InputFocused())
	assert.Equal(t, []pokemon.Record{pikachu}, m.page.Items)
	assert.Contains(t, m.View(), `search: "pika"`)

	m.filter.Search = ""
	m, cmd = m.Update(key("s"))
	m, _ = m.Update(cmd())
	assert.Equal(t, catalog.SortByName, m.filter.SortBy)

	m, cmd = m.Update(key("o"))
	m, _ = m.Update(cmd())
	assert.Equal(t, catalog.OrderDesc, m.filter.Order)
	assert.Equal(t, []string{"pikachu", "gyarados", "bulbasaur"}, []string{
		m.page.Items[0].Name, m.page.Items[1].Name, m.page.Items[2].Name,
	})
}

func TestBrowseDropsStalePages(t *testing.T) {
	c := &fakeCatalog{records: []pokemon.Record{bulbasaur, pikachu, gyarados}}
	m := NewBrowseModel(c, 1, nil)
	first := m.Init()
	m, _ = m.Update(first())

	m, older := m.Update(key("n"))
	m, newer := m.Update(key("o"))
	m, _ = m.Update(newer())
	m, _ = m.Update(older())

	assert.Equal(t, catalog.OrderDesc, m.filter.Order)
	assert.Equal(t, []pokemon.Record{gyarados}, m.page.Items)
}
