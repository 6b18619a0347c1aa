// Package catalog lists, filters, sorts and pages through the Pokémon index.
package catalog

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/f3rmion/pokedex/internal/pokemon"
)

// Sort keys.
const (
	SortByID     = "id"
	SortByName   = "name"
	SortByHeight = "height"
	SortByWeight = "weight"
	SortByStats  = "stats"
)

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

const (
	DefaultMinStats = 0
	DefaultMaxStats = 1000
)

// SortKeys lists the accepted values of Filter.SortBy.
var SortKeys = []string{SortByID, SortByName, SortByHeight, SortByWeight, SortByStats}

// Filter selects and orders records.
type Filter struct {
	Search   string   `json:"search,omitempty"`
	Types    []string `json:"types,omitempty"`
	MinStats int      `json:"min_stats"`
	MaxStats int      `json:"max_stats"`
	SortBy   string   `json:"sort_by"`
	Order    string   `json:"order"`
	Expr     string   `json:"expr,omitempty"`
}

// DefaultFilter matches everything, sorted by id ascending.
func DefaultFilter() Filter {
	return Filter{
		MinStats: DefaultMinStats,
		MaxStats: DefaultMaxStats,
		SortBy:   SortByID,
		Order:    OrderAsc,
	}
}

// Validate checks the sort key, order and stat bounds.
func (f Filter) Validate() error {
	if f.SortBy != "" && !slices.Contains(SortKeys, f.SortBy) {
		return fmt.Errorf("unknown sort key %q (want one of %s)", f.SortBy, strings.Join(SortKeys, ", "))
	}
	if f.Order != "" && f.Order != OrderAsc && f.Order != OrderDesc {
		return fmt.Errorf("unknown order %q (want asc or desc)", f.Order)
	}
	if f.MinStats > f.MaxStats {
		return fmt.Errorf("min stats %d exceeds max stats %d", f.MinStats, f.MaxStats)
	}
	return nil
}

// NeedsDetails reports whether the filter reads anything beyond a
// record's name and id.
func (f Filter) NeedsDetails() bool {
	if len(f.Types) > 0 || f.Expr != "" {
		return true
	}
	if f.MinStats > DefaultMinStats || f.MaxStats < DefaultMaxStats {
		return true
	}
	return f.SortBy != "" && f.SortBy != SortByID && f.SortBy != SortByName
}

// MatchesName applies the search term to a name and id.
func (f Filter) MatchesName(id int, name string) bool {
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	return strings.Contains(strings.ToLower(name), term) ||
		strings.Contains(strconv.Itoa(id), term)
}

// Matches applies every criterion except Expr.
func (f Filter) Matches(rec pokemon.Record) bool {
	if !f.MatchesName(rec.ID, rec.Name) {
		return false
	}
	if len(f.Types) > 0 && !slices.ContainsFunc(f.Types, rec.HasType) {
		return false
	}
	total := rec.Total()
	return total >= f.MinStats && total <= f.MaxStats
}

// Apply filters and sorts records. The input is not modified.
func (f Filter) Apply(records []pokemon.Record) ([]pokemon.Record, error) {
	var expr *Expression
	if f.Expr != "" {
		var err error
		if expr, err = Compile(f.Expr); err != nil {
			return nil, err
		}
	}

	out := make([]pokemon.Record, 0, len(records))
	for _, rec := range records {
		if !f.Matches(rec) {
			continue
		}
		if expr != nil {
			ok, err := expr.Match(rec)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, rec)
	}

	Sort(out, f.SortBy, f.Order)
	return out, nil
}

// Sort orders records in place by key. Unknown keys sort by id; equal
// keys keep their input order.
func Sort(records []pokemon.Record, key, order string) {
	less := func(a, b pokemon.Record) bool { return a.ID < b.ID }
	switch key {
	case SortByName:
		less = func(a, b pokemon.Record) bool { return a.Name < b.Name }
	case SortByHeight:
		less = func(a, b pokemon.Record) bool { return a.Height < b.Height }
	case SortByWeight:
		less = func(a, b pokemon.Record) bool { return a.Weight < b.Weight }
	case SortByStats:
		less = func(a, b pokemon.Record) bool { return a.Total() < b.Total() }
	}

	sortStable(records, less, order == OrderDesc)
}

func sortStable[T any](s []T, less func(a, b T) bool, desc bool) {
	if desc {
		sort.SliceStable(s, func(i, j int) bool { return less(s[j], s[i]) })
		return
	}
	sort.SliceStable(s, func(i, j int) bool { return less(s[i], s[j]) })
}
