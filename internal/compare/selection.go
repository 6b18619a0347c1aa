package compare

import (
	"context"
	"fmt"
	"sync"

	"github.com/f3rmion/pokedex/internal/pokemon"
	"go.uber.org/zap"
)

// MaxSelection is the capacity of a selection.
const MaxSelection = 4

// Fetcher loads a full Pokémon record by id.
type Fetcher interface {
	PokemonByID(ctx context.Context, id int) (pokemon.Record, error)
}

// Selection is an ordered set of up to four Pokémon chosen for comparison.
// Adding beyond capacity or adding a duplicate id is a silent no-op.
type Selection struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu       sync.Mutex
	records  []pokemon.Record
	chart    pokemon.TypeChart
	analysis *Analysis
	stale    bool
}

// Option configures a Selection.
type Option func(*Selection)

// WithTypeChart sets the chart used for type advantages.
func WithTypeChart(chart pokemon.TypeChart) Option {
	return func(s *Selection) { s.chart = chart }
}

// WithLogger sets the logger used to report skipped adds.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Selection) { s.logger = logger }
}

// NewSelection creates an empty selection backed by fetcher.
func NewSelection(fetcher Fetcher, opts ...Option) *Selection {
	s := &Selection{
		fetcher: fetcher,
		logger:  zap.NewNop(),
		stale:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add fetches the Pokémon with the given id and appends it. It does nothing
// when the selection is full or already holds the id. A fetch failure is
// returned and leaves the selection unchanged.
//
// The fetch runs without holding the lock, so concurrent adds append in the
// order their fetches complete.
func (s *Selection) Add(ctx context.Context, id int) error {
	s.mu.Lock()
	skip := s.skipLocked(id)
	s.mu.Unlock()
	if skip {
		return nil
	}

	record, err := s.fetcher.PokemonByID(ctx, id)
	if err != nil {
		return fmt.Errorf("adding pokemon %d: %w", id, err)
	}

	s.AddRecord(record)
	return nil
}

// AddRecord appends an already fetched record under the same rules as Add
// and reports whether it was appended.
func (s *Selection) AddRecord(record pokemon.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Another add may have filled the set or inserted the id meanwhile.
	if s.skipLocked(record.ID) {
		return false
	}
	s.records = append(s.records, record)
	s.stale = true

	s.logger.Debug("pokemon added to selection",
		zap.Int("id", record.ID),
		zap.String("name", record.Name),
		zap.Int("size", len(s.records)))

	return true
}

func (s *Selection) skipLocked(id int) bool {
	if len(s.records) >= MaxSelection {
		s.logger.Debug("selection full, ignoring add", zap.Int("id", id))
		return true
	}
	if s.containsLocked(id) {
		s.logger.Debug("pokemon already selected, ignoring add", zap.Int("id", id))
		return true
	}
	return false
}

// Remove drops the Pokémon with the given id, if present.
func (s *Selection) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i:i], s.records[i+1:]...)
			s.stale = true
			return
		}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.stale = true
}

// SetTypeChart replaces the chart used for type advantages.
func (s *Selection) SetTypeChart(chart pokemon.TypeChart) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chart = chart
	s.stale = true
}

// HasTypeChart reports whether a non-empty chart is set.
func (s *Selection) HasTypeChart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chart) > 0
}

// Analysis returns the comparison of the current selection, recomputing it
// if the selection or chart changed since the last call. It returns nil
// when fewer than two Pokémon are selected.
func (s *Selection) Analysis() *Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stale {
		s.analysis = Analyze(s.records, s.chart)
		s.stale = false
	}
	return s.analysis
}

// Records returns a copy of the selected records in insertion order.
func (s *Selection) Records() []pokemon.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]pokemon.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of selected Pokémon.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Full reports whether the selection is at capacity.
func (s *Selection) Full() bool {
	return s.Len() >= MaxSelection
}

// Contains reports whether the id is selected.
func (s *Selection) Contains(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.containsLocked(id)
}

func (s *Selection) containsLocked(id int) bool {
	for _, r := range s.records {
		if r.ID == id {
			return true
		}
	}
	return false
}
