package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/f3rmion/pokedex/internal/compare"
)

// Session is a comparison held by the server between requests.
type Session struct {
	ID        uuid.UUID
	Selection *compare.Selection
	CreatedAt time.Time
}

// Sessions stores comparison sessions by id.
type Sessions struct {
	provider Provider
	logger   *zap.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewSessions creates an empty store whose selections fetch through p.
func NewSessions(p Provider, logger *zap.Logger) *Sessions {
	return &Sessions{
		provider: p,
		logger:   logger,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create starts a session.
func (s *Sessions) Create(ctx context.Context) *Session {
	sess := &Session{
		ID:        uuid.New(),
		Selection: s.NewSelection(ctx),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Debug("session created", zap.Stringer("id", sess.ID))
	return sess
}

// NewSelection returns an empty selection with the type chart loaded.
// Without the chart the selection still works but reports no type
// advantages.
func (s *Sessions) NewSelection(ctx context.Context) *compare.Selection {
	sel := compare.NewSelection(s.provider, compare.WithLogger(s.logger))
	s.LoadTypeChart(ctx, sel)
	return sel
}

// LoadTypeChart sets the type chart on sel if it has none yet. A failed
// load is logged and retried on the next call.
func (s *Sessions) LoadTypeChart(ctx context.Context, sel *compare.Selection) {
	if sel.HasTypeChart() {
		return
	}
	chart, err := s.provider.TypeChart(ctx)
	if err != nil {
		s.logger.Warn("type chart unavailable", zap.Error(err))
		return
	}
	sel.SetTypeChart(chart)
}

// Get returns the session with id.
func (s *Sessions) Get(id uuid.UUID) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Delete drops the session with id and reports whether it existed.
func (s *Sessions) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Len returns the number of open sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
