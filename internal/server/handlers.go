package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/f3rmion/pokedex/internal/catalog"
	"github.com/f3rmion/pokedex/internal/compare"
	"github.com/f3rmion/pokedex/internal/pokemon"
)

// comparison is the body of compare and session responses.
type comparison struct {
	ID        string            `json:"id,omitempty"`
	CreatedAt *time.Time        `json:"createdAt,omitempty"`
	Pokemon   []pokemon.Record  `json:"pokemon"`
	Analysis  *compare.Analysis `json:"analysis"`
}

func sessionView(sess *Session) comparison {
	return comparison{
		ID:        sess.ID.String(),
		CreatedAt: &sess.CreatedAt,
		Pokemon:   sess.Selection.Records(),
		Analysis:  sess.Selection.Analysis(),
	}
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"sessions": s.sessions.Len(),
	})
}

// List handler; query parameters mirror the list command's flags.
func (s *Server) handleListPokemon(w http.ResponseWriter, r *http.Request) {
	f, page, size, err := parseQuery(r, s.pageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid query", err)
		return
	}

	result, err := s.catalog.Query(r.Context(), f, page, size)
	if err != nil {
		s.respondFailure(w, r, "failed to list pokemon", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func parseQuery(r *http.Request, defaultSize int) (catalog.Filter, int, int, error) {
	q := r.URL.Query()
	f := catalog.DefaultFilter()
	page, size := 1, defaultSize

	for key, dst := range map[string]*int{
		"min":   &f.MinStats,
		"max":   &f.MaxStats,
		"page":  &page,
		"limit": &size,
	} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, 0, 0, fmt.Errorf("%s: %q is not a number", key, v)
		}
		*dst = n
	}

	f.Search = strings.TrimSpace(q.Get("search"))
	for _, v := range q["type"] {
		for _, t := range strings.Split(v, ",") {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				f.Types = append(f.Types, t)
			}
		}
	}
	if v := q.Get("sort"); v != "" {
		f.SortBy = v
	}
	if v := q.Get("order"); v != "" {
		f.Order = v
	}
	f.Expr = q.Get("where")

	if size < 1 || size > catalog.MaxPageSize {
		return f, 0, 0, fmt.Errorf("limit: must be between 1 and %d", catalog.MaxPageSize)
	}

	if err := f.Validate(); err != nil {
		return f, 0, 0, err
	}
	return f, page, size, nil
}

// Get pokemon handler
func (s *Server) handleGetPokemon(w http.ResponseWriter, r *http.Request) {
	rec, err := s.provider.Pokemon(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		s.respondFailure(w, r, "failed to get pokemon", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// Get type handler
func (s *Server) handleGetType(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rel, err := s.provider.Type(r.Context(), name)
	if err != nil {
		s.respondFailure(w, r, "failed to get type", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"name":      strings.ToLower(name),
		"relations": rel,
	})
}

// One-shot comparison handler
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int `json:"ids"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if len(req.IDs) == 0 {
		respondError(w, http.StatusBadRequest, "ids are required", nil)
		return
	}
	if len(req.IDs) > compare.MaxSelection {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("at most %d ids can be compared", compare.MaxSelection), nil)
		return
	}

	sel := s.sessions.NewSelection(r.Context())
	for _, id := range req.IDs {
		if err := sel.Add(r.Context(), id); err != nil {
			s.respondFailure(w, r, "failed to compare", err)
			return
		}
	}

	respondJSON(w, http.StatusOK, comparison{
		Pokemon:  sel.Records(),
		Analysis: sel.Analysis(),
	})
}

// Create session handler
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create(r.Context())
	respondJSON(w, http.StatusCreated, sessionView(sess))
}

// Get session handler
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sessionView(sess))
}

// Delete session handler
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if !s.sessions.Delete(id) {
		respondError(w, http.StatusNotFound, "session not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear session handler
func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Selection.Clear()
	respondJSON(w, http.StatusOK, sessionView(sess))
}

// Add to session handler. Adding to a full session or adding a
// duplicate leaves it unchanged.
func (s *Server) handleAddToSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	id, ok := pokemonID(w, r)
	if !ok {
		return
	}

	if err := sess.Selection.Add(r.Context(), id); err != nil {
		s.respondFailure(w, r, "failed to add pokemon", err)
		return
	}
	respondJSON(w, http.StatusOK, sessionView(sess))
}

// Remove from session handler
func (s *Server) handleRemoveFromSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	id, ok := pokemonID(w, r)
	if !ok {
		return
	}

	sess.Selection.Remove(id)
	respondJSON(w, http.StatusOK, sessionView(sess))
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id, ok := sessionID(w, r)
	if !ok {
		return nil, false
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "session not found", nil)
		return nil, false
	}
	s.sessions.LoadTypeChart(r.Context(), sess.Selection)
	return sess, true
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session id", err)
		return uuid.Nil, false
	}
	return id, true
}

func pokemonID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid pokemon id", err)
		return 0, false
	}
	return id, true
}
