package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/f3rmion/pokedex/internal/catalog"
	"github.com/f3rmion/pokedex/internal/pokeapi"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]string{
		"error": message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}

// respondFailure maps an engine or upstream error to a status.
func (s *Server) respondFailure(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn(message, zap.String("path", r.URL.Path), zap.Error(err))
	}
	respondError(w, status, message, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pokeapi.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pokeapi.ErrInvalidRef), errors.Is(err, catalog.ErrInvalidExpression):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		// Upstream status errors and transport failures alike.
		return http.StatusBadGateway
	}
}
