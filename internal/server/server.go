// Package server exposes the comparison engine over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/f3rmion/pokedex/internal/catalog"
	"github.com/f3rmion/pokedex/internal/pokemon"
)

const (
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Provider is the subset of the PokeAPI client the API serves from.
type Provider interface {
	Pokemon(ctx context.Context, ref string) (pokemon.Record, error)
	PokemonByID(ctx context.Context, id int) (pokemon.Record, error)
	Type(ctx context.Context, name string) (pokemon.TypeRelations, error)
	TypeChart(ctx context.Context) (pokemon.TypeChart, error)
}

// Catalog pages through the filtered index.
type Catalog interface {
	Query(ctx context.Context, f catalog.Filter, page, size int) (catalog.Page[pokemon.Record], error)
}

// Server routes API requests.
type Server struct {
	provider Provider
	catalog  Catalog
	sessions *Sessions
	logger   *zap.Logger
	pageSize int
	router   *chi.Mux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithPageSize sets the page size used when a request gives no limit.
func WithPageSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// New creates a Server.
func New(p Provider, c Catalog, opts ...Option) *Server {
	s := &Server{
		provider: p,
		catalog:  c,
		logger:   zap.NewNop(),
		pageSize: catalog.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions = NewSessions(p, s.logger)
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/pokemon", s.handleListPokemon)
		r.Get("/pokemon/{ref}", s.handleGetPokemon)
		r.Get("/types/{name}", s.handleGetType)
		r.Post("/compare", s.handleCompare)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)

			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Delete("/pokemon", s.handleClearSession)
				r.Put("/pokemon/{id}", s.handleAddToSession)
				r.Delete("/pokemon/{id}", s.handleRemoveFromSession)
			})
		})
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
