// Package pokeapi provides a caching client for the PokeAPI REST service.
//
// Every response body is memoized by request path in a cache.Store, and
// concurrent requests for the same path share a single upstream call.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/f3rmion/pokedex/internal/cache"
)

const (
	DefaultBaseURL     = "https://pokeapi.co/api/v2"
	DefaultTimeout     = 30 * time.Second
	DefaultConcurrency = 8
	DefaultUserAgent   = "pokedex (+https://github.com/f3rmion/pokedex)"
)

// FeaturedIDs are the Pokémon shown on the landing screen.
var FeaturedIDs = []int{25, 6, 150, 448, 445}

var (
	// ErrNotFound is returned when PokeAPI answers 404.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRef is returned for names or ids that cannot form a path.
	ErrInvalidRef = errors.New("invalid reference")
)

// APIError is returned for any other non-2xx response.
type APIError struct {
	Status int
	Path   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pokeapi %s: unexpected status %d", e.Path, e.Status)
}

// Client is a PokeAPI client.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	userAgent   string
	concurrency int
	store       cache.Store
	logger      *zap.Logger

	group singleflight.Group
	chart chartMemo
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithConcurrency limits parallel requests in fan-out operations.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithStore sets the response cache.
func WithStore(s cache.Store) Option {
	return func(c *Client) { c.store = s }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a new PokeAPI client. Without WithStore responses are
// cached in memory for the client's lifetime.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		userAgent:   DefaultUserAgent,
		concurrency: DefaultConcurrency,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = cache.NewMemoryStore(cache.DefaultConfig())
	}
	return c
}

// Store returns the response cache in use.
func (c *Client) Store() cache.Store {
	return c.store
}

// key maps an absolute URL under the base URL to its path, so both forms
// share one cache entry.
func (c *Client) key(ref string) string {
	if rest, ok := strings.CutPrefix(ref, c.baseURL); ok {
		if rest == "" || !strings.HasPrefix(rest, "/") {
			rest = "/" + rest
		}
		return rest
	}
	return ref
}

func (c *Client) url(key string) string {
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	return c.baseURL + key
}

// get returns the body for ref, which is either a path relative to the
// base URL or an absolute URL.
func (c *Client) get(ctx context.Context, ref string) ([]byte, error) {
	key := c.key(ref)

	if body, ok, err := c.store.Get(ctx, key); err != nil {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		c.logger.Debug("cache hit", zap.String("key", key))
		return body, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("waiting for %s: %w", key, err)
	}

	// The flight outlives any one caller: it runs detached from ctx and is
	// bounded by the HTTP client timeout. Each caller stops waiting when its
	// own ctx ends.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		// A flight for key may have finished since the miss above.
		if body, ok, _ := c.store.Get(flightCtx, key); ok {
			return body, nil
		}
		body, err := c.fetch(flightCtx, key)
		if err != nil {
			return nil, err
		}
		if err := c.store.Put(flightCtx, key, body); err != nil {
			c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
		return body, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for %s: %w", key, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("shared in-flight request", zap.String("key", key))
		}
		return res.Val.([]byte), nil
	}
}

func (c *Client) fetch(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(key), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("fetched",
		zap.String("key", key),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &APIError{Status: resp.StatusCode, Path: key}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, ref string, v any) error {
	body, err := c.get(ctx, ref)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s: %w", c.key(ref), err)
	}
	return nil
}

// normalizeRef lowercases a name or id for use in a path.
func normalizeRef(ref string) (string, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" || strings.ContainsAny(ref, "/?#") {
		return "", fmt.Errorf("%w %q", ErrInvalidRef, ref)
	}
	return ref, nil
}
