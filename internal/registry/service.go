// Package registry provides centralized management of schema sources. It
// collects named sources, merges their documents into a unified anyOf
// composite, and caches that composite with explicit invalidation.
package registry

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"github.com/griffnb/core-schemas/internal/cache"
	"github.com/griffnb/core-schemas/internal/console"
	"github.com/griffnb/core-schemas/internal/domain"
)

const (
	// compositeCacheKey is the single fixed cache key for the composite. The
	// composite is process-global, not per-field.
	compositeCacheKey = "core-schemas:unified"

	// DefaultTTL is the cache lifetime of the composite when none is set.
	DefaultTTL = 5 * time.Minute
)

// Debugger is the interface that wraps the basic Printf method.
type Debugger interface {
	Printf(format string, v ...interface{})
}

// Service manages the set of registered schema sources and the cached
// unified composite built from them.
type Service struct {
	providers map[string]domain.Source
	order     []string // first-appearance registration order
	store     cache.Store
	ttl       time.Duration
	group     singleflight.Group
	debug     Debugger
}

// NewService creates a registry backed by the given cache store. A nil store
// falls back to an in-memory one.
func NewService(store cache.Store) *Service {
	if store == nil {
		store = cache.NewMemoryStore()
	}

	return &Service{
		providers: make(map[string]domain.Source),
		order:     []string{},
		store:     store,
		ttl:       DefaultTTL,
	}
}

// SetTTL overrides the cache lifetime of the composite.
func (s *Service) SetTTL(ttl time.Duration) {
	s.ttl = ttl
}

// SetDebugger sets the debugger.
func (s *Service) SetDebugger(debug Debugger) {
	s.debug = debug
}

// Register adds a source by name. Re-registering an existing name overwrites
// the previous source (last registration wins) but keeps its original slot in
// the composite order. Registration always invalidates the cached composite.
func (s *Service) Register(src domain.Source) {
	if _, exists := s.providers[src.Name]; exists {
		console.Logger.Warn("schema source %q is already registered, overwriting with %s", src.Name, src.Location)
	} else {
		s.order = append(s.order, src.Name)
	}

	s.providers[src.Name] = src

	if s.debug != nil {
		s.debug.Printf("registered schema source %q -> %s", src.Name, src.Location)
	}

	// Registration must never serve a stale composite.
	s.InvalidateCache()
}

// RegisterAll registers a sequence of sources individually, with the same
// invalidation behavior per item. The sequence may be empty.
func (s *Service) RegisterAll(srcs []domain.Source) {
	for _, src := range srcs {
		s.Register(src)
	}
}

// Source returns the registered source with the given name.
func (s *Service) Source(name string) (domain.Source, bool) {
	src, ok := s.providers[name]
	return src, ok
}

// Sources returns the registered sources in composite order.
func (s *Service) Sources() []domain.Source {
	out := make([]domain.Source, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.providers[name])
	}
	return out
}

// UnifiedSchema returns the cached composite if present and unexpired,
// otherwise recomputes it from the registered sources' documents. A source
// whose document is missing or malformed fails the whole call; partial
// composites are never returned.
func (s *Service) UnifiedSchema() (*domain.UnifiedSchema, error) {
	if data, ok := s.store.Get(compositeCacheKey); ok {
		var unified domain.UnifiedSchema
		if err := json.Unmarshal(data, &unified); err == nil {
			return &unified, nil
		}

		// An unreadable cache entry is dropped and rebuilt.
		console.Logger.Warn("cached unified schema is unreadable, rebuilding")
		s.store.Delete(compositeCacheKey)
	}

	// Collapse concurrent recomputations into a single build.
	v, err, _ := s.group.Do(compositeCacheKey, func() (interface{}, error) {
		return s.buildUnified()
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.UnifiedSchema), nil
}

// InvalidateCache unconditionally evicts the cached composite. Idempotent;
// the next UnifiedSchema call recomputes from scratch.
func (s *Service) InvalidateCache() {
	s.store.Delete(compositeCacheKey)
}

// buildUnified reads every registered source document in composite order and
// assembles the anyOf composite, caching it on success.
func (s *Service) buildUnified() (*domain.UnifiedSchema, error) {
	unified := &domain.UnifiedSchema{
		Schema: domain.SchemaDialect,
		AnyOf:  []json.RawMessage{},
	}

	if len(s.order) == 0 {
		unified.Description = domain.NoSchemasDescription
	} else {
		for _, name := range s.order {
			src := s.providers[name]

			doc, err := s.readSource(src)
			if err != nil {
				return nil, err
			}

			unified.AnyOf = append(unified.AnyOf, doc)
		}

		unified.Description = fmt.Sprintf(
			"Unified schema from %d provider(s). Must match one of the available schemas.",
			len(s.order),
		)
	}

	if payload, err := json.Marshal(unified); err == nil {
		s.store.Set(compositeCacheKey, payload, s.ttl)
	}

	if s.debug != nil {
		s.debug.Printf("built unified schema from %d provider(s)", len(unified.AnyOf))
	}

	return unified, nil
}

// readSource resolves a source's location to its raw document, verifying it
// is a well-formed schema object.
func (s *Service) readSource(src domain.Source) (json.RawMessage, error) {
	data, err := os.ReadFile(src.Location)
	if err != nil {
		return nil, &SourceNotFoundError{Name: src.Name, Location: src.Location, Err: err}
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &SourceParseError{Name: src.Name, Location: src.Location, Err: err}
	}

	return json.RawMessage(data), nil
}
