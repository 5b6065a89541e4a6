package dialect

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// DefaultParameterFormat renders a parameter name for connections that are not in the store.
const DefaultParameterFormat = "@%s"

// Store maps connection strings to their inferred Capability.
//
// Entries are added at most once per key and never replaced or removed. Reads do
// not block. Concurrent first-time computations for one key are coalesced, so a
// single computation runs and every caller observes its result.
type Store struct {
	entries       sync.Map // string -> Capability
	size          atomic.Int64
	group         singleflight.Group
	defaultFormat string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithDefaultParameterFormat sets the fmt format (with a single %s verb) used by
// ParameterName for connections without a cached Capability.
func WithDefaultParameterFormat(format string) StoreOption {
	return func(s *Store) {
		if format != "" {
			s.defaultFormat = format
		}
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{defaultFormat: DefaultParameterFormat}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultParameterFormat returns the format used for uncached connections.
func (s *Store) DefaultParameterFormat() string {
	return s.defaultFormat
}

// Lookup returns the cached Capability for key.
func (s *Store) Lookup(key string) (Capability, bool) {
	v, ok := s.entries.Load(key)
	if !ok {
		return Capability{}, false
	}
	return v.(Capability), true
}

// GetOrCompute returns the cached Capability for key, calling compute on a miss.
// A failed computation stores nothing and its error is returned unchanged.
// The returned bool is true when the value came from the cache.
//
// Concurrent misses for one key share a single computation. A caller that joined
// a computation started by another caller does not inherit its failure: it
// computes again under its own ctx. A canceled ctx only affects its own caller.
func (s *Store) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (Capability, error)) (Capability, bool, error) {
	if c, ok := s.Lookup(key); ok {
		return c, true, nil
	}

	var leader bool
	ch := s.group.DoChan(key, func() (any, error) {
		leader = true
		return s.computeAndStore(ctx, key, compute)
	})

	select {
	case <-ctx.Done():
		return Capability{}, false, ctx.Err()
	case res := <-ch:
		if res.Err == nil {
			return res.Val.(Capability), false, nil
		}
		if leader {
			return Capability{}, false, res.Err
		}
	}

	c, err := s.computeAndStore(ctx, key, compute)
	if err != nil {
		return Capability{}, false, err
	}
	return c, false, nil
}

func (s *Store) computeAndStore(ctx context.Context, key string, compute func(context.Context) (Capability, error)) (Capability, error) {
	if c, ok := s.Lookup(key); ok {
		return c, nil
	}
	c, err := compute(ctx)
	if err != nil {
		return Capability{}, err
	}
	actual, loaded := s.entries.LoadOrStore(key, c)
	if !loaded {
		s.size.Add(1)
	}
	return actual.(Capability), nil
}

// ParameterName returns the placeholder for name on the connection identified by key.
// Uncached connections fall back to the default format; the store is not modified.
func (s *Store) ParameterName(key, name string) string {
	if c, ok := s.Lookup(key); ok {
		return c.ParameterName(name)
	}
	return fmt.Sprintf(s.defaultFormat, name)
}

// PagingStrategyFor returns the cached strategy for key, or None on a miss.
func (s *Store) PagingStrategyFor(key string) PagingStrategy {
	if c, ok := s.Lookup(key); ok {
		return c.PagingStrategy
	}
	return None
}

// Len returns the number of cached connection strings.
func (s *Store) Len() int {
	return int(s.size.Load())
}
