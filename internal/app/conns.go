package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"sqlpager/pkg/pager"
)

// connSet opens catalog connections lazily, once per name.
//
// Callers hold a reference while they use a connection. Dropping a connection
// removes it from the set right away but closes it only after the last
// reference is released.
type connSet struct {
	pager    *pager.Pager
	resolver pager.Resolver
	log      *slog.Logger

	mu    sync.Mutex
	conns map[string]*connEntry
	gens  map[string]uint64 // bumped by Drop; an open that started earlier is not stored
	group singleflight.Group
}

type connEntry struct {
	name    string
	conn    *pager.Conn
	refs    int
	dropped bool
	closed  bool
}

func newConnSet(p *pager.Pager, r pager.Resolver, log *slog.Logger) *connSet {
	return &connSet{
		pager:    p,
		resolver: r,
		log:      log,
		conns:    make(map[string]*connEntry),
		gens:     make(map[string]uint64),
	}
}

// Get returns the open connection for name, opening it on first use.
// release must be called when the caller is done with the connection.
func (s *connSet) Get(ctx context.Context, name string) (*pager.Conn, func(), error) {
	for {
		e, err := s.entry(ctx, name)
		if err != nil {
			return nil, nil, err
		}

		s.mu.Lock()
		if !e.closed {
			e.refs++
			s.mu.Unlock()
			return e.conn, sync.OnceFunc(func() { s.release(e) }), nil
		}
		s.mu.Unlock()
		// Closed between open and acquire; open again.
	}
}

func (s *connSet) entry(ctx context.Context, name string) (*connEntry, error) {
	s.mu.Lock()
	e, ok := s.conns[name]
	s.mu.Unlock()
	if ok {
		return e, nil
	}

	v, err, _ := s.group.Do(name, func() (any, error) {
		s.mu.Lock()
		if e, ok := s.conns[name]; ok {
			s.mu.Unlock()
			return e, nil
		}
		gen := s.gens[name]
		s.mu.Unlock()

		// The opened connection is shared, so it must outlive the request that opens it.
		c, err := s.pager.OpenNamed(context.WithoutCancel(ctx), s.resolver, name)
		if err != nil {
			return nil, err
		}

		e := &connEntry{name: name, conn: c}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gens[name] != gen {
			// Resolved from a catalog that was replaced meanwhile: serve the waiting
			// callers and close after them.
			e.dropped = true
			return e, nil
		}
		s.conns[name] = e
		s.log.Info("connection opened", slog.String("connection", name), slog.String("provider", c.ProviderID()))
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*connEntry), nil
}

func (s *connSet) release(e *connEntry) {
	s.mu.Lock()
	e.refs--
	closeNow := e.dropped && e.refs == 0 && !e.closed
	if closeNow {
		e.closed = true
	}
	s.mu.Unlock()

	if closeNow {
		s.closeEntry(e)
	}
}

// Len returns the number of open connections in the set.
func (s *connSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// ForEach calls fn for every open connection while holding a reference to it.
func (s *connSet) ForEach(fn func(name string, c *pager.Conn)) {
	s.mu.Lock()
	entries := make([]*connEntry, 0, len(s.conns))
	for _, e := range s.conns {
		e.refs++
		entries = append(entries, e)
	}
	s.mu.Unlock()

	for _, e := range entries {
		fn(e.name, e.conn)
		s.release(e)
	}
}

// Drop forgets the named connections and closes each one once it is no longer
// in use. The next Get reopens them.
func (s *connSet) Drop(names ...string) {
	s.mu.Lock()
	var toClose []*connEntry
	for _, name := range names {
		s.gens[name]++
		e, ok := s.conns[name]
		if !ok {
			continue
		}
		delete(s.conns, name)
		e.dropped = true
		if e.refs == 0 {
			e.closed = true
			toClose = append(toClose, e)
		}
	}
	s.mu.Unlock()

	for _, e := range toClose {
		s.closeEntry(e)
	}
}

func (s *connSet) closeEntry(e *connEntry) {
	if err := e.conn.Close(); err != nil {
		s.log.Warn("close connection", slog.String("connection", e.name), slog.Any("err", err))
	}
}

// Close closes every open connection regardless of references. It is called
// after the HTTP server has shut down.
func (s *connSet) Close() error {
	s.mu.Lock()
	entries := s.conns
	s.conns = make(map[string]*connEntry)
	for _, e := range entries {
		e.dropped = true
		e.closed = true
	}
	s.mu.Unlock()

	var errs []error
	for _, e := range entries {
		errs = append(errs, e.conn.Close())
	}
	return errors.Join(errs...)
}
