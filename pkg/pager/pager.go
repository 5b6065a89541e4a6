package pager

import (
	"context"
	"database/sql"
	"log/slog"

	"sqlpager/pkg/dialect"
	"sqlpager/pkg/provider"
)

// Pager opens connections through a provider registry and keeps their inferred
// capabilities in a Store shared by every Conn it returns.
type Pager struct {
	registry *provider.Registry
	store    *dialect.Store
	log      *slog.Logger
}

// Option configures a Pager.
type Option func(*Pager)

// WithRegistry sets the provider registry. Default: provider.Default().
func WithRegistry(r *provider.Registry) Option {
	return func(p *Pager) {
		if r != nil {
			p.registry = r
		}
	}
}

// WithStore sets the capability store. Default: a new dialect.Store.
func WithStore(s *dialect.Store) Option {
	return func(p *Pager) {
		if s != nil {
			p.store = s
		}
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pager) {
		if l != nil {
			p.log = l
		}
	}
}

// New creates a Pager.
func New(opts ...Option) *Pager {
	p := &Pager{}
	for _, opt := range opts {
		opt(p)
	}
	if p.registry == nil {
		p.registry = provider.Default()
	}
	if p.store == nil {
		p.store = dialect.NewStore()
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	return p
}

// Store returns the capability store.
func (p *Pager) Store() *dialect.Store { return p.store }

// Registry returns the provider registry.
func (p *Pager) Registry() *provider.Registry { return p.registry }

// Open is OpenContext with context.Background().
func (p *Pager) Open(providerID, connString string) (*Conn, error) {
	return p.OpenContext(context.Background(), providerID, connString)
}

// OpenContext opens a connection and makes sure its capability is cached.
// Provider lookup, open and inference errors are returned unchanged; when inference
// fails the opened database is closed.
func (p *Pager) OpenContext(ctx context.Context, providerID, connString string) (*Conn, error) {
	prov, err := p.registry.Lookup(providerID)
	if err != nil {
		return nil, err
	}

	db, err := prov.Open(ctx, connString)
	if err != nil {
		return nil, err
	}

	c := p.newConn(prov, providerID, connString, db)
	if _, err := c.Infer(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// Resolver maps a configured connection name to a provider id and connection string.
type Resolver interface {
	Resolve(name string) (providerID, connString string, err error)
}

// OpenNamed resolves name and opens the connection it refers to.
func (p *Pager) OpenNamed(ctx context.Context, r Resolver, name string) (*Conn, error) {
	providerID, connString, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return p.OpenContext(ctx, providerID, connString)
}

// Wrap returns a Conn for a database opened elsewhere. No inference is done:
// until Infer is called or another Conn with the same connection string is opened,
// ParameterName falls back to the default format and paging fails.
func (p *Pager) Wrap(providerID, connString string, db *sql.DB) (*Conn, error) {
	prov, err := p.registry.Lookup(providerID)
	if err != nil {
		return nil, err
	}
	return p.newConn(prov, providerID, connString, db), nil
}

func (p *Pager) newConn(prov provider.Provider, providerID, connString string, db *sql.DB) *Conn {
	return &Conn{
		db:         db,
		provider:   prov,
		providerID: providerID,
		connString: connString,
		store:      p.store,
		log:        p.log.With(slog.String("provider", prov.Name())),
	}
}
