package pager

import (
	"context"
	"database/sql"
	"log/slog"

	"sqlpager/pkg/dialect"
	"sqlpager/pkg/provider"
)

// Conn is an open database handle bound to its connection string, which is the key
// of its cached capability.
type Conn struct {
	db         *sql.DB
	provider   provider.Provider
	providerID string
	connString string
	store      *dialect.Store
	log        *slog.Logger
}

// DB returns the underlying *sql.DB.
func (c *Conn) DB() *sql.DB { return c.db }

// ProviderID returns the provider id the connection was opened with.
func (c *Conn) ProviderID() string { return c.providerID }

// ConnectionString returns the connection string. Do not log it: it may hold credentials.
func (c *Conn) ConnectionString() string { return c.connString }

// Capability returns the cached capability, if any. It never touches the database.
func (c *Conn) Capability() (dialect.Capability, bool) {
	return c.store.Lookup(c.connString)
}

// Infer returns the capability of the connection, computing and caching it on first use.
func (c *Conn) Infer(ctx context.Context) (dialect.Capability, error) {
	capability, cached, err := c.store.GetOrCompute(ctx, c.connString, func(ctx context.Context) (dialect.Capability, error) {
		return dialect.Infer(ctx, c.providerID, c.store.DefaultParameterFormat(), func(ctx context.Context) (dialect.SchemaInfo, error) {
			return c.provider.SchemaInfo(ctx, c.db)
		})
	})
	if err != nil {
		c.log.Warn("capability inference failed", slog.Any("err", err))
		return dialect.Capability{}, err
	}

	if cached {
		c.log.Debug("capability cache hit", slog.String("strategy", capability.PagingStrategy.String()))
	} else {
		c.log.Info("capability inferred",
			slog.String("strategy", capability.PagingStrategy.String()),
			slog.String("marker", capability.ParameterMarker),
			slog.Bool("named", capability.NamedParameterSupport),
		)
	}
	return capability, nil
}

// ParameterName renders a parameter placeholder for name: marker+name for
// dialects with named parameters, the bare marker otherwise. Without a cached
// capability the store's default format is used.
func (c *Conn) ParameterName(name string) string {
	return c.store.ParameterName(c.connString, name)
}

// PagingSQL rewrites sql to select page pageNum (1-based) of pageSize rows.
func (c *Conn) PagingSQL(sql string, pageSize, pageNum int) (string, error) {
	return dialect.Rewrite(c.store.PagingStrategyFor(c.connString), sql, pageSize, pageNum)
}

// Close closes the underlying database. The cached capability is kept.
func (c *Conn) Close() error {
	return c.db.Close()
}
