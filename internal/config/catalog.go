package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"sqlpager/internal/shared"
)

// DefaultPageSize is used for catalog queries without page_size.
const DefaultPageSize = 20

// Connection is a named connection: provider id plus connection string.
type Connection struct {
	Provider         string `yaml:"provider" validate:"required"`
	ConnectionString string `yaml:"connection_string" validate:"required"`
}

// Query is a named paged query bound to a catalog connection.
type Query struct {
	Connection string `yaml:"connection" validate:"required"`
	SQL        string `yaml:"sql" validate:"required"`
	PageSize   int    `yaml:"page_size" validate:"min=0,max=1000"`
}

// Catalog is the parsed catalog file:
//
//	connections:
//	  reports: {provider: sqlite, connection_string: data/reports.db}
//	queries:
//	  recent_orders: {connection: reports, sql: "select id, total from orders order by id", page_size: 20}
type Catalog struct {
	Connections map[string]Connection `yaml:"connections" validate:"dive"`
	Queries     map[string]Query      `yaml:"queries" validate:"dive"`
}

// LoadCatalog reads and validates the catalog file at path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, shared.Wrapf(err, "catalog %s", path)
	}
	return c, nil
}

// ParseCatalog decodes and validates a catalog. Unknown fields are rejected.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, shared.MarkKind(err, shared.KindValidation)
	}

	if err := validate.Struct(c); err != nil {
		return nil, shared.MarkKind(err, shared.KindValidation)
	}

	for name, q := range c.Queries {
		if _, ok := c.Connections[q.Connection]; !ok {
			return nil, fmt.Errorf("%w: query %q refers to unknown connection %q", shared.ErrValidation, name, q.Connection)
		}
		if q.PageSize == 0 {
			q.PageSize = DefaultPageSize
			c.Queries[name] = q
		}
	}
	return &c, nil
}

// Resolve returns the provider id and connection string of a named connection.
func (c *Catalog) Resolve(name string) (string, string, error) {
	conn, ok := c.Connections[name]
	if !ok {
		return "", "", fmt.Errorf("%w: connection %q", shared.ErrNotFound, name)
	}
	return conn.Provider, conn.ConnectionString, nil
}

// Query returns a named query.
func (c *Catalog) Query(name string) (Query, error) {
	q, ok := c.Queries[name]
	if !ok {
		return Query{}, fmt.Errorf("%w: query %q", shared.ErrNotFound, name)
	}
	return q, nil
}

// QueryNames returns the sorted query names.
func (c *Catalog) QueryNames() []string {
	return sortedKeys(c.Queries)
}

// ConnectionNames returns the sorted connection names.
func (c *Catalog) ConnectionNames() []string {
	return sortedKeys(c.Connections)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
