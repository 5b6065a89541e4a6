package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sqlpager/pkg/dialect"
)

var (
	// ErrUnknownProvider is returned when a provider id is not registered.
	ErrUnknownProvider = errors.New("provider: unknown provider")

	// ErrSchemaUnavailable is returned when a connection exposes no usable metadata.
	ErrSchemaUnavailable = errors.New("provider: schema information unavailable")
)

// Provider opens connections for one database family and reports their metadata.
type Provider interface {
	// Name is the canonical provider id, e.g. "mysql".
	Name() string
	// Open opens and pings a connection. Driver errors are returned unchanged.
	Open(ctx context.Context, connString string) (*sql.DB, error)
	// SchemaInfo reads data source information from an open connection.
	SchemaInfo(ctx context.Context, db *sql.DB) (dialect.SchemaInfo, error)
}

// metadata is the static part of SchemaInfo for a provider whose product version
// is read with a single query.
type metadata struct {
	product       string
	markerPattern string
	nameMaxLength int
	versionQuery  string
}

func (m metadata) schemaInfo(ctx context.Context, db *sql.DB) (dialect.SchemaInfo, error) {
	version, err := queryVersion(ctx, db, m.versionQuery)
	if err != nil {
		return dialect.SchemaInfo{}, err
	}
	return dialect.SchemaInfo{
		ParameterMarkerPattern: m.markerPattern,
		ParameterNameMaxLength: m.nameMaxLength,
		ProductName:            m.product,
		ProductVersion:         version,
	}, nil
}

// queryVersion runs a single-value version query.
// An empty result is reported as ErrSchemaUnavailable; driver errors pass through.
func queryVersion(ctx context.Context, db *sql.DB, query string) (string, error) {
	var version sql.NullString
	err := db.QueryRowContext(ctx, query).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: version query returned no rows", ErrSchemaUnavailable)
	}
	if err != nil {
		return "", err
	}
	if v := strings.TrimSpace(version.String); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: empty product version", ErrSchemaUnavailable)
}

// openAndPing opens db with fn and closes it again if the first ping fails.
func openAndPing(ctx context.Context, fn func() (*sql.DB, error)) (*sql.DB, error) {
	db, err := fn()
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
