package provider

import (
	"context"
	"database/sql"

	"sqlpager/internal/platform/pg"
	"sqlpager/pkg/dialect"
)

// ApplicationName is reported to servers that support it.
const ApplicationName = "sqlpager"

// Postgres opens connections through a pgx pool. Parameters are numbered ("$1"),
// so ParameterName("1") yields "$1". The paging table has no PostgreSQL entry and
// paging on these connections fails with dialect.ErrUnsupportedPagination.
type Postgres struct{}

func init() {
	registerBuiltin(Postgres{}, "postgresql", "pgx")
}

func (Postgres) Name() string { return "postgres" }

func (Postgres) Open(ctx context.Context, connString string) (*sql.DB, error) {
	dsn, err := pg.WithApplicationName(connString, ApplicationName)
	if err != nil {
		return nil, err
	}
	return pg.OpenDB(ctx, dsn)
}

func (Postgres) SchemaInfo(ctx context.Context, db *sql.DB) (dialect.SchemaInfo, error) {
	version, err := pg.ServerVersion(ctx, db)
	if err != nil {
		return dialect.SchemaInfo{}, err
	}
	return dialect.SchemaInfo{
		ParameterMarkerPattern: `\$[0-9]+`,
		ParameterNameMaxLength: 63,
		ProductName:            "PostgreSQL",
		ProductVersion:         version,
	}, nil
}
