package provider

import (
	"context"
	"database/sql"

	"sqlpager/internal/platform/sqlite"
	"sqlpager/pkg/dialect"
)

// SQLite opens databases with the pure-Go modernc driver.
// Capability inference never asks it for SchemaInfo; the method exists for diagnostics.
type SQLite struct{}

func init() {
	registerBuiltin(SQLite{}, "sqlite3")
}

func (SQLite) Name() string { return "sqlite" }

// Open accepts a file path, ":memory:" or a "file:" DSN.
func (SQLite) Open(ctx context.Context, connString string) (*sql.DB, error) {
	return sqlite.Open(ctx, connString)
}

func (SQLite) SchemaInfo(ctx context.Context, db *sql.DB) (dialect.SchemaInfo, error) {
	version, err := sqlite.Version(ctx, db)
	if err != nil {
		return dialect.SchemaInfo{}, err
	}
	return dialect.SchemaInfo{
		ParameterMarkerPattern: `@[\p{L}\p{N}_]+`,
		ParameterNameMaxLength: 0x7fff,
		ProductName:            "SQLite",
		ProductVersion:         version,
	}, nil
}
