package provider

import (
	"context"
	"database/sql"

	mssql "github.com/microsoft/go-mssqldb"

	"sqlpager/pkg/dialect"
)

var sqlServerMetadata = metadata{
	product:       "Microsoft SQL Server",
	markerPattern: `@[\p{L}_][\p{L}\p{N}@$#_]*`,
	nameMaxLength: 128,
	versionQuery:  "SELECT CAST(SERVERPROPERTY('ProductVersion') AS nvarchar(128))",
}

// SQLServer uses named "@name" parameters.
type SQLServer struct{}

func init() {
	registerBuiltin(SQLServer{}, "mssql")
}

func (SQLServer) Name() string { return "sqlserver" }

// Open accepts URL ("sqlserver://..."), ADO ("server=...;") and ODBC connection strings.
func (SQLServer) Open(ctx context.Context, connString string) (*sql.DB, error) {
	connector, err := mssql.NewConnector(connString)
	if err != nil {
		return nil, err
	}
	return openAndPing(ctx, func() (*sql.DB, error) {
		return sql.OpenDB(connector), nil
	})
}

func (SQLServer) SchemaInfo(ctx context.Context, db *sql.DB) (dialect.SchemaInfo, error) {
	return sqlServerMetadata.schemaInfo(ctx, db)
}
