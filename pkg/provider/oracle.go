package provider

import (
	"context"
	"database/sql"

	"sqlpager/pkg/dialect"
)

var oracleMetadata = metadata{
	product:       "Oracle",
	markerPattern: `:([\p{L}\p{N}_]+)`,
	nameMaxLength: 30,
	versionQuery:  "SELECT version FROM product_component_version WHERE product LIKE 'Oracle%' AND ROWNUM = 1",
}

// Oracle uses named ":name" parameters. The driver needs cgo and the Oracle client
// libraries, so it is registered only in cgo builds.
type Oracle struct{}

func (Oracle) Name() string { return "oracle" }

// Open accepts godror connection strings ("user/pass@host:1521/service" or logfmt).
func (Oracle) Open(ctx context.Context, connString string) (*sql.DB, error) {
	return openAndPing(ctx, func() (*sql.DB, error) {
		return sql.Open(oracleDriverName, connString)
	})
}

func (Oracle) SchemaInfo(ctx context.Context, db *sql.DB) (dialect.SchemaInfo, error) {
	return oracleMetadata.schemaInfo(ctx, db)
}
