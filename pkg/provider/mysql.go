package provider

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"

	"sqlpager/pkg/dialect"
)

var mysqlMetadata = metadata{
	product:       "MySQL",
	markerPattern: "?",
	nameMaxLength: 0,
	versionQuery:  "SELECT VERSION()",
}

// MySQL covers MySQL and MariaDB. Parameters are positional ("?").
type MySQL struct{}

func init() {
	registerBuiltin(MySQL{}, "mariadb")
}

func (MySQL) Name() string { return "mysql" }

// Open parses connString as a go-sql-driver DSN ("user:pass@tcp(host:3306)/db").
// Time columns are always decoded into time.Time.
func (MySQL) Open(ctx context.Context, connString string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(connString)
	if err != nil {
		return nil, err
	}
	cfg.ParseTime = true

	return openAndPing(ctx, func() (*sql.DB, error) {
		connector, err := mysql.NewConnector(cfg)
		if err != nil {
			return nil, err
		}
		return sql.OpenDB(connector), nil
	})
}

func (MySQL) SchemaInfo(ctx context.Context, db *sql.DB) (dialect.SchemaInfo, error) {
	return mysqlMetadata.schemaInfo(ctx, db)
}
