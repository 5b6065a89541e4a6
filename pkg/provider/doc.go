// Package provider is the connection-provider layer: it opens *sql.DB handles for a
// provider id and reports the metadata capability inference needs.
//
// Built-in providers and their ids:
//
//	sqlite (sqlite3)                  modernc.org/sqlite
//	mysql (mariadb)                   github.com/go-sql-driver/mysql
//	sqlserver (mssql)                 github.com/microsoft/go-mssqldb
//	oracle (godror)                   github.com/godror/godror, cgo builds only
//	postgres (postgresql, pgx)        github.com/jackc/pgx/v5
//
// Custom providers are added with Registry.Register:
//
//	reg := provider.NewDefaultRegistry()
//	reg.Register(myProvider{}, "alias")
package provider
