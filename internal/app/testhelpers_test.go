package app

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"sqlpager/internal/config"
	"sqlpager/internal/platform/sqlite"
	"sqlpager/pkg/pager"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testCatalog seeds a file database with 25 orders and returns a catalog over it.
func testCatalog(t *testing.T) (*config.Catalog, *sqlite.TestDB) {
	t.Helper()

	tdb := sqlite.NewTestDBFile(t)
	tdb.SeedNumbers(t, "orders", 25)

	cat, err := config.ParseCatalog([]byte(fmt.Sprintf(`
connections:
  reports: {provider: sqlite, connection_string: %q}
queries:
  orders: {connection: reports, sql: "select id, label from orders order by id", page_size: 10}
  broken: {connection: reports, sql: "select * from missing order by id"}
`, tdb.Path)))
	require.NoError(t, err)
	return cat, tdb
}

func newTestServer(t *testing.T, cat *config.Catalog) (*gin.Engine, *connSet) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := discardLogger()
	catalog := newCatalogHolder(cat)
	conns := newConnSet(pager.New(pager.WithLogger(log)), catalog, log)
	t.Cleanup(func() { _ = conns.Close() })

	return newRouter(&server{catalog: catalog, conns: conns, log: log}), conns
}
