package pg

import (
	"os"
	"testing"
)

// testDSN возвращает DSN тестовой БД или пропускает тест.
func testDSN(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN is not set")
	}
	return dsn
}
