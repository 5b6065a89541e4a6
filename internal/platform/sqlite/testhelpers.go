package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
)

// TestDB представляет тестовую SQLite базу данных с удобными хелперами.
type TestDB struct {
	DB   *sql.DB
	Path string // Путь к файлу БД (":memory:" для in-memory)
}

// NewTestDB создает временную файловую SQLite базу данных с уникальным именем.
func NewTestDB(ctx context.Context) (*sql.DB, string, error) {
	tmpFile, err := os.CreateTemp("", "sqlpager_*.sqlite")
	if err != nil {
		return nil, "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	_ = tmpFile.Close() // Работаем через sql.DB

	db, err := NewDB(ctx, tmpPath)
	if err != nil {
		_ = os.Remove(tmpPath)
		return nil, "", err
	}

	return db, tmpPath, nil
}

// CleanupTestDB закрывает тестовую БД и удаляет файл.
func CleanupTestDB(db *sql.DB, dbPath string) error {
	if db != nil {
		_ = db.Close()
	}
	if dbPath != "" && dbPath != MemoryPath {
		return os.Remove(dbPath)
	}
	return nil
}

// NewTestDBInMemory создает in-memory SQLite БД для тестов.
// БД автоматически закрывается после завершения теста.
func NewTestDBInMemory(t *testing.T) *TestDB {
	t.Helper()

	db, err := NewInMemoryDB(context.Background())
	if err != nil {
		t.Fatalf("Failed to create in-memory test DB: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return &TestDB{DB: db, Path: MemoryPath}
}

// NewTestDBFile создает файловую SQLite БД для тестов.
// БД автоматически удаляется после завершения теста.
func NewTestDBFile(t *testing.T) *TestDB {
	t.Helper()

	db, path, err := NewTestDB(context.Background())
	if err != nil {
		t.Fatalf("Failed to create file test DB: %v", err)
	}
	t.Cleanup(func() {
		_ = CleanupTestDB(db, path)
	})

	return &TestDB{DB: db, Path: path}
}

// ApplyTestMigrations применяет миграции к тестовой БД.
func (tdb *TestDB) ApplyTestMigrations(t *testing.T, migrationsPath string) {
	t.Helper()

	if err := ApplyMigrations(tdb.Path, migrationsPath); err != nil {
		t.Fatalf("Failed to apply test migrations: %v", err)
	}
}

// Exec выполняет SQL команду и проверяет отсутствие ошибок.
func (tdb *TestDB) Exec(t *testing.T, query string, args ...any) sql.Result {
	t.Helper()

	result, err := tdb.DB.ExecContext(context.Background(), query, args...)
	if err != nil {
		t.Fatalf("Failed to execute query: %v", err)
	}
	return result
}

// MustSeedData выполняет запросы подготовки данных и падает при ошибке.
func (tdb *TestDB) MustSeedData(t *testing.T, queries ...string) {
	t.Helper()

	for _, query := range queries {
		tdb.Exec(t, query)
	}
}

// SeedNumbers создает таблицу table(id INTEGER PRIMARY KEY, label TEXT)
// и заполняет её строками с id от 1 до n. Удобно для проверки постраничной выборки.
func (tdb *TestDB) SeedNumbers(t *testing.T, table string, n int) {
	t.Helper()

	tdb.Exec(t, fmt.Sprintf("CREATE TABLE %s (id INTEGER PRIMARY KEY, label TEXT NOT NULL)", table))
	for i := 1; i <= n; i++ {
		tdb.Exec(t, fmt.Sprintf("INSERT INTO %s (id, label) VALUES (?, ?)", table), i, fmt.Sprintf("row-%03d", i))
	}
}

// CountRows возвращает количество строк в таблице.
func (tdb *TestDB) CountRows(t *testing.T, tableName string) int {
	t.Helper()

	var count int
	row := tdb.DB.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+tableName)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("Failed to count rows in table %s: %v", tableName, err)
	}
	return count
}

// TableExists проверяет существование таблицы.
func (tdb *TestDB) TableExists(t *testing.T, tableName string) bool {
	t.Helper()

	var count int
	row := tdb.DB.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", tableName)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("Failed to check table existence: %v", err)
	}
	return count > 0
}
