package sqlite

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// BuildMigrateURL строит URL базы данных для golang-migrate.
// На Windows "C:\..." превращается в "sqlite:///C:/...", на Unix "/..." в "sqlite:///...".
func BuildMigrateURL(dbPath string) (string, error) {
	if dbPath == MemoryPath {
		return "", errors.New("migrations are not supported for in-memory databases")
	}

	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	urlPath := filepath.ToSlash(absPath)
	if runtime.GOOS == "windows" && len(urlPath) >= 2 && urlPath[1] == ':' {
		urlPath = "/" + urlPath
	}
	if !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}

	return "sqlite://" + urlPath, nil
}

// MigrationsSource превращает путь к директории в URL источника golang-migrate.
// Уже готовые URL ("file://...") возвращаются без изменений.
func MigrationsSource(dir string) string {
	if strings.Contains(dir, "://") {
		return dir
	}
	return "file://" + filepath.ToSlash(dir)
}

func newMigrate(dbPath, migrationsPath string) (*migrate.Migrate, error) {
	databaseURL, err := BuildMigrateURL(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build database URL: %w", err)
	}

	m, err := migrate.New(MigrationsSource(migrationsPath), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// ApplyMigrations применяет все доступные миграции к SQLite базе данных.
// Повторный вызов безопасен: migrate.ErrNoChange не считается ошибкой.
func ApplyMigrations(dbPath, migrationsPath string) error {
	m, err := newMigrate(dbPath, migrationsPath)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// GetMigrationVersion возвращает текущую версию примененных миграций.
func GetMigrationVersion(dbPath, migrationsPath string) (uint, bool, error) {
	m, err := newMigrate(dbPath, migrationsPath)
	if err != nil {
		return 0, false, err
	}
	defer func() {
		_, _ = m.Close()
	}()

	version, dirty, err := m.Version()
	if err != nil {
		// Если миграции еще не применялись, это не ошибка
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}

	return version, dirty, nil
}
