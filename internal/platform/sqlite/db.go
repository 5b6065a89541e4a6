package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite драйвер
)

// DriverName - имя драйвера modernc.org/sqlite в database/sql.
const DriverName = "sqlite"

// MemoryPath - путь in-memory базы данных.
const MemoryPath = ":memory:"

// DBOptions содержит настройки для SQLite базы данных.
type DBOptions struct {
	// ConnMaxLifetime - максимальное время жизни соединения
	ConnMaxLifetime time.Duration
	// ConnMaxIdleTime - максимальное время простоя соединения
	ConnMaxIdleTime time.Duration
	// MaxOpenConns - максимальное количество открытых соединений
	MaxOpenConns int
	// MaxIdleConns - максимальное количество idle соединений
	MaxIdleConns int
	// PingTimeout - таймаут для проверки соединения при открытии
	PingTimeout time.Duration
	// WALMode - использовать ли WAL режим
	WALMode bool
	// ForeignKeys - включить ли проверку внешних ключей
	ForeignKeys bool
	// BusyTimeout - таймаут ожидания при SQLITE_BUSY
	BusyTimeout time.Duration
}

// DefaultDBOptions возвращает настройки по умолчанию для постраничного чтения.
func DefaultDBOptions() DBOptions {
	return DBOptions{
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 10 * time.Minute,
		MaxOpenConns:    4, // SQLite: один писатель, несколько читателей
		MaxIdleConns:    1,
		PingTimeout:     5 * time.Second,
		WALMode:         true,
		ForeignKeys:     true,
		BusyTimeout:     5 * time.Second,
	}
}

// memoryOptions подгоняет настройки под in-memory БД:
// каждое соединение видит свою базу, поэтому пул ограничен одним соединением.
func memoryOptions(opts DBOptions) DBOptions {
	opts.WALMode = false // WAL не поддерживается для in-memory БД
	opts.MaxOpenConns = 1
	opts.MaxIdleConns = 1
	opts.ConnMaxLifetime = 0
	opts.ConnMaxIdleTime = 0
	return opts
}

// Open открывает SQLite по строке подключения провайдера.
// Строка может быть путём к файлу, ":memory:" или готовой DSN ("file:...", "...?param=").
// Готовые DSN открываются как есть, без PRAGMA настроек. Режим только для чтения
// задается URI: "file:data/reports.db?mode=ro" (драйвер учитывает mode только в file: URI).
func Open(ctx context.Context, connString string) (*sql.DB, error) {
	switch {
	case connString == MemoryPath:
		return NewInMemoryDB(ctx)
	case strings.HasPrefix(connString, "file:") || strings.Contains(connString, "?"):
		return NewDBFromDSN(ctx, connString)
	default:
		return NewDB(ctx, connString)
	}
}

// NewDB создает подключение к SQLite базе данных с настройками по умолчанию.
func NewDB(ctx context.Context, dbPath string) (*sql.DB, error) {
	return NewDBWithOptions(ctx, dbPath, DefaultDBOptions())
}

// NewDBFromDSN создает подключение к SQLite используя готовую DSN строку.
func NewDBFromDSN(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, err
	}

	opts := DefaultDBOptions()
	if strings.Contains(dsn, "mode=memory") {
		opts = memoryOptions(opts)
	}
	applyPoolSettings(db, opts)

	// Ошибки драйвера возвращаются без обёртки: вызывающий код сравнивает их как есть
	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// NewDBWithOptions создает новое подключение к SQLite с заданными параметрами.
func NewDBWithOptions(ctx context.Context, dbPath string, opts DBOptions) (*sql.DB, error) {
	if dbPath != MemoryPath {
		// Создаем директорию для БД если её нет
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open(DriverName, buildDSN(dbPath, opts))
	if err != nil {
		return nil, err
	}
	applyPoolSettings(db, opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := applyPragmaSettings(ctx, db, opts); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply PRAGMA settings: %w", err)
	}

	return db, nil
}

// NewInMemoryDB создает in-memory SQLite базу данных.
func NewInMemoryDB(ctx context.Context) (*sql.DB, error) {
	return NewDBWithOptions(ctx, MemoryPath, memoryOptions(DefaultDBOptions()))
}

// Version возвращает версию SQLite движка, например "3.45.1".
func Version(ctx context.Context, db *sql.DB) (string, error) {
	var version string
	if err := db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		return "", err
	}
	return version, nil
}

func applyPoolSettings(db *sql.DB, opts DBOptions) {
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
}

// buildDSN строит DSN строку для SQLite с минимальными параметрами.
// Остальные настройки применяются через PRAGMA после открытия.
func buildDSN(dbPath string, opts DBOptions) string {
	if opts.BusyTimeout > 0 {
		return fmt.Sprintf("%s?_busy_timeout=%d", dbPath, int(opts.BusyTimeout.Milliseconds()))
	}
	return dbPath
}

// applyPragmaSettings применяет PRAGMA настройки к открытому соединению.
func applyPragmaSettings(ctx context.Context, db *sql.DB, opts DBOptions) error {
	pragmas := make([]string, 0, 4)

	if opts.ForeignKeys {
		pragmas = append(pragmas, "PRAGMA foreign_keys = ON")
	}
	if opts.WALMode {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	pragmas = append(pragmas, "PRAGMA synchronous = NORMAL")
	if opts.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("PRAGMA busy_timeout = %d", int(opts.BusyTimeout.Milliseconds())))
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}
