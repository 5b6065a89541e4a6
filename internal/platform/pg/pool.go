package pg

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// PoolOptions содержит настройки для пула подключений PostgreSQL.
type PoolOptions struct {
	// MaxConns - максимальное количество соединений в пуле
	MaxConns int32
	// MinConns - минимальное количество соединений в пуле
	MinConns int32
	// HealthCheckPeriod - интервал проверки здоровья соединений
	HealthCheckPeriod time.Duration
	// MaxConnLifetime - максимальное время жизни соединения
	MaxConnLifetime time.Duration
	// MaxConnIdleTime - максимальное время простоя соединения
	MaxConnIdleTime time.Duration
	// PingTimeout - таймаут для проверки соединения при создании пула
	PingTimeout time.Duration
}

// DefaultPoolOptions возвращает настройки по умолчанию для постраничного чтения.
// Запросы короткие, поэтому держим небольшой пул без прогретых соединений.
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxConns:          10,
		MinConns:          0,
		HealthCheckPeriod: time.Minute,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   5 * time.Minute,
		PingTimeout:       5 * time.Second,
	}
}

// NewPool создает новый пул подключений к PostgreSQL с настройками по умолчанию.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	return NewPoolWithOptions(ctx, dsn, DefaultPoolOptions())
}

// NewPoolWithOptions создает новый пул подключений к PostgreSQL с заданными параметрами.
func NewPoolWithOptions(ctx context.Context, dsn string, opts PoolOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = opts.MaxConns
	cfg.MinConns = opts.MinConns
	cfg.HealthCheckPeriod = opts.HealthCheckPeriod
	cfg.MaxConnLifetime = opts.MaxConnLifetime
	cfg.MaxConnIdleTime = opts.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// OpenDB открывает *sql.DB поверх пула pgx.
// Закрытие *sql.DB закрывает и пул.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	return OpenDBWithOptions(ctx, dsn, DefaultPoolOptions())
}

// OpenDBWithOptions открывает *sql.DB поверх пула pgx с заданными параметрами.
func OpenDBWithOptions(ctx context.Context, dsn string, opts PoolOptions) (*sql.DB, error) {
	pool, err := NewPoolWithOptions(ctx, dsn, opts)
	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(poolConnector{
		Connector: stdlib.GetPoolConnector(pool),
		pool:      pool,
	})
	// Простаивающими соединениями управляет пул pgx
	db.SetMaxIdleConns(0)

	return db, nil
}

// ServerVersion возвращает версию сервера, например "16.3 (Debian 16.3-1.pgdg120+1)".
func ServerVersion(ctx context.Context, db *sql.DB) (string, error) {
	var version string
	if err := db.QueryRowContext(ctx, "SHOW server_version").Scan(&version); err != nil {
		return "", err
	}
	return version, nil
}

// poolConnector привязывает время жизни пула к *sql.DB:
// sql.DB.Close вызывает Close у коннектора, реализующего io.Closer.
type poolConnector struct {
	driver.Connector
	pool *pgxpool.Pool
}

func (c poolConnector) Close() error {
	c.pool.Close()
	return nil
}
