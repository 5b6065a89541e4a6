package pg

import (
	"fmt"
	"net/url"
	"strings"
)

// IsURL сообщает, записана ли строка подключения в URL-форме (postgres://...).
// Строки вида "host=... user=..." pgx понимает сам, их не разбираем.
func IsURL(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// WithApplicationName подставляет application_name в URL-строку подключения,
// если он ещё не задан. Остальные части URL не меняются: в частности, sslmode
// не добавляется, и pgx применяет своё значение по умолчанию (prefer).
// Строки в форме key=value возвращаются без изменений.
func WithApplicationName(dsn, name string) (string, error) {
	if name == "" || !IsURL(dsn) {
		return dsn, nil
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid DSN format: %w", err)
	}

	query := u.Query()
	if query.Get("application_name") != "" {
		return dsn, nil
	}
	query.Set("application_name", name)
	u.RawQuery = query.Encode()

	return u.String(), nil
}
