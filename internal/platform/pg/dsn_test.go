package pg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	t.Parallel()

	assert.True(t, IsURL("postgres://user@localhost/db"))
	assert.True(t, IsURL("postgresql://user@localhost/db"))
	assert.False(t, IsURL("host=localhost user=app dbname=reports"))
	assert.False(t, IsURL("mysql://user@localhost/db"))
}

func TestWithApplicationName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		dsn      string
		appName  string
		expected string
	}{
		{
			name:     "added_to_url",
			dsn:      "postgres://user@localhost:5432/db?sslmode=disable",
			appName:  "sqlpager",
			expected: "postgres://user@localhost:5432/db?application_name=sqlpager&sslmode=disable",
		},
		{
			name:     "sslmode_not_added",
			dsn:      "postgres://app:pw@db.internal/shop",
			appName:  "sqlpager",
			expected: "postgres://app:pw@db.internal/shop?application_name=sqlpager",
		},
		{
			name:     "other_params_kept",
			dsn:      "postgresql://app@db.internal:6432/shop?sslmode=verify-full&search_path=sales",
			appName:  "sqlpager",
			expected: "postgresql://app@db.internal:6432/shop?application_name=sqlpager&search_path=sales&sslmode=verify-full",
		},
		{
			name:     "existing_name_kept",
			dsn:      "postgres://user@localhost:5432/db?application_name=reports",
			appName:  "sqlpager",
			expected: "postgres://user@localhost:5432/db?application_name=reports",
		},
		{
			name:     "keyword_form_untouched",
			dsn:      "host=localhost user=app dbname=db",
			appName:  "sqlpager",
			expected: "host=localhost user=app dbname=db",
		},
		{
			name:     "empty_name",
			dsn:      "postgres://user@localhost/db",
			expected: "postgres://user@localhost/db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := WithApplicationName(tt.dsn, tt.appName)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWithApplicationName_InvalidPort(t *testing.T) {
	t.Parallel()

	_, err := WithApplicationName("postgres://user@localhost:abc/db", "sqlpager")
	assert.Error(t, err)
}
