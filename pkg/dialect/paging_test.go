package dialect

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitSQL(t *testing.T) {
	const sql = "select * from orders"
	for _, size := range []int{1, 7, 20} {
		for _, num := range []int{1, 2, 13} {
			got := LimitSQL(sql, size, num)
			want := sql + " limit " + strconv.Itoa((num-1)*size) + "," + strconv.Itoa(size)
			assert.Equal(t, want, got)
		}
	}
}

func TestSqliteSQL(t *testing.T) {
	const sql = "select * from orders"
	for _, size := range []int{1, 7, 20} {
		for _, num := range []int{1, 2, 13} {
			got := SqliteSQL(sql, size, num)
			want := sql + " limit " + strconv.Itoa(size) + " offset " + strconv.Itoa((num-1)*size)
			assert.Equal(t, want, got)
		}
	}
}

func TestRowNumSQL(t *testing.T) {
	got := RowNumSQL("select * from orders", 10, 2)

	assert.Contains(t, got, "rownum < 21")
	assert.Contains(t, got, "r__ >= 11")
	assert.Contains(t, got, "( select * from orders ) A")
	assert.True(t, strings.HasPrefix(got, "SELECT * FROM "))

	first := RowNumSQL("select 1 from dual", 25, 1)
	assert.Contains(t, first, "rownum < 26")
	assert.Contains(t, first, "r__ >= 1")
}

func TestOffsetFetchSQL(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantErr bool
	}{
		{"single space", "select * from t order by id", false},
		{"upper case", "SELECT * FROM t ORDER BY id", false},
		{"mixed case", "select * from t Order By id", false},
		{"extra spaces", "select * from t order    by id", false},
		{"newline", "select * from t order\nby id", false},
		{"tabs and newlines", "select * from t\norder\t\r\n  by id desc", false},
		{"no order by", "select * from t", true},
		{"order without by", "select * from t order id", true},
		{"orderby joined", "select * from t orderby id", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OffsetFetchSQL(tt.sql, 10, 3)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnsupportedPagination)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.sql+" OFFSET 20 ROWS FETCH NEXT 10 ROWS ONLY", got)
		})
	}
}

func TestRewrite(t *testing.T) {
	const sql = "select id from t order by id"
	tests := []struct {
		strategy PagingStrategy
		expected string
	}{
		{RowNumOracle, RowNumSQL(sql, 5, 3)},
		{OffsetFetch, sql + " OFFSET 10 ROWS FETCH NEXT 5 ROWS ONLY"},
		{Limit, sql + " limit 10,5"},
		{Sqlite, sql + " limit 5 offset 10"},
	}

	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			got, err := Rewrite(tt.strategy, sql, 5, 3)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRewrite_Unsupported(t *testing.T) {
	_, err := Rewrite(None, "select 1", 10, 1)
	assert.ErrorIs(t, err, ErrUnsupportedPagination)

	_, err = Rewrite(PagingStrategy(42), "select 1", 10, 1)
	assert.ErrorIs(t, err, ErrUnsupportedPagination)

	_, err = Rewrite(OffsetFetch, "select 1", 10, 1)
	assert.ErrorIs(t, err, ErrUnsupportedPagination)
}

func TestRewrite_InvalidPage(t *testing.T) {
	for _, p := range [][2]int{{0, 1}, {10, 0}, {-1, 1}, {10, -3}} {
		t.Run(fmt.Sprintf("size=%d,num=%d", p[0], p[1]), func(t *testing.T) {
			_, err := Rewrite(Sqlite, "select 1", p[0], p[1])
			assert.ErrorIs(t, err, ErrInvalidPage)
		})
	}
}

func TestPagingStrategy_String(t *testing.T) {
	assert.Equal(t, "None", None.String())
	assert.Equal(t, "RowNumOracle", RowNumOracle.String())
	assert.Equal(t, "OffsetFetch", OffsetFetch.String())
	assert.Equal(t, "Limit", Limit.String())
	assert.Equal(t, "Sqlite", Sqlite.String())
	assert.Equal(t, "None", PagingStrategy(99).String())
}
