package dialect

import (
	"fmt"
	"regexp"
	"strconv"
)

var orderByRe = regexp.MustCompile(`(?i)order\s+by`)

// HasOrderBy reports whether sql contains "order" and "by" separated only by whitespace.
func HasOrderBy(sql string) bool {
	return orderByRe.MatchString(sql)
}

// ValidatePage checks that pageSize and pageNum are both at least 1.
func ValidatePage(pageSize, pageNum int) error {
	if pageSize < 1 {
		return fmt.Errorf("%w: page size %d, must be >= 1", ErrInvalidPage, pageSize)
	}
	if pageNum < 1 {
		return fmt.Errorf("%w: page number %d, must be >= 1", ErrInvalidPage, pageNum)
	}
	return nil
}

// Rewrite applies strategy to sql and returns a query for page pageNum (1-based)
// of pageSize rows. None, and any unknown strategy, fail with ErrUnsupportedPagination.
func Rewrite(strategy PagingStrategy, sql string, pageSize, pageNum int) (string, error) {
	if err := ValidatePage(pageSize, pageNum); err != nil {
		return "", err
	}
	switch strategy {
	case RowNumOracle:
		return RowNumSQL(sql, pageSize, pageNum), nil
	case OffsetFetch:
		return OffsetFetchSQL(sql, pageSize, pageNum)
	case Limit:
		return LimitSQL(sql, pageSize, pageNum), nil
	case Sqlite:
		return SqliteSQL(sql, pageSize, pageNum), nil
	case None:
		return "", fmt.Errorf("%w: dialect has no paging strategy", ErrUnsupportedPagination)
	default:
		return "", fmt.Errorf("%w: unknown paging strategy %d", ErrUnsupportedPagination, int(strategy))
	}
}

func offset(pageSize, pageNum int) int {
	return (pageNum - 1) * pageSize
}

// RowNumSQL wraps sql in two subselects numbering rows with ROWNUM and keeps rows
// (pageNum-1)*pageSize+1 through pageNum*pageSize.
func RowNumSQL(sql string, pageSize, pageNum int) string {
	upper := pageSize*pageNum + 1
	lower := offset(pageSize, pageNum) + 1

	return "SELECT * FROM " +
		" (" +
		" SELECT A.*, rownum r__ " +
		" FROM " +
		" ( " +
		sql +
		" ) A " +
		" WHERE rownum < " + strconv.Itoa(upper) + " " +
		" ) B " +
		" WHERE r__ >= " + strconv.Itoa(lower)
}

// OffsetFetchSQL appends an OFFSET/FETCH clause. Engines reject OFFSET without an
// explicit ordering, so sql must contain an "order by" clause.
func OffsetFetchSQL(sql string, pageSize, pageNum int) (string, error) {
	if !HasOrderBy(sql) {
		return "", fmt.Errorf(`%w: offset/fetch paging requires an "order by" clause`, ErrUnsupportedPagination)
	}
	return fmt.Sprintf("%s OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", sql, offset(pageSize, pageNum), pageSize), nil
}

// LimitSQL appends the MySQL form "limit offset,count".
func LimitSQL(sql string, pageSize, pageNum int) string {
	return fmt.Sprintf("%s limit %d,%d", sql, offset(pageSize, pageNum), pageSize)
}

// SqliteSQL appends "limit count offset offset".
func SqliteSQL(sql string, pageSize, pageNum int) string {
	return fmt.Sprintf("%s limit %d offset %d", sql, pageSize, offset(pageSize, pageNum))
}
