package dialect

import "errors"

var (
	// ErrUnsupportedPagination is returned when a connection's dialect has no paging
	// strategy or the query does not meet the strategy's preconditions.
	ErrUnsupportedPagination = errors.New("dialect: unsupported pagination")

	// ErrInvalidPage is returned when page size or page number is less than 1.
	ErrInvalidPage = errors.New("dialect: invalid page")
)

// PagingStrategy identifies the SQL rewrite used to fetch one page of results.
type PagingStrategy int

const (
	// None means pagination is not supported for the dialect.
	None PagingStrategy = iota
	// RowNumOracle wraps the query in ROWNUM subselects (Oracle before 12c).
	RowNumOracle
	// OffsetFetch appends OFFSET ... ROWS FETCH NEXT ... ROWS ONLY.
	OffsetFetch
	// Limit appends the MySQL two-argument "limit offset,count" form.
	Limit
	// Sqlite appends "limit count offset offset".
	Sqlite
)

// String returns the strategy name.
func (s PagingStrategy) String() string {
	switch s {
	case RowNumOracle:
		return "RowNumOracle"
	case OffsetFetch:
		return "OffsetFetch"
	case Limit:
		return "Limit"
	case Sqlite:
		return "Sqlite"
	default:
		return "None"
	}
}

// Capability describes how one connection string names parameters and pages results.
// Values are computed once per connection string and never mutated afterwards.
type Capability struct {
	// ParameterMarker is the token introducing a bound parameter, e.g. "@", ":" or "?".
	ParameterMarker string
	// NamedParameterSupport is false for dialects that only accept positional markers.
	NamedParameterSupport bool
	// PagingStrategy selects the paging rewrite.
	PagingStrategy PagingStrategy
}

// ParameterName returns the placeholder for name: marker+name when named
// parameters are supported, the bare marker otherwise.
func (c Capability) ParameterName(name string) string {
	if c.NamedParameterSupport {
		return c.ParameterMarker + name
	}
	return c.ParameterMarker
}
