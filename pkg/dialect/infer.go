package dialect

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// SchemaInfo is the data source information a provider reports for an open connection.
type SchemaInfo struct {
	// ParameterMarkerPattern is the provider's regular expression for a parameter
	// marker, e.g. "@[\p{L}_]*" or "?".
	ParameterMarkerPattern string
	// ParameterNameMaxLength is 0 when only positional parameters are supported.
	ParameterNameMaxLength int
	ProductName            string
	ProductVersion         string
}

// SchemaFunc fetches SchemaInfo for an open connection.
type SchemaFunc func(ctx context.Context) (SchemaInfo, error)

// IsSQLiteProvider reports whether providerID names a member of the SQLite family.
func IsSQLiteProvider(providerID string) bool {
	return strings.Contains(strings.ToLower(providerID), "sqlite")
}

// Infer computes the Capability of a connection.
//
// SQLite providers take a fast path that never calls fetch: the marker comes from
// defaultFormat, named parameters are assumed and the strategy is Sqlite. For every
// other provider fetch is called once and its error, if any, is returned unchanged.
func Infer(ctx context.Context, providerID, defaultFormat string, fetch SchemaFunc) (Capability, error) {
	if IsSQLiteProvider(providerID) {
		return Capability{
			ParameterMarker:       MarkerFromPattern(fmt.Sprintf(defaultFormat, "")),
			NamedParameterSupport: true,
			PagingStrategy:        Sqlite,
		}, nil
	}

	info, err := fetch(ctx)
	if err != nil {
		return Capability{}, err
	}
	return FromSchema(info), nil
}

// FromSchema derives a Capability from provider metadata.
func FromSchema(info SchemaInfo) Capability {
	return Capability{
		ParameterMarker:       MarkerFromPattern(info.ParameterMarkerPattern),
		NamedParameterSupport: info.ParameterNameMaxLength != 0,
		PagingStrategy:        InferPagingStrategy(info.ProductName, info.ProductVersion),
	}
}

// MarkerFromPattern strips leading spaces, '(' and '\' from a marker pattern and
// returns its first character, or "" if nothing is left.
func MarkerFromPattern(pattern string) string {
	pattern = strings.TrimLeft(pattern, ` (\`)
	if pattern == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(pattern)
	return string(r)
}

// MajorVersion returns the leading numeric segment of version, before the first '.'.
// Unparseable versions yield 0; this is intentional and never reported as an error.
func MajorVersion(version string) int {
	head, _, _ := strings.Cut(strings.TrimSpace(version), ".")
	major, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return major
}

// InferPagingStrategy maps a product name and version to a PagingStrategy.
// Product names are matched case-insensitively by substring; the first match wins.
func InferPagingStrategy(product, version string) PagingStrategy {
	product = strings.ToLower(product)
	major := MajorVersion(version)

	switch {
	case strings.Contains(product, "oracle"):
		if major >= 12 {
			return OffsetFetch
		}
		return RowNumOracle
	case strings.Contains(product, "sql server"):
		if major >= 12 {
			return OffsetFetch
		}
		return None
	case strings.Contains(product, "mysql"):
		return Limit
	case strings.Contains(product, "sqlite"):
		return Sqlite
	default:
		return None
	}
}
