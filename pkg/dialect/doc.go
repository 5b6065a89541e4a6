// Package dialect infers SQL dialect capabilities from connection metadata and
// rewrites queries into dialect-correct paginated form.
//
// # Capabilities
//
// A Capability records the parameter marker of a connection, whether the marker
// may carry a name, and the paging strategy of the engine. Infer computes it from
// provider metadata, except for SQLite providers whose behavior is known statically:
//
//	c, err := dialect.Infer(ctx, "mysql", dialect.DefaultParameterFormat, fetch)
//
// The paging strategy is chosen by product name and major version:
//
//	Product     | Major >= 12 | Strategy
//	------------|-------------|-------------
//	oracle      | yes         | OffsetFetch
//	oracle      | no          | RowNumOracle
//	sql server  | yes         | OffsetFetch
//	sql server  | no          | None
//	mysql       | any         | Limit
//	sqlite      | any         | Sqlite
//	other       | -           | None
//
// Version strings that do not parse count as major version 0.
//
// # Store
//
// Store caches one Capability per connection string for the lifetime of the
// process. It is safe for concurrent use and is meant to be created once and
// shared by reference:
//
//	store := dialect.NewStore()
//	c, cached, err := store.GetOrCompute(ctx, connString, compute)
//
// # Paging
//
// Rewrite dispatches on the strategy:
//
//	q, err := dialect.Rewrite(dialect.Sqlite, "select * from t", 10, 2)
//	// select * from t limit 10 offset 10
//
// OffsetFetch requires an "order by" clause and None always fails; both report
// ErrUnsupportedPagination.
package dialect
