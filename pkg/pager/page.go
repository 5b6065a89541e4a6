package pager

import (
	"context"
	"database/sql"
	"time"

	"github.com/georgysavva/scany/v2/dbscan"
	"github.com/georgysavva/scany/v2/sqlscan"
)

// scanAPI tolerates result columns without a matching struct field: the Oracle
// ROWNUM rewrite adds an "r__" column to every row.
var scanAPI = mustScanAPI(dbscan.WithAllowUnknownColumns(true))

func mustScanAPI(opts ...dbscan.APIOption) *sqlscan.API {
	dbscanAPI, err := sqlscan.NewDBScanAPI(opts...)
	if err != nil {
		panic(err)
	}
	api, err := sqlscan.NewAPI(dbscanAPI)
	if err != nil {
		panic(err)
	}
	return api
}

// QueryOption adjusts how a page query is executed. Options are passed among the
// query arguments and removed before the arguments reach the driver:
//
//	rows, err := pager.Page[Order](conn, query, 20, 2, customerID, pager.WithTimeout(5*time.Second))
type QueryOption interface {
	apply(*queryOptions)
}

type queryOptions struct {
	tx      *sql.Tx
	timeout time.Duration
}

type optionFunc func(*queryOptions)

func (f optionFunc) apply(o *queryOptions) { f(o) }

// WithTx runs the page query inside tx.
func WithTx(tx *sql.Tx) QueryOption {
	return optionFunc(func(o *queryOptions) { o.tx = tx })
}

// WithTimeout bounds the page query with a timeout.
func WithTimeout(d time.Duration) QueryOption {
	return optionFunc(func(o *queryOptions) { o.timeout = d })
}

// splitArgs separates QueryOption values from driver arguments.
func splitArgs(args []any) (queryOptions, []any) {
	var opts queryOptions
	params := make([]any, 0, len(args))
	for _, arg := range args {
		if opt, ok := arg.(QueryOption); ok {
			opt.apply(&opts)
			continue
		}
		params = append(params, arg)
	}
	return opts, params
}

// Page is PageContext with context.Background().
func Page[T any](c *Conn, sql string, pageSize, pageNum int, args ...any) ([]T, error) {
	return PageContext[T](context.Background(), c, sql, pageSize, pageNum, args...)
}

// PageContext returns page pageNum (1-based) of sql, mapping each row into T.
// Structs are mapped by `db` tags; single-column queries may use scalar T.
// Rewrite errors wrap dialect.ErrUnsupportedPagination or dialect.ErrInvalidPage;
// driver errors are returned unchanged.
func PageContext[T any](ctx context.Context, c *Conn, sql string, pageSize, pageNum int, args ...any) ([]T, error) {
	var dst []T
	if err := c.page(ctx, &dst, sql, pageSize, pageNum, args); err != nil {
		return nil, err
	}
	return dst, nil
}

// PageMaps is PageMapsContext with context.Background().
func (c *Conn) PageMaps(sql string, pageSize, pageNum int, args ...any) ([]map[string]any, error) {
	return c.PageMapsContext(context.Background(), sql, pageSize, pageNum, args...)
}

// PageMapsContext returns page pageNum (1-based) of sql with each row as a column-name map.
func (c *Conn) PageMapsContext(ctx context.Context, sql string, pageSize, pageNum int, args ...any) ([]map[string]any, error) {
	var dst []map[string]any
	if err := c.page(ctx, &dst, sql, pageSize, pageNum, args); err != nil {
		return nil, err
	}
	return dst, nil
}

func (c *Conn) page(ctx context.Context, dst any, query string, pageSize, pageNum int, args []any) error {
	paged, err := c.PagingSQL(query, pageSize, pageNum)
	if err != nil {
		return err
	}

	opts, params := splitArgs(args)
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	var q sqlscan.Querier = c.db
	if opts.tx != nil {
		q = opts.tx
	}

	rows, err := q.QueryContext(ctx, paged, params...)
	if err != nil {
		return err
	}
	return scanAPI.ScanAll(dst, rows)
}
