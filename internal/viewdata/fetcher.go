// Package viewdata builds and runs SELECT queries against named semantic views.
package viewdata

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/liyacrafter/viewcheck/internal/connection"
	"github.com/liyacrafter/viewcheck/internal/dataset"
	"github.com/liyacrafter/viewcheck/internal/dialect"
)

// Querier runs SQL and returns its result set. *connection.Manager satisfies it.
type Querier interface {
	Execute(ctx context.Context, sql string) (*dataset.Dataset, error)
}

// Query describes one fetch from a view. Filters and OrderBy are raw SQL
// fragments passed through as given. Limit <= 0 means no limit.
type Query struct {
	View    string
	Columns []string
	Filters string
	OrderBy string
	Limit   int
}

// Fetcher reads semantic view data through a Querier it borrows from its caller.
type Fetcher struct {
	q       Querier
	dialect dialect.Dialect
	logger  *slog.Logger
}

// New creates a fetcher for a backend, choosing the SQL dialect from the backend tag.
func New(q Querier, backend connection.Backend, logger *slog.Logger) *Fetcher {
	return NewWithDialect(q, DialectFor(backend), logger)
}

// FromManager creates a fetcher bound to m.
func FromManager(m *connection.Manager, logger *slog.Logger) *Fetcher {
	return New(m, m.Backend(), logger)
}

// NewWithDialect creates a fetcher with an explicit dialect.
func NewWithDialect(q Querier, d dialect.Dialect, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fetcher{q: q, dialect: d, logger: logger}
}

// DialectFor returns the dialect used for backend b.
func DialectFor(b connection.Backend) dialect.Dialect {
	switch b {
	case connection.OracleRDBMS:
		return dialect.Oracle{}
	case connection.RelationalSQL:
		return dialect.SQLServer{}
	default:
		return dialect.Standard{}
	}
}

// Dialect returns the fetcher's dialect.
func (f *Fetcher) Dialect() dialect.Dialect {
	return f.dialect
}

// BuildSelect renders SELECT <columns|*> FROM <view> [WHERE] [ORDER BY] with the
// dialect's row-limit syntax.
func (f *Fetcher) BuildSelect(q Query) string {
	cols := "*"
	if len(q.Columns) > 0 {
		cols = strings.Join(q.Columns, ", ")
	}
	sql := fmt.Sprintf("SELECT %s FROM %s", cols, q.View)
	if q.Filters != "" {
		sql += " WHERE " + q.Filters
	}
	if q.OrderBy != "" {
		sql += " ORDER BY " + q.OrderBy
	}
	if q.Limit > 0 {
		sql = f.dialect.RenderLimit(sql, q.Limit)
	}
	return sql
}

// FetchViewData returns the rows selected by q.
func (f *Fetcher) FetchViewData(ctx context.Context, q Query) (*dataset.Dataset, error) {
	if q.View == "" {
		return nil, fmt.Errorf("view name is required")
	}
	sql := f.BuildSelect(q)
	f.logger.Debug("fetching view data", "view", q.View, "sql", sql)
	ds, err := f.q.Execute(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", q.View, err)
	}
	return ds, nil
}

// FetchRowCount returns COUNT(1) over the view, optionally filtered.
func (f *Fetcher) FetchRowCount(ctx context.Context, view, filters string) (int64, error) {
	sql := fmt.Sprintf("SELECT COUNT(1) AS ROW_COUNT FROM %s", view)
	if filters != "" {
		sql += " WHERE " + filters
	}
	f.logger.Debug("counting view rows", "view", view, "sql", sql)
	ds, err := f.q.Execute(ctx, sql)
	if err != nil {
		return 0, fmt.Errorf("counting rows in %s: %w", view, err)
	}
	if ds.Len() == 0 {
		return 0, fmt.Errorf("counting rows in %s: empty result", view)
	}
	col := "ROW_COUNT"
	for _, c := range ds.Columns() {
		if strings.EqualFold(c, "ROW_COUNT") {
			col = c
			break
		}
	}
	n, err := dataset.AsInt64(ds.Value(0, col))
	if err != nil {
		return 0, fmt.Errorf("counting rows in %s: %w", view, err)
	}
	return n, nil
}

// FetchDistinctValues returns the distinct values of column in the view.
func (f *Fetcher) FetchDistinctValues(ctx context.Context, view, column, filters string, limit int) (*dataset.Dataset, error) {
	sql := fmt.Sprintf("SELECT DISTINCT %s FROM %s", column, view)
	if filters != "" {
		sql += " WHERE " + filters
	}
	if limit > 0 {
		sql = f.dialect.RenderLimit(sql, limit)
	}
	f.logger.Debug("fetching distinct values", "view", view, "column", column, "sql", sql)
	ds, err := f.q.Execute(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("fetching distinct %s from %s: %w", column, view, err)
	}
	return ds, nil
}
