// Package dialect renders the SQL fragments that differ between backends.
package dialect

import (
	"fmt"
	"strings"
)

// Dialect renders backend-specific query syntax.
type Dialect interface {
	// Name identifies the dialect.
	Name() string

	// RenderLimit restricts query to at most n rows.
	RenderLimit(query string, n int) string
}

// Standard appends a trailing LIMIT clause.
type Standard struct{}

func (Standard) Name() string { return "standard" }

func (Standard) RenderLimit(query string, n int) string {
	return fmt.Sprintf("%s LIMIT %d", query, n)
}

// Oracle has no LIMIT keyword; the query is wrapped and filtered on ROWNUM.
type Oracle struct{}

func (Oracle) Name() string { return "oracle" }

func (Oracle) RenderLimit(query string, n int) string {
	return fmt.Sprintf("SELECT * FROM (%s) WHERE ROWNUM <= %d", query, n)
}

// SQLServer has no LIMIT keyword; TOP is injected after SELECT [DISTINCT].
// Queries that do not start with SELECT are wrapped in a derived table instead.
type SQLServer struct{}

func (SQLServer) Name() string { return "sqlserver" }

func (SQLServer) RenderLimit(query string, n int) string {
	top := fmt.Sprintf("TOP (%d) ", n)
	upper := strings.ToUpper(query)
	switch {
	case strings.HasPrefix(upper, "SELECT DISTINCT "):
		p := len("SELECT DISTINCT ")
		return query[:p] + top + query[p:]
	case strings.HasPrefix(upper, "SELECT "):
		p := len("SELECT ")
		return query[:p] + top + query[p:]
	}
	return fmt.Sprintf("SELECT %s* FROM (%s) AS limited", top, query)
}

var byName = map[string]Dialect{
	"standard":  Standard{},
	"oracle":    Oracle{},
	"sqlserver": SQLServer{},
}

// Get returns the dialect registered under name.
func Get(name string) (Dialect, bool) {
	d, ok := byName[strings.ToLower(name)]
	return d, ok
}
