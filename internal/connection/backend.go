// Package connection opens a single connection to one of the supported data stores
// and runs SQL against it, returning results as datasets.
package connection

import (
	"sort"
	"strings"
)

// Backend identifies a kind of data store.
type Backend string

const (
	RelationalSQL   Backend = "relational_sql"   // Azure SQL / SQL Server
	CloudWarehouse  Backend = "cloud_warehouse"  // Snowflake
	LakehouseEngine Backend = "lakehouse_engine" // Databricks SQL warehouse
	OracleRDBMS     Backend = "oracle_rdbms"     // Oracle
	Lakehouse       Backend = "lakehouse"        // local lakehouse files via DuckDB
	Postgres        Backend = "postgres"         // PostgreSQL
)

var aliases = map[string]Backend{
	"azure_sql":  RelationalSQL,
	"sqlserver":  RelationalSQL,
	"snowflake":  CloudWarehouse,
	"databricks": LakehouseEngine,
	"oracle":     OracleRDBMS,
	"duckdb":     Lakehouse,
	"postgresql": Postgres,
}

// requiredKeys lists the config keys each backend cannot connect without.
var requiredKeys = map[Backend][]string{
	RelationalSQL:   {"connection_string"},
	CloudWarehouse:  {"account", "user", "password"},
	LakehouseEngine: {"server_hostname", "http_path", "access_token"},
	OracleRDBMS:     {"host", "port", "service_name", "user", "password"},
	Lakehouse:       nil,
	Postgres:        {"connection_string"},
}

// ParseBackend resolves a backend tag or one of its aliases, case-insensitively.
func ParseBackend(tag string) (Backend, error) {
	t := strings.ToLower(strings.TrimSpace(tag))
	if b, ok := aliases[t]; ok {
		return b, nil
	}
	if _, ok := requiredKeys[Backend(t)]; ok {
		return Backend(t), nil
	}
	return "", &ConfigurationError{Backend: tag, Err: ErrUnknownBackend}
}

// Backends returns every supported backend tag, sorted.
func Backends() []Backend {
	out := make([]Backend, 0, len(requiredKeys))
	for b := range requiredKeys {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RequiredKeys returns the config keys b needs.
func RequiredKeys(b Backend) []string {
	keys := requiredKeys[b]
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Aliases returns the alternative tags accepted for b, sorted.
func Aliases(b Backend) []string {
	var out []string
	for a, target := range aliases {
		if target == b {
			out = append(out, a)
		}
	}
	sort.Strings(out)
	return out
}
