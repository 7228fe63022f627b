package connection

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"strings"

	"github.com/marcboeker/go-duckdb"

	"github.com/liyacrafter/viewcheck/internal/dataset"
)

// sqlConn serves every database/sql backend. Results are shaped by enumerating
// the cursor's column descriptions and scanning each row into interface values.
type sqlConn struct {
	db *sql.DB
}

func openSQL(ctx context.Context, driver, dsn string) (*sqlConn, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", driver, err)
	}
	return connectDB(ctx, db, driver)
}

func connectDB(ctx context.Context, db *sql.DB, driver string) (*sqlConn, error) {
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s: %w", driver, err)
	}
	return &sqlConn{db: db}, nil
}

func (c *sqlConn) Query(ctx context.Context, sqlStr string) (*dataset.Dataset, error) {
	rows, err := c.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("getting columns: %w", err)
	}
	cols = dataset.UniqueNames(cols)
	dbTypes := make([]string, len(cols))
	if cts, err := rows.ColumnTypes(); err == nil {
		for i, ct := range cts {
			if i < len(dbTypes) {
				dbTypes[i] = ct.DatabaseTypeName()
			}
		}
	}

	var records [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		for i := range vals {
			vals[i] = coerceValue(vals[i], dbTypes[i])
		}
		records = append(records, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return dataset.FromRecords(cols, records)
}

func (c *sqlConn) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// numericTypeNames are database type names whose values some drivers hand back as text.
var numericTypeNames = map[string]bool{
	"NUMBER": true, "NUMERIC": true, "DECIMAL": true, "FIXED": true,
	"REAL": true, "FLOAT": true, "DOUBLE": true, "DOUBLE PRECISION": true,
	"INT": true, "INTEGER": true, "BIGINT": true, "SMALLINT": true, "TINYINT": true, "HUGEINT": true,
	"MONEY": true, "SMALLMONEY": true, "BINARY_FLOAT": true, "BINARY_DOUBLE": true,
	"FLOAT4": true, "FLOAT8": true, "INT2": true, "INT4": true, "INT8": true,
}

// coerceValue turns driver byte slices into strings, numeric text into numbers
// when the column is declared numeric, and driver decimal and big integer types
// into int64 or float64.
func coerceValue(v any, dbType string) any {
	var s string
	switch t := v.(type) {
	case []byte:
		s = string(t)
	case string:
		s = t
	case duckdb.Decimal:
		return decimalValue(t)
	case *big.Int:
		return bigIntValue(t)
	default:
		return v
	}
	if isNumericType(dbType) {
		if n, err := dataset.ParseNumber(s); err == nil {
			return n
		}
	}
	return s
}

func isNumericType(dbType string) bool {
	t := strings.ToUpper(strings.TrimSpace(dbType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return numericTypeNames[t]
}
