package connection

import (
	"context"
	"fmt"
	"math/big"

	"github.com/marcboeker/go-duckdb"
)

// openDuckDB serves the local lakehouse backend. Views over parquet, delta or
// iceberg files come either from the database at path or from init_sql, which
// runs once after connecting.
func openDuckDB(ctx context.Context, cfg Config) (Conn, error) {
	c, err := openSQL(ctx, "duckdb", cfg.GetDefault("path", ":memory:"))
	if err != nil {
		return nil, err
	}
	if initSQL := cfg.Get("init_sql"); initSQL != "" {
		if _, err := c.db.ExecContext(ctx, initSQL); err != nil {
			c.Close()
			return nil, fmt.Errorf("running init_sql: %w", err)
		}
	}
	return c, nil
}

// decimalValue flattens a DuckDB DECIMAL: int64 when it has no scale and fits,
// float64 otherwise.
func decimalValue(d duckdb.Decimal) any {
	if d.Value == nil {
		return nil
	}
	if d.Scale == 0 {
		return bigIntValue(d.Value)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Scale)), nil)
	f, _ := new(big.Rat).SetFrac(d.Value, scale).Float64()
	return f
}

// bigIntValue flattens HUGEINT and UHUGEINT results.
func bigIntValue(n *big.Int) any {
	if n == nil {
		return nil
	}
	if n.IsInt64() {
		return n.Int64()
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}
