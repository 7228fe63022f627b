package connection

import (
	"context"
	"fmt"
	"math/big"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liyacrafter/viewcheck/internal/dataset"
)

// pgConn executes through pgx, which yields decoded row values directly
// instead of scanning into cursor buffers.
type pgConn struct {
	pool *pgxpool.Pool
}

func openPostgres(ctx context.Context, cfg Config) (Conn, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.Get("connection_string"))
	if err != nil {
		return nil, &ConfigurationError{Backend: string(Postgres), Key: "connection_string", Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
	}
	pcfg.MaxConns = 1
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging PostgreSQL: %w", err)
	}
	return &pgConn{pool: pool}, nil
}

func (c *pgConn) Query(ctx context.Context, sql string) (*dataset.Dataset, error) {
	rows, err := c.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	descs := rows.FieldDescriptions()
	cols := make([]string, len(descs))
	for i, d := range descs {
		cols[i] = d.Name
	}
	cols = dataset.UniqueNames(cols)

	var records [][]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		for i := range vals {
			vals[i] = pgValue(vals[i])
		}
		records = append(records, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return dataset.FromRecords(cols, records)
}

func (c *pgConn) Close() error {
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
	return nil
}

// pgValue flattens pgx-specific value types into plain Go values.
func pgValue(v any) any {
	switch t := v.(type) {
	case pgtype.Numeric:
		if !t.Valid || t.NaN {
			return nil
		}
		if t.Exp >= 0 && t.Int != nil {
			i := new(big.Int).Set(t.Int)
			i.Mul(i, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(t.Exp)), nil))
			if i.IsInt64() {
				return i.Int64()
			}
		}
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return fmt.Sprintf("%x-%x-%x-%x-%x", t[0:4], t[4:6], t[6:8], t[8:10], t[10:16])
	case []byte:
		return string(t)
	}
	return v
}
