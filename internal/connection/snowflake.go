package connection

import (
	"context"
	"fmt"

	sf "github.com/snowflakedb/gosnowflake"
)

func openSnowflake(ctx context.Context, cfg Config) (Conn, error) {
	dsn, err := sf.DSN(&sf.Config{
		Account:   cfg.Get("account"),
		User:      cfg.Get("user"),
		Password:  cfg.Get("password"),
		Warehouse: cfg.Get("warehouse"),
		Database:  cfg.Get("database"),
		Schema:    cfg.Get("schema"),
		Role:      cfg.Get("role"),
	})
	if err != nil {
		return nil, &ConfigurationError{Backend: string(CloudWarehouse), Key: "account", Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
	}
	return openSQL(ctx, "snowflake", dsn)
}
