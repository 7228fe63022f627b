package connection

import (
	"context"

	// SQL Server / Azure SQL driver
	_ "github.com/microsoft/go-mssqldb"
)

func openSQLServer(ctx context.Context, cfg Config) (Conn, error) {
	return openSQL(ctx, "sqlserver", cfg.Get("connection_string"))
}
