package connection

import (
	"context"
	"database/sql"
	"fmt"

	dbsql "github.com/databricks/databricks-sql-go"
)

const defaultDatabricksPort = 443

func openDatabricks(ctx context.Context, cfg Config) (Conn, error) {
	port, err := cfg.Int(LakehouseEngine, "port", defaultDatabricksPort)
	if err != nil {
		return nil, err
	}
	connector, err := dbsql.NewConnector(
		dbsql.WithServerHostname(cfg.Get("server_hostname")),
		dbsql.WithPort(port),
		dbsql.WithHTTPPath(cfg.Get("http_path")),
		dbsql.WithAccessToken(cfg.Get("access_token")),
	)
	if err != nil {
		return nil, fmt.Errorf("creating databricks connector: %w", err)
	}
	return connectDB(ctx, sql.OpenDB(connector), "databricks")
}
