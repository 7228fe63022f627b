package connection

import (
	"context"

	go_ora "github.com/sijms/go-ora/v2"
)

func openOracle(ctx context.Context, cfg Config) (Conn, error) {
	port, err := cfg.Int(OracleRDBMS, "port", 1521)
	if err != nil {
		return nil, err
	}
	url := go_ora.BuildUrl(cfg.Get("host"), port, cfg.Get("service_name"),
		cfg.Get("user"), cfg.Get("password"), nil)
	return openSQL(ctx, "oracle", url)
}
