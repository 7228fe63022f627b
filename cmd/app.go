package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/liyacrafter/viewcheck/internal/config"
	"github.com/liyacrafter/viewcheck/internal/connection"
	"github.com/liyacrafter/viewcheck/internal/dataset"
	"github.com/liyacrafter/viewcheck/internal/logging"
	"github.com/liyacrafter/viewcheck/internal/viewdata"
)

// app holds what every data command needs: config, logger and connections.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	logs   io.Closer
	pool   *connection.Pool
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadContext(cmd.Context(), cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Logging.Level
	if cmd.Flags().Changed("log-level") {
		level = logLevel
	}
	logger, logs, err := logging.Setup(logging.Options{
		Level:         level,
		Directory:     cfg.Logging.Directory,
		RetentionDays: cfg.Logging.RetentionDays,
		Console:       os.Stderr,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		logs:   logs,
		pool:   connection.NewPool(cfg.Specs(), logger),
	}, nil
}

func (a *app) fetcher(name string) (*viewdata.Fetcher, error) {
	m, err := a.pool.Get(name)
	if err != nil {
		return nil, err
	}
	return viewdata.FromManager(m, a.logger), nil
}

func (a *app) Close() {
	if err := a.pool.Close(); err != nil {
		a.logger.Warn("closing connections", "error", err)
	}
	_ = a.logs.Close()
}

// loadExpected reads a CSV of expected rows, optionally cleaned.
func loadExpected(path string, normalize, nulls bool) (*dataset.Dataset, error) {
	d, err := dataset.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	if normalize {
		d = dataset.NormalizeColumnNames(d)
	}
	if nulls {
		d = dataset.StandardizeNulls(d)
	}
	return d, nil
}
