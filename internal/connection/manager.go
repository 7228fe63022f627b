package connection

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/liyacrafter/viewcheck/internal/dataset"
)

// Conn is an open session to a backend.
type Conn interface {
	Query(ctx context.Context, sql string) (*dataset.Dataset, error)
	Close() error
}

type opener func(ctx context.Context, cfg Config) (Conn, error)

var openers = map[Backend]opener{
	RelationalSQL:   openSQLServer,
	CloudWarehouse:  openSnowflake,
	LakehouseEngine: openDatabricks,
	OracleRDBMS:     openOracle,
	Lakehouse:       openDuckDB,
	Postgres:        openPostgres,
}

// Manager owns one connection to one backend. It connects lazily on the first
// query and is meant for a single caller; use one Manager per concurrent fetch.
type Manager struct {
	backend Backend
	cfg     Config
	logger  *slog.Logger
	open    opener
	conn    Conn
}

// NewManager validates cfg for the backend tag. It fails with a *ConfigurationError
// when the tag is unknown or a required key is missing. No connection is opened.
func NewManager(tag string, cfg Config, logger *slog.Logger) (*Manager, error) {
	b, err := ParseBackend(tag)
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(b); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		backend: b,
		cfg:     cfg.Clone(),
		logger:  logger.With("backend", string(b)),
		open:    openers[b],
	}, nil
}

// Backend returns the resolved backend tag.
func (m *Manager) Backend() Backend {
	return m.backend
}

// Connected reports whether a session is open.
func (m *Manager) Connected() bool {
	return m.conn != nil
}

// Connect opens the session if it is not already open.
func (m *Manager) Connect(ctx context.Context) error {
	if m.conn != nil {
		return nil
	}
	start := time.Now()
	conn, err := m.open(ctx, m.cfg)
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			return err
		}
		m.logger.Error("connect failed", "error", err)
		return &QueryError{Backend: m.backend, Err: err}
	}
	m.conn = conn
	m.logger.Info("connected", "elapsed", time.Since(start))
	return nil
}

// Execute runs sql and returns its result set, connecting first if needed.
// Driver failures are returned as *QueryError.
func (m *Manager) Execute(ctx context.Context, sql string) (*dataset.Dataset, error) {
	if err := m.Connect(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	ds, err := m.conn.Query(ctx, sql)
	if err != nil {
		m.logger.Error("query failed", "sql", sql, "error", err)
		return nil, &QueryError{Backend: m.backend, SQL: sql, Err: err}
	}
	m.logger.Debug("query executed", "sql", sql, "rows", ds.Len(), "elapsed", time.Since(start))
	return ds, nil
}

// Close releases the session. It is safe to call on a closed or never-opened manager.
func (m *Manager) Close() error {
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	m.logger.Debug("connection closed")
	return err
}
