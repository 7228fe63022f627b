package connection

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownBackend = errors.New("unsupported backend type")
	ErrMissingKey     = errors.New("missing required config key")
	ErrInvalidValue   = errors.New("invalid config value")
)

// ConfigurationError reports an unknown backend or unusable connection parameters.
type ConfigurationError struct {
	Backend string
	Key     string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s backend: %v %q", e.Backend, e.Err, e.Key)
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Backend)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// QueryError wraps a driver failure while connecting or executing SQL.
type QueryError struct {
	Backend Backend
	SQL     string // empty for connect failures
	Err     error
}

func (e *QueryError) Error() string {
	if e.SQL == "" {
		return fmt.Sprintf("connecting to %s: %v", e.Backend, e.Err)
	}
	return fmt.Sprintf("executing query on %s: %v", e.Backend, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
