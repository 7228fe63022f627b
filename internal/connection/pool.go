package connection

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
)

// ErrUnknownConnection is returned when a named connection is not configured.
var ErrUnknownConnection = errors.New("unknown connection")

// Spec names a backend and its parameters.
type Spec struct {
	Backend string
	Params  Config
}

// Pool hands out one lazily created Manager per named connection.
// Managers are not safe for concurrent use; the pool itself is.
type Pool struct {
	specs  map[string]Spec
	logger *slog.Logger

	mu       sync.Mutex
	managers map[string]*Manager
}

// NewPool creates a pool over specs. A nil logger discards output.
func NewPool(specs map[string]Spec, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cp := make(map[string]Spec, len(specs))
	for name, s := range specs {
		cp[name] = Spec{Backend: s.Backend, Params: s.Params.Clone()}
	}
	return &Pool{specs: cp, logger: logger, managers: make(map[string]*Manager)}
}

// Names returns the configured connection names, sorted.
func (p *Pool) Names() []string {
	names := make([]string, 0, len(p.specs))
	for n := range p.specs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get returns the manager for name, creating it on first use. The connection
// itself is opened lazily by the manager.
func (p *Pool) Get(name string) (*Manager, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if m, ok := p.managers[name]; ok {
		return m, nil
	}
	spec, ok := p.specs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownConnection, name)
	}
	m, err := NewManager(spec.Backend, spec.Params, p.logger.With("connection", name))
	if err != nil {
		return nil, fmt.Errorf("connection %q: %w", name, err)
	}
	p.managers[name] = m
	return m, nil
}

// Close closes every manager the pool created. It returns the first error.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var first error
	for name, m := range p.managers {
		if err := m.Close(); err != nil && first == nil {
			first = fmt.Errorf("closing %q: %w", name, err)
		}
	}
	p.managers = make(map[string]*Manager)
	return first
}
