package suite

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/liyacrafter/viewcheck/internal/compare"
	"github.com/liyacrafter/viewcheck/internal/connection"
	"github.com/liyacrafter/viewcheck/internal/dataset"
	"github.com/liyacrafter/viewcheck/internal/validation"
	"github.com/liyacrafter/viewcheck/internal/viewdata"
)

// Resolver maps a connection name to something that runs SQL on it.
type Resolver interface {
	Resolve(name string) (viewdata.Querier, connection.Backend, error)
}

// PoolResolver resolves names through a connection pool.
type PoolResolver struct {
	Pool *connection.Pool
}

func (r PoolResolver) Resolve(name string) (viewdata.Querier, connection.Backend, error) {
	m, err := r.Pool.Get(name)
	if err != nil {
		return nil, "", err
	}
	return m, m.Backend(), nil
}

// CheckResult is the outcome of one check. Error is set when the check could
// not run; Result is set when it did.
type CheckResult struct {
	Name       string          `json:"name"`
	Type       CheckType       `json:"type"`
	Connection string          `json:"connection"`
	View       string          `json:"view"`
	Status     string          `json:"status"`
	Result     *compare.Result `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
	Duration   time.Duration   `json:"duration_ns"`
}

// Message returns the comparison message or the error.
func (c CheckResult) Message() string {
	if c.Error != "" {
		return c.Error
	}
	if c.Result != nil {
		return c.Result.Message()
	}
	return ""
}

// RunResult is the outcome of a suite run.
type RunResult struct {
	Suite       string        `json:"suite"`
	Status      string        `json:"status"`
	Passed      bool          `json:"passed"`
	Checks      []CheckResult `json:"checks"`
	Marks       []Mark        `json:"marks"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
}

// Runner executes suites sequentially.
type Runner struct {
	Resolver Resolver
	Logger   *slog.Logger
	Callback func(CheckResult)
}

// Run executes every check in order. A check that fails to run is recorded as
// FAIL with its error and the run continues. Run returns an error only when
// ctx is cancelled, together with the checks completed so far.
func (r *Runner) Run(ctx context.Context, s *Suite) (*RunResult, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("suite", s.Name)
	status := NewStatus(logger)

	result := &RunResult{Suite: s.Name, StartedAt: time.Now()}
	for i, c := range s.Checks {
		if err := ctx.Err(); err != nil {
			result.CompletedAt = time.Now()
			result.Status = OverallStatus(result.Checks)
			return result, err
		}

		start := time.Now()
		cr := CheckResult{Name: c.Name, Type: c.Type, Connection: c.Connection, View: c.View}
		res, err := r.runCheck(ctx, s, c, logger)
		cr.Duration = time.Since(start)
		passed := false
		if err != nil {
			cr.Status = StatusFail
			cr.Error = err.Error()
			logger.Error("check errored", "check", c.Name, "error", err)
		} else {
			cr.Result = &res
			passed = res.Success()
			cr.Status = StatusFail
			if passed {
				cr.Status = StatusPass
			}
			logger.Info("check finished", "check", c.Name, "status", cr.Status, "elapsed", cr.Duration)
		}

		if i == len(s.Checks)-1 {
			result.Passed, result.Marks = status.MarkFinal(c.Name, passed, cr.Message())
		} else {
			status.Mark(c.Name, passed, cr.Message())
		}

		result.Checks = append(result.Checks, cr)
		if r.Callback != nil {
			r.Callback(cr)
		}
	}

	result.CompletedAt = time.Now()
	result.Status = OverallStatus(result.Checks)
	return result, nil
}

func (r *Runner) runCheck(ctx context.Context, s *Suite, c Check, logger *slog.Logger) (compare.Result, error) {
	q, backend, err := r.Resolver.Resolve(c.Connection)
	if err != nil {
		return compare.Result{}, err
	}
	v := validation.New(viewdata.New(q, backend, logger), logger)

	keyCheck := validation.KeyCheck{
		View:             c.View,
		Filters:          c.Filters,
		Limit:            c.Limit,
		KeyColumns:       c.KeyColumns,
		ValueColumns:     c.ValueColumns,
		NumericTolerance: c.NumericTolerance,
	}

	switch c.Type {
	case RowCount:
		expected, err := r.loadCSV(s, c, c.ExpectedCSV)
		if err != nil {
			return compare.Result{}, err
		}
		return v.ValidateRowCount(ctx, c.View, expected, c.Filters, c.Tolerance)

	case Schema:
		expected := dataset.Empty(c.ExpectedColumns...)
		if len(c.ExpectedColumns) == 0 {
			if expected, err = r.loadCSV(s, c, c.ExpectedCSV); err != nil {
				return compare.Result{}, err
			}
		}
		return v.ValidateSchema(ctx, c.View, expected, c.Filters, c.ignoreOrder())

	case Keys:
		expected, err := r.loadCSV(s, c, c.ExpectedCSV)
		if err != nil {
			return compare.Result{}, err
		}
		return v.ValidateDataByKeys(ctx, expected, keyCheck)

	case SourceCheck:
		src, err := r.loadSource(ctx, s, c)
		if err != nil {
			return compare.Result{}, err
		}
		return v.ValidateAgainstSource(ctx, src, keyCheck)
	}
	return compare.Result{}, fmt.Errorf("%w: %q", ErrUnknownCheckType, c.Type)
}

func (r *Runner) loadCSV(s *Suite, c Check, path string) (*dataset.Dataset, error) {
	d, err := dataset.LoadCSV(s.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("loading expected data: %w", err)
	}
	return c.prepare(d), nil
}

func (r *Runner) loadSource(ctx context.Context, s *Suite, c Check) (*dataset.Dataset, error) {
	if c.Source.CSV != "" {
		return r.loadCSV(s, c, c.Source.CSV)
	}
	q, _, err := r.Resolver.Resolve(c.Source.Connection)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	d, err := q.Execute(ctx, c.Source.Query)
	if err != nil {
		return nil, fmt.Errorf("querying source: %w", err)
	}
	return c.prepare(d), nil
}
