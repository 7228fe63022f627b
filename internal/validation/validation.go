// Package validation composes the view fetcher and the comparator into the
// named checks run against semantic views.
package validation

import (
	"context"
	"io"
	"log/slog"

	"github.com/liyacrafter/viewcheck/internal/compare"
	"github.com/liyacrafter/viewcheck/internal/dataset"
	"github.com/liyacrafter/viewcheck/internal/viewdata"
)

// Fetcher reads view data. *viewdata.Fetcher satisfies it.
type Fetcher interface {
	FetchViewData(ctx context.Context, q viewdata.Query) (*dataset.Dataset, error)
}

// KeyCheck configures a keyed comparison of a view against expected data.
type KeyCheck struct {
	View             string
	Filters          string
	Limit            int
	KeyColumns       []string
	ValueColumns     []string
	NumericTolerance float64
}

func (k KeyCheck) options() compare.KeyOptions {
	return compare.KeyOptions{
		KeyColumns:       k.KeyColumns,
		ValueColumns:     k.ValueColumns,
		NumericTolerance: k.NumericTolerance,
	}
}

// Validator runs checks against semantic views. Fetch failures are returned as
// errors; comparison outcomes are returned unchanged as compare.Result.
type Validator struct {
	Fetcher  Fetcher
	Logger   *slog.Logger
	Callback func(view, checkType string, passed bool)
}

// New creates a validator. A nil logger discards output.
func New(f Fetcher, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Validator{Fetcher: f, Logger: logger}
}

// ValidateRowCount fetches the view and compares its row count with expected.
func (v *Validator) ValidateRowCount(ctx context.Context, view string, expected *dataset.Dataset, filters string, tolerance int) (compare.Result, error) {
	actual, err := v.Fetcher.FetchViewData(ctx, viewdata.Query{View: view, Filters: filters})
	if err != nil {
		return compare.Result{}, err
	}
	res := compare.CompareRowCount(actual, expected, tolerance)
	v.finish(view, "row_count", res)
	return res, nil
}

// ValidateSchema fetches a single row of the view and compares its columns with expected.
func (v *Validator) ValidateSchema(ctx context.Context, view string, expected *dataset.Dataset, filters string, ignoreOrder bool) (compare.Result, error) {
	actual, err := v.Fetcher.FetchViewData(ctx, viewdata.Query{View: view, Filters: filters, Limit: 1})
	if err != nil {
		return compare.Result{}, err
	}
	res := compare.CompareSchema(actual, expected, ignoreOrder)
	v.finish(view, "schema", res)
	return res, nil
}

// ValidateDataByKeys fetches the view and reconciles it with expected on the key columns.
func (v *Validator) ValidateDataByKeys(ctx context.Context, expected *dataset.Dataset, check KeyCheck) (compare.Result, error) {
	actual, err := v.Fetcher.FetchViewData(ctx, viewdata.Query{View: check.View, Filters: check.Filters, Limit: check.Limit})
	if err != nil {
		return compare.Result{}, err
	}
	res := compare.CompareByKeys(actual, expected, check.options())
	v.finish(check.View, "keys", res)
	return res, nil
}

// ValidateAgainstSource reconciles the view (actual) with data already
// extracted from the source system (expected). The source is assumed filtered.
func (v *Validator) ValidateAgainstSource(ctx context.Context, source *dataset.Dataset, check KeyCheck) (compare.Result, error) {
	actual, err := v.Fetcher.FetchViewData(ctx, viewdata.Query{View: check.View, Filters: check.Filters, Limit: check.Limit})
	if err != nil {
		return compare.Result{}, err
	}
	res := compare.CompareByKeys(actual, source, check.options())
	v.finish(check.View, "source", res)
	return res, nil
}

func (v *Validator) finish(view, checkType string, res compare.Result) {
	if v.Logger != nil {
		v.Logger.Info("validation finished", "view", view, "check", checkType, "success", res.Success(), "message", res.Message())
	}
	if v.Callback != nil {
		v.Callback(view, checkType, res.Success())
	}
}
