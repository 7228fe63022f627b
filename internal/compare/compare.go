package compare

import (
	"fmt"
	"math"
	"math/big"
	"sort"

	"github.com/liyacrafter/viewcheck/internal/dataset"
)

// CompareRowCount succeeds when the row counts differ by at most tolerance.
func CompareRowCount(actual, expected *dataset.Dataset, tolerance int) Result {
	actualCount := actual.Len()
	expectedCount := expected.Len()
	diff := actualCount - expectedCount
	if diff < 0 {
		diff = -diff
	}

	if diff <= tolerance {
		return NewResult(true,
			fmt.Sprintf("Row count matches within tolerance. Actual=%d, Expected=%d, Tolerance=%d",
				actualCount, expectedCount, tolerance),
			nil,
			map[string]any{
				"actual_count":   actualCount,
				"expected_count": expectedCount,
				"tolerance":      tolerance,
			})
	}

	return NewResult(false,
		fmt.Sprintf("Row count mismatch. Actual=%d, Expected=%d, Difference=%d, Tolerance=%d",
			actualCount, expectedCount, diff, tolerance),
		nil,
		map[string]any{
			"actual_count":   actualCount,
			"expected_count": expectedCount,
			"difference":     diff,
			"tolerance":      tolerance,
		})
}

// CompareSchema compares column names. With ignoreOrder the column sets must be
// equal; otherwise the column sequences must match exactly.
func CompareSchema(actual, expected *dataset.Dataset, ignoreOrder bool) Result {
	actualCols := actual.Columns()
	expectedCols := expected.Columns()

	if ignoreOrder {
		missing := difference(expectedCols, actualCols)
		extra := difference(actualCols, expectedCols)
		if len(missing) == 0 && len(extra) == 0 {
			return NewResult(true, "Schema/columns match (order ignored).", nil, map[string]any{
				"actual_columns":   actualCols,
				"expected_columns": expectedCols,
			})
		}
		return NewResult(false, "Schema mismatch.", nil, map[string]any{
			"missing_in_actual": missing,
			"extra_in_actual":   extra,
		})
	}

	meta := map[string]any{
		"actual_columns":   actualCols,
		"expected_columns": expectedCols,
	}
	if equalSeq(actualCols, expectedCols) {
		return NewResult(true, "Schema/columns match (order sensitive).", nil, meta)
	}
	return NewResult(false, "Schema mismatch (order sensitive).", nil, meta)
}

// KeyOptions configures CompareByKeys. A nil ValueColumns compares every
// non-key column present in both datasets.
type KeyOptions struct {
	KeyColumns       []string
	ValueColumns     []string
	NumericTolerance float64
}

type joinedPair struct {
	actual, expected int
}

// CompareByKeys joins actual and expected on the key columns (full outer join)
// and reports rows present on one side only and per-column value mismatches.
// A key repeated on either side matches every row with that key on the other
// side, so duplicates surface as several discrepancy rows.
func CompareByKeys(actual, expected *dataset.Dataset, opts KeyOptions) Result {
	keys := opts.KeyColumns
	if len(keys) == 0 {
		return NewResult(false, "At least one key column is required.", nil, nil)
	}
	for _, col := range keys {
		if !actual.HasColumn(col) {
			return missingKey(col, "actual")
		}
		if !expected.HasColumn(col) {
			return missingKey(col, "expected")
		}
	}

	valueCols := opts.ValueColumns
	if valueCols == nil {
		valueCols = commonValueColumns(actual, expected, keys)
	}

	expectedByKey := make(map[string][]int, expected.Len())
	for j, r := range expected.Rows() {
		k := dataset.KeyOf(r, keys)
		expectedByKey[k] = append(expectedByKey[k], j)
	}

	actualRows := actual.Rows()
	expectedRows := expected.Rows()
	expectedMatched := make([]bool, len(expectedRows))

	var both []joinedPair
	var onlyActual []int
	for i, r := range actualRows {
		matches, ok := expectedByKey[dataset.KeyOf(r, keys)]
		if !ok {
			onlyActual = append(onlyActual, i)
			continue
		}
		for _, j := range matches {
			both = append(both, joinedPair{actual: i, expected: j})
			expectedMatched[j] = true
		}
	}
	var onlyExpected []int
	for j, matched := range expectedMatched {
		if !matched {
			onlyExpected = append(onlyExpected, j)
		}
	}

	var mismatches []dataset.Row
	for _, col := range valueCols {
		if !actual.HasColumn(col) || !expected.HasColumn(col) {
			continue
		}
		for _, p := range both {
			a := actualRows[p.actual][col]
			e := expectedRows[p.expected][col]
			if !valuesDiffer(a, e, opts.NumericTolerance) {
				continue
			}
			row := keyRow(actualRows[p.actual], keys, ValueMismatch)
			row[ColumnNameColumn] = col
			row[ActualValueColumn] = a
			row[ExpectedValueColumn] = e
			mismatches = append(mismatches, row)
		}
	}

	if len(onlyExpected) == 0 && len(onlyActual) == 0 && len(mismatches) == 0 {
		return NewResult(true, "Data matches for all key and value columns.", nil, map[string]any{
			"missing_in_actual_count":   0,
			"missing_in_expected_count": 0,
			"mismatched_count":          0,
			"value_columns":             append([]string(nil), valueCols...),
		})
	}

	details := make([]dataset.Row, 0, len(onlyExpected)+len(onlyActual)+len(mismatches))
	for _, j := range onlyExpected {
		details = append(details, keyRow(expectedRows[j], keys, MissingInActual))
	}
	for _, i := range onlyActual {
		details = append(details, keyRow(actualRows[i], keys, MissingInExpected))
	}
	details = append(details, mismatches...)

	detailCols := append(append([]string(nil), keys...),
		IssueTypeColumn, ColumnNameColumn, ActualValueColumn, ExpectedValueColumn)

	return NewResult(false,
		fmt.Sprintf("Data mismatch detected. Missing in actual=%d, Missing in expected=%d, Value mismatches=%d.",
			len(onlyExpected), len(onlyActual), len(mismatches)),
		dataset.New(detailCols, details),
		map[string]any{
			"missing_in_actual_count":   len(onlyExpected),
			"missing_in_expected_count": len(onlyActual),
			"mismatched_count":          len(mismatches),
			"value_columns":             append([]string(nil), valueCols...),
		})
}

func missingKey(col, side string) Result {
	return NewResult(false,
		fmt.Sprintf("Key column '%s' missing in %s dataset.", col, side),
		nil,
		map[string]any{"missing_key_column": col, "side": side})
}

// valuesDiffer applies the numeric tolerance when both values are numeric and
// exact equality otherwise. Two nulls are equal; null against a value is not.
func valuesDiffer(a, e any, tolerance float64) bool {
	if dataset.IsNull(a) || dataset.IsNull(e) {
		return !(dataset.IsNull(a) && dataset.IsNull(e))
	}
	if dataset.IsNumeric(a) && dataset.IsNumeric(e) {
		if ai, ok := dataset.AsBigInt(a); ok && !math.IsNaN(tolerance) {
			if ei, ok := dataset.AsBigInt(e); ok {
				diff := new(big.Int).Sub(ai, ei)
				return new(big.Float).SetInt(diff.Abs(diff)).Cmp(big.NewFloat(tolerance)) > 0
			}
		}
		af, _ := dataset.AsFloat(a)
		ef, _ := dataset.AsFloat(e)
		return math.Abs(af-ef) > tolerance
	}
	return !dataset.Equal(a, e)
}

func keyRow(src dataset.Row, keys []string, issue IssueType) dataset.Row {
	row := make(dataset.Row, len(keys)+4)
	for _, k := range keys {
		row[k] = src[k]
	}
	row[IssueTypeColumn] = string(issue)
	return row
}

func commonValueColumns(actual, expected *dataset.Dataset, keys []string) []string {
	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}
	cols := []string{}
	for _, c := range actual.Columns() {
		if !isKey[c] && expected.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	sort.Strings(cols)
	return cols
}

// difference returns the elements of a not in b, sorted.
func difference(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, s := range b {
		inB[s] = true
	}
	out := []string{}
	for _, s := range a {
		if !inB[s] {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func equalSeq(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
