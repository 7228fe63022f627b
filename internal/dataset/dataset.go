// Package dataset holds the tabular data model shared by the fetcher, comparator and reports.
package dataset

import (
	"encoding/json"
	"fmt"
	"math"
)

// Row maps a column name to its value. Values are nil, string, integer, float, time.Time or bool.
type Row map[string]any

// Dataset is an ordered sequence of rows sharing one ordered column set.
type Dataset struct {
	columns []string
	rows    []Row
}

// New builds a dataset from rows. Every row is copied and padded with nil for any
// column it lacks; keys outside columns are dropped.
func New(columns []string, rows []Row) *Dataset {
	cols := dedupe(columns)
	ds := &Dataset{columns: cols, rows: make([]Row, 0, len(rows))}
	for _, r := range rows {
		ds.rows = append(ds.rows, project(r, cols))
	}
	return ds
}

// FromRecords builds a dataset from positional records, as returned by a cursor.
func FromRecords(columns []string, records [][]any) (*Dataset, error) {
	cols := dedupe(columns)
	if len(cols) != len(columns) {
		return nil, fmt.Errorf("duplicate column names in %v", columns)
	}
	ds := &Dataset{columns: cols, rows: make([]Row, 0, len(records))}
	for i, rec := range records {
		if len(rec) != len(cols) {
			return nil, fmt.Errorf("record %d has %d values, expected %d", i, len(rec), len(cols))
		}
		row := make(Row, len(cols))
		for j, c := range cols {
			row[c] = rec[j]
		}
		ds.rows = append(ds.rows, row)
	}
	return ds, nil
}

// Empty returns a dataset with the given columns and no rows.
func Empty(columns ...string) *Dataset {
	return New(columns, nil)
}

// Len returns the number of rows. A nil dataset has zero rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// Columns returns a copy of the ordered column names.
func (d *Dataset) Columns() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// HasColumn reports whether name is one of the dataset's columns.
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	for _, c := range d.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Row returns a copy of row i.
func (d *Dataset) Row(i int) Row {
	out := make(Row, len(d.columns))
	for k, v := range d.rows[i] {
		out[k] = v
	}
	return out
}

// Rows returns copies of all rows.
func (d *Dataset) Rows() []Row {
	out := make([]Row, d.Len())
	for i := range out {
		out[i] = d.Row(i)
	}
	return out
}

// Value returns the value of column col in row i.
func (d *Dataset) Value(i int, col string) any {
	return d.rows[i][col]
}

// Column returns all values of a column in row order, or nil if the column is absent.
func (d *Dataset) Column(name string) []any {
	if !d.HasColumn(name) {
		return nil
	}
	out := make([]any, len(d.rows))
	for i, r := range d.rows {
		out[i] = r[name]
	}
	return out
}

// Select returns a new dataset restricted to the named columns, in the given order.
func (d *Dataset) Select(columns ...string) (*Dataset, error) {
	for _, c := range columns {
		if !d.HasColumn(c) {
			return nil, fmt.Errorf("column %q not in dataset", c)
		}
	}
	return New(columns, d.rows), nil
}

// Records returns the rows as positional records in column order.
func (d *Dataset) Records() [][]any {
	out := make([][]any, d.Len())
	for i, r := range d.rows {
		rec := make([]any, len(d.columns))
		for j, c := range d.columns {
			rec[j] = r[c]
		}
		out[i] = rec
	}
	return out
}

type jsonDataset struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// MarshalJSON encodes the dataset as {"columns": [...], "rows": [...]}. NaN
// cells are written as null and infinities as the strings "+Inf" and "-Inf",
// which JSON cannot otherwise represent.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	rows := make([]Row, len(d.rows))
	for i, r := range d.rows {
		rows[i] = r
		for _, v := range r {
			if _, ok := jsonSafe(v); ok {
				continue
			}
			out := make(Row, len(r))
			for c, v := range r {
				out[c], _ = jsonSafe(v)
			}
			rows[i] = out
			break
		}
	}
	return json.Marshal(jsonDataset{Columns: d.columns, Rows: rows})
}

// jsonSafe maps non-finite floats to encodable values. It reports false when
// v had to be replaced.
func jsonSafe(v any) (any, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	default:
		return v, true
	}
	switch {
	case math.IsNaN(f):
		return nil, false
	case math.IsInf(f, 1):
		return "+Inf", false
	case math.IsInf(f, -1):
		return "-Inf", false
	}
	return v, true
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var jd jsonDataset
	if err := json.Unmarshal(data, &jd); err != nil {
		return err
	}
	*d = *New(jd.Columns, jd.Rows)
	return nil
}

func project(r Row, cols []string) Row {
	out := make(Row, len(cols))
	for _, c := range cols {
		out[c] = r[c]
	}
	return out
}

func dedupe(cols []string) []string {
	seen := make(map[string]bool, len(cols))
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// UniqueNames returns names with repeated entries suffixed _2, _3, ... so result
// sets with duplicate column labels still form a valid dataset.
func UniqueNames(names []string) []string {
	out := make([]string, len(names))
	used := make(map[string]bool, len(names))
	for _, n := range names {
		used[n] = true
	}
	seen := make(map[string]int, len(names))
	for i, n := range names {
		seen[n]++
		if seen[n] == 1 {
			out[i] = n
			continue
		}
		for k := seen[n]; ; k++ {
			cand := fmt.Sprintf("%s_%d", n, k)
			if !used[cand] {
				used[cand] = true
				out[i] = cand
				break
			}
		}
	}
	return out
}
