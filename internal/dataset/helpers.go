package dataset

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nonIdentChars = regexp.MustCompile(`[^a-z0-9_]`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// nullTokens are the textual null markers produced by spreadsheet and CSV exports.
var nullTokens = map[string]bool{
	"": true, "null": true, "NULL": true, "None": true, "NA": true, "NaN": true,
}

// NormalizeColumnNames returns a copy of d with snake_case column names.
// Columns that collapse to the same name keep the first occurrence.
func NormalizeColumnNames(d *Dataset) *Dataset {
	cols := d.Columns()
	renamed := make([]string, len(cols))
	for i, c := range cols {
		renamed[i] = normalizeName(c)
	}
	rows := make([]Row, d.Len())
	for i, r := range d.rows {
		nr := make(Row, len(cols))
		for j, c := range cols {
			if _, ok := nr[renamed[j]]; ok {
				continue
			}
			nr[renamed[j]] = r[c]
		}
		rows[i] = nr
	}
	return New(renamed, rows)
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonIdentChars.ReplaceAllString(s, "_")
	s = underscoreRun.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// StandardizeNulls returns a copy of d with textual null markers replaced by nil.
func StandardizeNulls(d *Dataset) *Dataset {
	rows := make([]Row, d.Len())
	for i := range d.rows {
		r := d.Row(i)
		for k, v := range r {
			if s, ok := v.(string); ok && nullTokens[s] {
				r[k] = nil
			}
		}
		rows[i] = r
	}
	return New(d.columns, rows)
}

// DropDuplicates returns a copy of d keeping the first row for each distinct
// combination of the subset columns (all columns when subset is empty).
func DropDuplicates(d *Dataset, subset ...string) (*Dataset, error) {
	if len(subset) == 0 {
		subset = d.columns
	}
	for _, c := range subset {
		if !d.HasColumn(c) {
			return nil, fmt.Errorf("column %q not in dataset", c)
		}
	}
	seen := make(map[string]bool, d.Len())
	var rows []Row
	for _, r := range d.rows {
		k := KeyOf(r, subset)
		if seen[k] {
			continue
		}
		seen[k] = true
		rows = append(rows, r)
	}
	return New(d.columns, rows), nil
}

// AssertNonEmpty returns an error when d has no rows or only null values.
func AssertNonEmpty(d *Dataset, name string) error {
	if name == "" {
		name = "dataset"
	}
	if d.Len() == 0 {
		return fmt.Errorf("%s is empty", name)
	}
	for _, r := range d.rows {
		for _, v := range r {
			if !IsNull(v) {
				return nil
			}
		}
	}
	return fmt.Errorf("%s contains only null values", name)
}

// ColumnStats summarizes numeric columns as a dataset with columns
// column, count, null_count, mean, min, max. count is the number of numeric
// values; non-null values that are not numeric are ignored. When no columns
// are named, every column whose non-null values are all numeric is included.
func ColumnStats(d *Dataset, columns ...string) *Dataset {
	if len(columns) == 0 {
		for _, c := range d.columns {
			if numericColumn(d, c) {
				columns = append(columns, c)
			}
		}
	}
	statCols := []string{"column", "count", "null_count", "mean", "min", "max"}
	var rows []Row
	for _, c := range columns {
		if !d.HasColumn(c) {
			continue
		}
		var count, nulls int64
		var sum float64
		var lo, hi any
		for _, v := range d.Column(c) {
			if IsNull(v) {
				nulls++
				continue
			}
			f, ok := AsFloat(v)
			if !ok {
				continue
			}
			count++
			sum += f
			if lo == nil || f < lo.(float64) {
				lo = f
			}
			if hi == nil || f > hi.(float64) {
				hi = f
			}
		}
		var mean any
		if count > 0 {
			mean = sum / float64(count)
		}
		rows = append(rows, Row{
			"column": c, "count": count, "null_count": nulls,
			"mean": mean, "min": lo, "max": hi,
		})
	}
	return New(statCols, rows)
}

func numericColumn(d *Dataset, col string) bool {
	seen := false
	for _, r := range d.rows {
		v := r[col]
		if IsNull(v) {
			continue
		}
		if !IsNumeric(v) {
			return false
		}
		seen = true
	}
	return seen
}
