package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ReadCSV reads a header row followed by data rows. Empty cells become nil.
// Types are inferred per column: a column is converted to int64, float64 or
// bool only when every non-empty cell parses as that type, otherwise all of
// its cells stay strings. NaN cells of a float column become nil.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv has no header row")
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var cells [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", len(cells)+2, err)
		}
		cells = append(cells, rec)
	}

	kinds := make([]cellKind, len(header))
	for i := range header {
		kinds[i] = columnKind(cells, i)
	}
	records := make([][]any, len(cells))
	for r, rec := range cells {
		vals := make([]any, len(rec))
		for i, cell := range rec {
			vals[i] = convertCell(cell, kinds[i])
		}
		records[r] = vals
	}
	return FromRecords(header, records)
}

// LoadCSV reads a CSV file from disk.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	ds, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return ds, nil
}

// WriteCSV writes d with a header row. Nulls are written as empty cells.
func WriteCSV(w io.Writer, d *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Columns()); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, rec := range d.Records() {
		cells := make([]string, len(rec))
		for i, v := range rec {
			cells[i] = FormatCell(v)
		}
		if err := cw.Write(cells); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes d to path, creating parent directories.
func SaveCSV(path string, d *Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FormatCell renders a value for text output.
func FormatCell(v any) string {
	if IsNull(v) {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}

type cellKind int

const (
	kindString cellKind = iota
	kindInt
	kindFloat
	kindBool
)

func columnKind(cells [][]string, col int) cellKind {
	isInt, isFloat, isBool := true, true, true
	seen := false
	for _, rec := range cells {
		if col >= len(rec) || rec[col] == "" {
			continue
		}
		seen = true
		c := rec[col]
		if isInt {
			_, err := strconv.ParseInt(c, 10, 64)
			isInt = err == nil
		}
		if isFloat {
			f, err := strconv.ParseFloat(c, 64)
			isFloat = err == nil && !math.IsInf(f, 0)
		}
		if isBool {
			l := strings.ToLower(c)
			isBool = l == "true" || l == "false"
		}
		if !isInt && !isFloat && !isBool {
			return kindString
		}
	}
	switch {
	case !seen:
		return kindString
	case isInt:
		return kindInt
	case isFloat:
		return kindFloat
	case isBool:
		return kindBool
	}
	return kindString
}

func convertCell(s string, kind cellKind) any {
	if s == "" {
		return nil
	}
	switch kind {
	case kindInt:
		i, _ := strconv.ParseInt(s, 10, 64)
		return i
	case kindFloat:
		f, _ := strconv.ParseFloat(s, 64)
		if math.IsNaN(f) {
			return nil
		}
		return f
	case kindBool:
		return strings.EqualFold(s, "true")
	}
	return s
}
