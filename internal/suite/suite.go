// Package suite loads validation suites from YAML and runs them against
// configured connections.
package suite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/liyacrafter/viewcheck/internal/dataset"
)

// CheckType selects the validation a check performs.
type CheckType string

const (
	RowCount    CheckType = "row_count"
	Schema      CheckType = "schema"
	Keys        CheckType = "keys"
	SourceCheck CheckType = "source"
)

var (
	ErrNoChecks          = errors.New("suite has no checks")
	ErrUnknownCheckType  = errors.New("unknown check type")
	ErrMissingView       = errors.New("view is required")
	ErrMissingConnection = errors.New("connection is required")
	ErrMissingKeys       = errors.New("key_columns is required")
	ErrMissingExpected   = errors.New("expected data is required")
	ErrDuplicateCheck    = errors.New("duplicate check name")
)

// Suite is a named list of checks.
type Suite struct {
	Name   string  `yaml:"name"`
	Checks []Check `yaml:"checks"`

	// dir resolves relative CSV paths.
	dir string
}

// Check is one validation against a view.
type Check struct {
	Name       string    `yaml:"name"`
	Type       CheckType `yaml:"type"`
	Connection string    `yaml:"connection"`
	View       string    `yaml:"view"`
	Filters    string    `yaml:"filters,omitempty"`
	Limit      int       `yaml:"limit,omitempty"`

	ExpectedCSV     string   `yaml:"expected_csv,omitempty"`
	ExpectedColumns []string `yaml:"expected_columns,omitempty"`
	Source          *Source  `yaml:"source,omitempty"`

	Tolerance        int      `yaml:"tolerance,omitempty"`
	IgnoreOrder      *bool    `yaml:"ignore_order,omitempty"`
	KeyColumns       []string `yaml:"key_columns,omitempty"`
	ValueColumns     []string `yaml:"value_columns,omitempty"`
	NumericTolerance float64  `yaml:"numeric_tolerance,omitempty"`

	NormalizeColumns bool `yaml:"normalize_columns,omitempty"`
	StandardizeNulls bool `yaml:"standardize_nulls,omitempty"`
}

// Source is the expected side of a source check: a query on another
// connection or a CSV extract.
type Source struct {
	Connection string `yaml:"connection,omitempty"`
	Query      string `yaml:"query,omitempty"`
	CSV        string `yaml:"csv,omitempty"`
}

// Load reads a suite from a YAML file. Relative CSV paths resolve against the
// file's directory.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse decodes and validates suite YAML.
func Parse(data []byte, dir string) (*Suite, error) {
	s := &Suite{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing suite: %w", err)
	}
	s.dir = dir
	for i := range s.Checks {
		if s.Checks[i].Name == "" {
			s.Checks[i].Name = fmt.Sprintf("%s_%d", s.Checks[i].View, i+1)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that every check is runnable.
func (s *Suite) Validate() error {
	if len(s.Checks) == 0 {
		return ErrNoChecks
	}
	seen := make(map[string]bool, len(s.Checks))
	for _, c := range s.Checks {
		if seen[c.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateCheck, c.Name)
		}
		seen[c.Name] = true
		if err := c.validate(); err != nil {
			return fmt.Errorf("check %q: %w", c.Name, err)
		}
	}
	return nil
}

func (c Check) validate() error {
	if c.View == "" {
		return ErrMissingView
	}
	if c.Connection == "" {
		return ErrMissingConnection
	}
	switch c.Type {
	case RowCount, Keys:
		if c.ExpectedCSV == "" {
			return fmt.Errorf("%w: expected_csv", ErrMissingExpected)
		}
	case Schema:
		if c.ExpectedCSV == "" && len(c.ExpectedColumns) == 0 {
			return fmt.Errorf("%w: expected_csv or expected_columns", ErrMissingExpected)
		}
	case SourceCheck:
		if c.Source == nil || (c.Source.CSV == "" && (c.Source.Connection == "" || c.Source.Query == "")) {
			return fmt.Errorf("%w: source.csv or source.connection with source.query", ErrMissingExpected)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCheckType, c.Type)
	}
	if (c.Type == Keys || c.Type == SourceCheck) && len(c.KeyColumns) == 0 {
		return ErrMissingKeys
	}
	return nil
}

// ignoreOrder defaults to true.
func (c Check) ignoreOrder() bool {
	return c.IgnoreOrder == nil || *c.IgnoreOrder
}

func (s *Suite) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || s.dir == "" {
		return path
	}
	return filepath.Join(s.dir, path)
}

// prepare applies the check's cleaning options to expected data.
func (c Check) prepare(d *dataset.Dataset) *dataset.Dataset {
	if c.NormalizeColumns {
		d = dataset.NormalizeColumnNames(d)
	}
	if c.StandardizeNulls {
		d = dataset.StandardizeNulls(d)
	}
	return d
}
