// Package compare reconciles two datasets by row count, schema and key-based
// values. Every function is pure: inputs are never modified and results are
// not shared, so calls on independent datasets may run concurrently.
package compare

import (
	"encoding/json"

	"github.com/liyacrafter/viewcheck/internal/dataset"
)

// IssueType classifies one discrepancy row in Result.Details.
type IssueType string

const (
	MissingInActual   IssueType = "MISSING_IN_ACTUAL"
	MissingInExpected IssueType = "MISSING_IN_EXPECTED"
	ValueMismatch     IssueType = "VALUE_MISMATCH"
)

// Column names added to discrepancy rows alongside the key columns.
const (
	IssueTypeColumn     = "ISSUE_TYPE"
	ColumnNameColumn    = "COLUMN_NAME"
	ActualValueColumn   = "ACTUAL_VALUE"
	ExpectedValueColumn = "EXPECTED_VALUE"
)

// Result is the outcome of one comparison. A failing result is a normal
// outcome, not an error: Message names the failure class and Meta carries
// machine-readable counts.
type Result struct {
	success bool
	message string
	details *dataset.Dataset
	meta    map[string]any
}

// NewResult builds a Result. meta is copied.
func NewResult(success bool, message string, details *dataset.Dataset, meta map[string]any) Result {
	return Result{success: success, message: message, details: details, meta: copyMeta(meta)}
}

func (r Result) Success() bool { return r.success }

func (r Result) Message() string { return r.message }

// Details returns the discrepancy rows, or nil when there are none.
func (r Result) Details() *dataset.Dataset { return r.details }

// Meta returns a copy of the result's metadata.
func (r Result) Meta() map[string]any { return copyMeta(r.meta) }

// MetaInt returns an integer metadata value.
func (r Result) MetaInt(key string) (int, bool) {
	switch v := r.meta[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// MetaStrings returns a string-list metadata value.
func (r Result) MetaStrings(key string) []string {
	switch v := r.meta[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if str, ok := s.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

type jsonResult struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Details *dataset.Dataset `json:"details,omitempty"`
	Meta    map[string]any   `json:"meta,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonResult{Success: r.success, Message: r.message, Details: r.details, Meta: r.meta})
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var jr jsonResult
	if err := json.Unmarshal(data, &jr); err != nil {
		return err
	}
	*r = NewResult(jr.Success, jr.Message, jr.Details, jr.Meta)
	return nil
}

func copyMeta(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if s, ok := v.([]string); ok {
			v = append([]string(nil), s...)
		}
		out[k] = v
	}
	return out
}
