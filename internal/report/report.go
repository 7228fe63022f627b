// Package report renders suite runs as JSON and text and exports discrepancy rows.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/liyacrafter/viewcheck/internal/dataset"
	"github.com/liyacrafter/viewcheck/internal/suite"
)

// Report is the persisted record of one suite run.
type Report struct {
	Version     string              `json:"version"`
	GeneratedAt time.Time           `json:"generated_at"`
	Suite       string              `json:"suite"`
	Status      string              `json:"status"`
	Passed      bool                `json:"passed"`
	Summary     Summary             `json:"summary"`
	Checks      []suite.CheckResult `json:"checks"`
	StartedAt   time.Time           `json:"started_at"`
	CompletedAt time.Time           `json:"completed_at"`
}

// Summary counts check outcomes.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
}

// FromRun builds a report from a run result.
func FromRun(run *suite.RunResult) *Report {
	r := &Report{
		Version:     "1",
		GeneratedAt: time.Now(),
		Suite:       run.Suite,
		Status:      run.Status,
		Passed:      run.Passed,
		Checks:      run.Checks,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
	}
	for _, c := range run.Checks {
		r.Summary.Total++
		switch {
		case c.Error != "":
			r.Summary.Errored++
		case c.Status == suite.StatusPass:
			r.Summary.Passed++
		default:
			r.Summary.Failed++
		}
	}
	return r
}

// WriteJSON writes the report as JSON.
func WriteJSON(report *Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON reads a report from a JSON file.
func ReadJSON(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	r := &Report{}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return r, nil
}

// WriteText writes the report as human-readable text.
func WriteText(report *Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	return os.WriteFile(path, []byte(FormatText(report)), 0o644)
}

// FormatText renders the report as human-readable text.
func FormatText(report *Report) string {
	var b strings.Builder

	b.WriteString("=== View Validation Report ===\n")
	b.WriteString(fmt.Sprintf("Suite:     %s\n", report.Suite))
	b.WriteString(fmt.Sprintf("Generated: %s\n", report.GeneratedAt.Format(time.RFC3339)))
	if !report.StartedAt.IsZero() && !report.CompletedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Elapsed:   %s\n", report.CompletedAt.Sub(report.StartedAt).Round(time.Millisecond)))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Status: %s\n", report.Status))
	b.WriteString(fmt.Sprintf("  Total:   %d\n", report.Summary.Total))
	b.WriteString(fmt.Sprintf("  Passed:  %d\n", report.Summary.Passed))
	b.WriteString(fmt.Sprintf("  Failed:  %d\n", report.Summary.Failed))
	b.WriteString(fmt.Sprintf("  Errored: %d\n\n", report.Summary.Errored))

	b.WriteString("Checks:\n")
	for _, c := range report.Checks {
		b.WriteString(fmt.Sprintf("  [%s] %s (%s on %s.%s)\n", c.Status, c.Name, c.Type, c.Connection, c.View))
		if msg := c.Message(); msg != "" && c.Status != suite.StatusPass {
			b.WriteString(fmt.Sprintf("         %s\n", msg))
		}
	}

	return b.String()
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeName turns a check or suite name into a file name stem.
func SafeName(name string) string {
	stem := strings.Trim(unsafeName.ReplaceAllString(name, "_"), "_")
	if stem == "" {
		return "check"
	}
	return stem
}

// DetailsFileName returns the CSV file name used for a check's discrepancies.
func DetailsFileName(check string) string {
	return SafeName(check) + "_details.csv"
}

// ExportDetails writes the discrepancy rows of every failing check to dir as
// CSV, one file per check, and returns the paths written.
func ExportDetails(report *Report, dir string) ([]string, error) {
	var paths []string
	for _, c := range report.Checks {
		if c.Result == nil || c.Result.Success() {
			continue
		}
		details := c.Result.Details()
		if details.Len() == 0 {
			continue
		}
		path := filepath.Join(dir, DetailsFileName(c.Name))
		if err := dataset.SaveCSV(path, details); err != nil {
			return paths, fmt.Errorf("exporting %s: %w", c.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
