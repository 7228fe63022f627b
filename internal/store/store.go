// Package store persists run reports.
package store

import (
	"context"
	"time"

	"github.com/liyacrafter/viewcheck/internal/report"
)

// Store saves run reports and lists previous runs.
type Store interface {
	Save(ctx context.Context, r *report.Report) error
	Recent(ctx context.Context, suite string, n int) ([]Summary, error)
	Close(ctx context.Context) error
}

// Summary is the indexed header of a stored run.
type Summary struct {
	Suite       string    `bson:"suite" json:"suite"`
	Status      string    `bson:"status" json:"status"`
	Passed      bool      `bson:"passed" json:"passed"`
	GeneratedAt time.Time `bson:"generated_at" json:"generated_at"`
	Total       int       `bson:"total" json:"total"`
	Failed      int       `bson:"failed" json:"failed"`
	Errored     int       `bson:"errored" json:"errored"`
}

// SummaryOf returns the header stored alongside r.
func SummaryOf(r *report.Report) Summary {
	return Summary{
		Suite:       r.Suite,
		Status:      r.Status,
		Passed:      r.Passed,
		GeneratedAt: r.GeneratedAt,
		Total:       r.Summary.Total,
		Failed:      r.Summary.Failed,
		Errored:     r.Summary.Errored,
	}
}
