package store

import (
	"context"
	"sort"

	"github.com/liyacrafter/viewcheck/internal/report"
)

// MockStore is an in-memory Store for tests.
type MockStore struct {
	SaveErr   error
	RecentErr error
	CloseErr  error

	Saved  []*report.Report
	Closed bool
}

func (m *MockStore) Save(_ context.Context, r *report.Report) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, r)
	return nil
}

func (m *MockStore) Recent(_ context.Context, suite string, n int) ([]Summary, error) {
	if m.RecentErr != nil {
		return nil, m.RecentErr
	}
	var out []Summary
	for _, r := range m.Saved {
		if r.Suite == suite {
			out = append(out, SummaryOf(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].GeneratedAt.After(out[j].GeneratedAt) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *MockStore) Close(_ context.Context) error {
	m.Closed = true
	return m.CloseErr
}
