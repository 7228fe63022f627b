package viewdata

import (
	"context"

	"github.com/liyacrafter/viewcheck/internal/dataset"
)

// MockQuerier is a test double for Querier.
type MockQuerier struct {
	Results map[string]*dataset.Dataset // keyed by exact SQL
	Default *dataset.Dataset
	Err     error

	Queries []string
}

func (m *MockQuerier) Execute(_ context.Context, sql string) (*dataset.Dataset, error) {
	m.Queries = append(m.Queries, sql)
	if m.Err != nil {
		return nil, m.Err
	}
	if ds, ok := m.Results[sql]; ok {
		return ds, nil
	}
	if m.Default != nil {
		return m.Default, nil
	}
	return dataset.Empty(), nil
}

// LastQuery returns the most recent SQL executed, or "".
func (m *MockQuerier) LastQuery() string {
	if len(m.Queries) == 0 {
		return ""
	}
	return m.Queries[len(m.Queries)-1]
}
