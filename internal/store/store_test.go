package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/liyacrafter/viewcheck/internal/compare"
	"github.com/liyacrafter/viewcheck/internal/report"
	"github.com/liyacrafter/viewcheck/internal/suite"
)

func testReport(name string, at time.Time, passed bool) *report.Report {
	res := compare.NewResult(passed, "Row count mismatch. Actual=1, Expected=2, Difference=1, Tolerance=0", nil,
		map[string]any{"actual_count": 1, "expected_count": 2})
	status := suite.StatusPass
	if !passed {
		status = suite.StatusFail
	}
	r := report.FromRun(&suite.RunResult{
		Suite:  name,
		Status: status,
		Passed: passed,
		Checks: []suite.CheckResult{{Name: "rc", Type: suite.RowCount, Status: status, Result: &res}},
	})
	r.GeneratedAt = at
	return r
}

func lookup(d bson.D, key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

func TestToDocument(t *testing.T) {
	at := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	doc, err := toDocument(testReport("sales", at, false))
	if err != nil {
		t.Fatalf("toDocument: %v", err)
	}

	if v, _ := lookup(doc, "suite"); v != "sales" {
		t.Errorf("suite = %v", v)
	}
	if v, _ := lookup(doc, "generated_at"); v != at {
		t.Errorf("generated_at = %v", v)
	}
	if v, _ := lookup(doc, "failed"); v != 1 {
		t.Errorf("failed = %v", v)
	}
	body, ok := lookup(doc, "report")
	if !ok {
		t.Fatal("missing nested report")
	}
	nested, ok := body.(bson.D)
	if !ok {
		t.Fatalf("report is %T, want bson.D", body)
	}
	if v, _ := lookup(nested, "suite"); v != "sales" {
		t.Errorf("nested suite = %v", v)
	}
	if _, ok := lookup(nested, "checks"); !ok {
		t.Error("nested report has no checks")
	}
}

func TestMockStore(t *testing.T) {
	ctx := context.Background()
	m := &MockStore{}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, passed := range []bool{true, false, true} {
		if err := m.Save(ctx, testReport("sales", base.Add(time.Duration(i)*time.Hour), passed)); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Save(ctx, testReport("orders", base, true)); err != nil {
		t.Fatal(err)
	}

	recent, err := m.Recent(ctx, "sales", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(recent))
	}
	if !recent[0].GeneratedAt.Equal(base.Add(2*time.Hour)) || recent[1].Passed {
		t.Errorf("unexpected order %+v", recent)
	}

	m.SaveErr = errors.New("down")
	if err := m.Save(ctx, testReport("sales", base, true)); err == nil {
		t.Error("expected save error")
	}
	if err := m.Close(ctx); err != nil || !m.Closed {
		t.Error("close not recorded")
	}
}

func TestMongoStore_Live(t *testing.T) {
	uri := os.Getenv("VIEWCHECK_TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("VIEWCHECK_TEST_MONGODB_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := NewMongoStore(ctx, uri, "viewcheck_test", "runs_"+time.Now().Format("20060102150405"))
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = s.coll().Drop(ctx)
		_ = s.Close(ctx)
	}()

	at := time.Now().UTC().Truncate(time.Millisecond)
	if err := s.Save(ctx, testReport("live", at, true)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	recent, err := s.Recent(ctx, "live", 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 1 || !recent[0].Passed || !recent[0].GeneratedAt.Equal(at) {
		t.Errorf("unexpected summaries %+v", recent)
	}
}
