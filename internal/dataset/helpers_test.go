package dataset

import "testing"

func TestNormalizeColumnNames(t *testing.T) {
	ds := New([]string{" Order ID ", "Net-Amount($)", "__Region__"}, []Row{
		{" Order ID ": 1, "Net-Amount($)": 2.0, "__Region__": "EU"},
	})
	got := NormalizeColumnNames(ds)
	want := []string{"order_id", "net_amount", "region"}
	cols := got.Columns()
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, cols[i], want[i])
		}
	}
	if got.Value(0, "net_amount") != 2.0 {
		t.Errorf("value not carried over: %v", got.Value(0, "net_amount"))
	}
	if ds.Columns()[0] != " Order ID " {
		t.Error("input dataset should not be modified")
	}
}

func TestStandardizeNulls(t *testing.T) {
	ds := New([]string{"a", "b"}, []Row{
		{"a": "NULL", "b": "x"},
		{"a": "None", "b": ""},
		{"a": "NaN", "b": 0},
	})
	got := StandardizeNulls(ds)
	for i := 0; i < got.Len(); i++ {
		if got.Value(i, "a") != nil {
			t.Errorf("row %d: a = %v, want nil", i, got.Value(i, "a"))
		}
	}
	if got.Value(0, "b") != "x" {
		t.Errorf("non-null string changed: %v", got.Value(0, "b"))
	}
	if got.Value(2, "b") != 0 {
		t.Errorf("numeric zero changed: %v", got.Value(2, "b"))
	}
	if ds.Value(0, "a") != "NULL" {
		t.Error("input dataset should not be modified")
	}
}

func TestDropDuplicates(t *testing.T) {
	ds := New([]string{"id", "v"}, []Row{
		{"id": 1, "v": "a"},
		{"id": 1, "v": "b"},
		{"id": 2, "v": "a"},
		{"id": 1, "v": "a"},
	})

	all, err := DropDuplicates(ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if all.Len() != 3 {
		t.Errorf("full-row dedupe: got %d rows, want 3", all.Len())
	}

	byID, err := DropDuplicates(ds, "id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byID.Len() != 2 || byID.Value(0, "v") != "a" {
		t.Errorf("subset dedupe should keep first occurrence, got %v", byID.Rows())
	}

	if _, err := DropDuplicates(ds, "missing"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestAssertNonEmpty(t *testing.T) {
	if err := AssertNonEmpty(Empty("a"), "view"); err == nil || err.Error() != "view is empty" {
		t.Errorf("unexpected error: %v", err)
	}
	nulls := New([]string{"a"}, []Row{{"a": nil}})
	if err := AssertNonEmpty(nulls, ""); err == nil || err.Error() != "dataset contains only null values" {
		t.Errorf("unexpected error: %v", err)
	}
	if err := AssertNonEmpty(New([]string{"a"}, []Row{{"a": 1}}), "x"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestColumnStats(t *testing.T) {
	ds := New([]string{"id", "amount", "name"}, []Row{
		{"id": int64(1), "amount": 10.0, "name": "a"},
		{"id": int64(2), "amount": nil, "name": "b"},
		{"id": int64(3), "amount": 20.0, "name": "c"},
	})
	stats := ColumnStats(ds)
	if stats.Len() != 2 {
		t.Fatalf("expected stats for id and amount, got %d rows", stats.Len())
	}
	amount := stats.Row(1)
	if amount["column"] != "amount" {
		t.Fatalf("row 1 column = %v, want amount", amount["column"])
	}
	if amount["count"] != int64(2) || amount["null_count"] != int64(1) {
		t.Errorf("count/null_count = %v/%v, want 2/1", amount["count"], amount["null_count"])
	}
	if amount["mean"] != 15.0 || amount["min"] != 10.0 || amount["max"] != 20.0 {
		t.Errorf("mean/min/max = %v/%v/%v", amount["mean"], amount["min"], amount["max"])
	}
}

func TestColumnStats_MixedColumn(t *testing.T) {
	ds := New([]string{"amount"}, []Row{
		{"amount": 10.0},
		{"amount": "n/a"},
		{"amount": 20.0},
		{"amount": nil},
	})
	stats := ColumnStats(ds, "amount")
	if stats.Len() != 1 {
		t.Fatalf("expected one stats row, got %d", stats.Len())
	}
	row := stats.Row(0)
	if row["count"] != int64(2) || row["null_count"] != int64(1) {
		t.Errorf("count/null_count = %v/%v, want 2/1", row["count"], row["null_count"])
	}
	if row["mean"] != 15.0 {
		t.Errorf("mean = %v, want 15", row["mean"])
	}
}

func TestCompareFloats(t *testing.T) {
	if !CompareFloats(1.0, 1.0000001, 1e-6) {
		t.Error("values within tolerance should compare equal")
	}
	if CompareFloats(1.0, 1.1, 1e-6) {
		t.Error("values outside tolerance should differ")
	}
}
