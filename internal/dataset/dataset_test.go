package dataset

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"
)

func TestNew_PadsMissingColumns(t *testing.T) {
	ds := New([]string{"id", "name"}, []Row{
		{"id": 1},
		{"id": 2, "name": "Bob", "extra": true},
	})

	if ds.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", ds.Len())
	}
	r := ds.Row(0)
	if v, ok := r["name"]; !ok || v != nil {
		t.Errorf("expected name padded with nil, got %v (present=%v)", v, ok)
	}
	if _, ok := ds.Row(1)["extra"]; ok {
		t.Error("column outside the column set should be dropped")
	}
}

func TestNew_DoesNotAliasInput(t *testing.T) {
	in := Row{"id": 1}
	ds := New([]string{"id"}, []Row{in})
	in["id"] = 99
	if ds.Value(0, "id") != 1 {
		t.Errorf("dataset should not share rows with its input, got %v", ds.Value(0, "id"))
	}
}

func TestFromRecords(t *testing.T) {
	ds, err := FromRecords([]string{"a", "b"}, [][]any{{1, "x"}, {2, "y"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ds.Value(1, "b"); got != "y" {
		t.Errorf("Value(1, b) = %v, want y", got)
	}

	if _, err := FromRecords([]string{"a", "b"}, [][]any{{1}}); err == nil {
		t.Error("expected error for short record")
	}
	if _, err := FromRecords([]string{"a", "a"}, nil); err == nil {
		t.Error("expected error for duplicate columns")
	}
}

func TestNilDataset(t *testing.T) {
	var ds *Dataset
	if ds.Len() != 0 {
		t.Error("nil dataset should have zero rows")
	}
	if ds.HasColumn("x") {
		t.Error("nil dataset has no columns")
	}
}

func TestSelect(t *testing.T) {
	ds := New([]string{"a", "b", "c"}, []Row{{"a": 1, "b": 2, "c": 3}})
	sel, err := ds.Select("c", "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sel.Columns(); len(got) != 2 || got[0] != "c" || got[1] != "a" {
		t.Errorf("Columns() = %v, want [c a]", got)
	}
	if _, err := ds.Select("zz"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	ds := New([]string{"id", "v"}, []Row{{"id": "k", "v": "x"}})
	data, err := json.Marshal(ds)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"columns":["id","v"]`) {
		t.Errorf("unexpected encoding: %s", data)
	}
	var back Dataset
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Len() != 1 || back.Value(0, "v") != "x" {
		t.Errorf("round trip lost data: %+v", back.Rows())
	}
}

func TestJSON_NonFiniteFloats(t *testing.T) {
	ds := New([]string{"id", "v"}, []Row{
		{"id": int64(1), "v": math.NaN()},
		{"id": int64(2), "v": math.Inf(1)},
		{"id": int64(3), "v": math.Inf(-1)},
		{"id": int64(4), "v": 2.5},
	})
	data, err := json.Marshal(ds)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Dataset
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []any{nil, "+Inf", "-Inf", 2.5}
	for i, w := range want {
		if got := back.Value(i, "v"); got != w {
			t.Errorf("row %d v = %#v, want %#v", i, got, w)
		}
	}
	if !math.IsNaN(ds.Value(0, "v").(float64)) {
		t.Error("marshaling must not modify the dataset")
	}
}

func TestEqual(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil vs value", nil, 1, false},
		{"nan vs nil", math.NaN(), nil, true},
		{"int vs float", int64(10), 10.0, true},
		{"int32 vs int64", int32(3), int64(3), true},
		{"float differs", 10.0, 10.4, false},
		{"strings", "a", "a", true},
		{"string vs bytes", "a", []byte("a"), true},
		{"string vs number", "10", 10, false},
		{"times other zone", now, now.In(time.FixedZone("x", 3600)), true},
		{"bools", true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAsInt64(t *testing.T) {
	tests := []struct {
		in      any
		want    int64
		wantErr bool
	}{
		{int64(5), 5, false},
		{float64(7), 7, false},
		{"42", 42, false},
		{[]byte("12"), 12, false},
		{1.5, 0, true},
		{nil, 0, true},
		{true, 0, true},
	}
	for _, tt := range tests {
		got, err := AsInt64(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("AsInt64(%v) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("AsInt64(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestKeyOf_NumericKindsMatch(t *testing.T) {
	cols := []string{"id", "region"}
	a := KeyOf(Row{"id": int64(1), "region": "EU"}, cols)
	b := KeyOf(Row{"id": 1.0, "region": "EU"}, cols)
	c := KeyOf(Row{"id": int64(1), "region": "US"}, cols)
	if a != b {
		t.Errorf("int and integral float keys should match: %q vs %q", a, b)
	}
	if a == c {
		t.Error("different regions should not share a key")
	}
	if KeyOf(Row{"id": "1"}, []string{"id"}) == KeyOf(Row{"id": 1}, []string{"id"}) {
		t.Error("string and number keys should differ")
	}
}

func TestKeyOf_LargeIntegers(t *testing.T) {
	cols := []string{"id"}
	if KeyOf(Row{"id": int64(math.MaxInt64)}, cols) == KeyOf(Row{"id": int64(math.MaxInt64 - 1)}, cols) {
		t.Error("adjacent int64 keys near the limit collide")
	}
	if KeyOf(Row{"id": uint64(1 << 63)}, cols) != KeyOf(Row{"id": float64(1 << 63)}, cols) {
		t.Error("equal uint64 and float keys should match")
	}
	if !Equal(int64(9007199254740993), int64(9007199254740993)) || Equal(int64(9007199254740993), int64(9007199254740992)) {
		t.Error("integers beyond 2^53 should compare exactly")
	}
}

func TestKeyOf_CompositeValuesDoNotBleed(t *testing.T) {
	cols := []string{"a", "b"}
	tests := []struct{ x, y Row }{
		{Row{"a": "a\x1fs:b", "b": "c"}, Row{"a": "a", "b": "b\x1fs:c"}},
		{Row{"a": "1:x", "b": "y"}, Row{"a": "1", "b": ":xy"}},
		{Row{"a": "", "b": "ab"}, Row{"a": "a", "b": "b"}},
	}
	for _, tt := range tests {
		if KeyOf(tt.x, cols) == KeyOf(tt.y, cols) {
			t.Errorf("%v and %v share a key", tt.x, tt.y)
		}
	}
}

func TestReadCSV(t *testing.T) {
	in := "id, amount ,name,active\n1,10.5,Alice,true\n2,,Bob,false\n"
	ds, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ds.Columns(); got[1] != "amount" {
		t.Errorf("header should be trimmed, got %q", got[1])
	}
	if ds.Value(0, "id") != int64(1) {
		t.Errorf("id = %#v, want int64(1)", ds.Value(0, "id"))
	}
	if ds.Value(0, "amount") != 10.5 {
		t.Errorf("amount = %#v, want 10.5", ds.Value(0, "amount"))
	}
	if ds.Value(1, "amount") != nil {
		t.Errorf("empty cell should be nil, got %#v", ds.Value(1, "amount"))
	}
	if ds.Value(1, "active") != false {
		t.Errorf("active = %#v, want false", ds.Value(1, "active"))
	}
}

func TestReadCSV_InfersPerColumn(t *testing.T) {
	in := "code,amt,ratio,flag,note\nA1,5,1,true,\n12,7,2.5,FALSE,\n,8,NaN,,\n"
	ds, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tests := []struct {
		row  int
		col  string
		want any
	}{
		{0, "code", "A1"},
		{1, "code", "12"},
		{2, "code", nil},
		{1, "amt", int64(7)},
		{0, "ratio", 1.0},
		{1, "ratio", 2.5},
		{2, "ratio", nil},
		{1, "flag", false},
		{0, "note", nil},
	}
	for _, tt := range tests {
		if got := ds.Value(tt.row, tt.col); got != tt.want {
			t.Errorf("row %d %s = %#v, want %#v", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestReadCSV_InfinityStaysText(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("tier\nInf\n1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if ds.Value(0, "tier") != "Inf" || ds.Value(1, "tier") != "1" {
		t.Errorf("tier = %#v, %#v", ds.Value(0, "tier"), ds.Value(1, "tier"))
	}
}

func TestReadCSV_Empty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for missing header")
	}
}

func TestWriteCSV(t *testing.T) {
	ds := New([]string{"id", "v"}, []Row{{"id": int64(1), "v": nil}, {"id": int64(2), "v": 2.5}})
	var buf bytes.Buffer
	if err := WriteCSV(&buf, ds); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "id,v\n1,\n2,2.5\n"
	if buf.String() != want {
		t.Errorf("WriteCSV = %q, want %q", buf.String(), want)
	}
}
