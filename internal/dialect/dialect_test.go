package dialect

import "testing"

func TestRenderLimit(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{"standard", Standard{}, "SELECT * FROM V", "SELECT * FROM V LIMIT 5"},
		{"oracle", Oracle{}, "SELECT * FROM V WHERE A = 1", "SELECT * FROM (SELECT * FROM V WHERE A = 1) WHERE ROWNUM <= 5"},
		{"sqlserver select", SQLServer{}, "SELECT A, B FROM V ORDER BY A", "SELECT TOP (5) A, B FROM V ORDER BY A"},
		{"sqlserver distinct", SQLServer{}, "SELECT DISTINCT A FROM V", "SELECT DISTINCT TOP (5) A FROM V"},
		{"sqlserver other", SQLServer{}, "WITH x AS (SELECT 1 AS A) SELECT A FROM x", "SELECT TOP (5) * FROM (WITH x AS (SELECT 1 AS A) SELECT A FROM x) AS limited"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.RenderLimit(tt.query, 5); got != tt.want {
				t.Errorf("RenderLimit() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGet(t *testing.T) {
	for _, name := range []string{"standard", "Oracle", "sqlserver"} {
		if _, ok := Get(name); !ok {
			t.Errorf("Get(%q) not found", name)
		}
	}
	if _, ok := Get("cobol"); ok {
		t.Error("unexpected dialect")
	}
}
