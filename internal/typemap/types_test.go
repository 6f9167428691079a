package typemap

import (
	"testing"
	"time"

	"github.com/omrozmen/libseed/internal/table"
)

func TestSQLType(t *testing.T) {
	tests := []struct {
		dialect  Dialect
		kind     table.ValueKind
		expected string
	}{
		{Postgres, table.KindInt, "bigint"},
		{Postgres, table.KindDate, "date"},
		{Postgres, table.KindString, "text"},
		{MSSQL, table.KindInt, "BIGINT"},
		{MSSQL, table.KindDate, "DATE"},
		{MSSQL, table.KindString, "NVARCHAR(MAX)"},
		{SQLite, table.KindInt, "INTEGER"},
		{SQLite, table.KindDate, "DATE"},
		{SQLite, table.KindNull, "TEXT"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect)+"/"+tt.kind.String(), func(t *testing.T) {
			got := SQLType(tt.dialect, tt.kind)
			if got != tt.expected {
				t.Errorf("SQLType(%q, %v) = %q, want %q", tt.dialect, tt.kind, got, tt.expected)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		dataType string
		expected table.ValueKind
	}{
		{"INTEGER", table.KindInt},
		{"bigint", table.KindInt},
		{"int4", table.KindInt},
		{"DATE", table.KindDate},
		{"NVARCHAR(MAX)", table.KindString},
		{"varchar(255)", table.KindString},
		{"TEXT", table.KindString},
		{"", table.KindString},
	}

	for _, tt := range tests {
		t.Run(tt.dataType, func(t *testing.T) {
			got := KindOf(tt.dataType)
			if got != tt.expected {
				t.Errorf("KindOf(%q) = %v, want %v", tt.dataType, got, tt.expected)
			}
		})
	}
}

func TestInferKind(t *testing.T) {
	d := table.Date(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	tests := []struct {
		name     string
		values   []table.Value
		expected table.ValueKind
	}{
		{"ints with nulls", []table.Value{table.Int(1), table.Null(), table.Int(3)}, table.KindInt},
		{"dates", []table.Value{d, d}, table.KindDate},
		{"mixed", []table.Value{table.Int(1), table.String("a")}, table.KindString},
		{"all null", []table.Value{table.Null()}, table.KindString},
		{"empty", nil, table.KindString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferKind(tt.values)
			if got != tt.expected {
				t.Errorf("InferKind() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestColumnTypes(t *testing.T) {
	tbl := table.MustNew("id", "name")
	if err := tbl.AppendValues(table.Int(1), table.String("x")); err != nil {
		t.Fatal(err)
	}
	got := ColumnTypes(Postgres, tbl)
	if len(got) != 2 || got[0] != "bigint" || got[1] != "text" {
		t.Errorf("ColumnTypes() = %v", got)
	}
}

func TestConvert(t *testing.T) {
	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	if got := Convert(Postgres, table.Null(), table.KindInt); got != nil {
		t.Errorf("Convert(null) = %v, want nil", got)
	}
	if got := Convert(Postgres, table.Int(5), table.KindString); got != "5" {
		t.Errorf("Convert(5, text) = %v, want \"5\"", got)
	}
	if got := Convert(MSSQL, table.Int(5), table.KindInt); got != int64(5) {
		t.Errorf("Convert(5, int) = %v, want 5", got)
	}
	if got := Convert(SQLite, table.Date(day), table.KindDate); got != "2026-03-04" {
		t.Errorf("Convert(sqlite date) = %v, want 2026-03-04", got)
	}
	if got, ok := Convert(Postgres, table.Date(day), table.KindDate).(time.Time); !ok || !got.Equal(day) {
		t.Errorf("Convert(postgres date) = %v, want %v", got, day)
	}
}
