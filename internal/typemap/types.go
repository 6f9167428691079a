// Package typemap maps table value kinds to SQL column types and back.
package typemap

import (
	"strings"

	"github.com/omrozmen/libseed/internal/table"
)

// Dialect identifies a SQL engine.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
	MSSQL    Dialect = "mssql"
)

// SQLType returns the column type used to store values of kind k.
func SQLType(d Dialect, k table.ValueKind) string {
	switch d {
	case Postgres:
		switch k {
		case table.KindInt:
			return "bigint"
		case table.KindDate:
			return "date"
		default:
			return "text"
		}
	case MSSQL:
		switch k {
		case table.KindInt:
			return "BIGINT"
		case table.KindDate:
			return "DATE"
		default:
			return "NVARCHAR(MAX)"
		}
	default:
		// SQLite has no date storage class; ISO text sorts correctly.
		switch k {
		case table.KindInt:
			return "INTEGER"
		case table.KindDate:
			return "DATE"
		default:
			return "TEXT"
		}
	}
}

// KindOf maps a declared SQL column type to the value kind it holds.
func KindOf(dataType string) table.ValueKind {
	dataType = strings.ToLower(strings.TrimSpace(dataType))
	if i := strings.IndexByte(dataType, '('); i >= 0 {
		dataType = dataType[:i]
	}

	switch dataType {
	case "int", "integer", "bigint", "smallint", "tinyint", "int2", "int4", "int8", "serial", "bigserial":
		return table.KindInt
	case "date":
		return table.KindDate
	default:
		return table.KindString
	}
}

// InferKind returns the kind shared by every non-null value. Columns with
// mixed kinds or only nulls are text.
func InferKind(values []table.Value) table.ValueKind {
	kind := table.KindNull
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		switch {
		case kind == table.KindNull:
			kind = v.Kind()
		case kind != v.Kind():
			return table.KindString
		}
	}
	if kind == table.KindNull {
		return table.KindString
	}
	return kind
}

// ColumnKinds infers a kind for every column of t, in column order.
func ColumnKinds(t table.Table) []table.ValueKind {
	out := make([]table.ValueKind, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = InferKind(t.Column(c))
	}
	return out
}

// ColumnTypes returns the SQL column types for t in d, in column order.
func ColumnTypes(d Dialect, t table.Table) []string {
	kinds := ColumnKinds(t)
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = SQLType(d, k)
	}
	return out
}

// Convert returns v as it should be bound to a column of kind k in d.
// Values of a text column are sent as their string form, and SQLite dates
// as YYYY-MM-DD text.
func Convert(d Dialect, v table.Value, k table.ValueKind) any {
	if v.IsNull() {
		return nil
	}
	if k == table.KindString || (d == SQLite && k == table.KindDate) {
		return v.String()
	}
	return v.Any()
}
