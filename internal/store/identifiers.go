package store

import (
	"fmt"
	"strings"

	"github.com/omrozmen/libseed/internal/typemap"
)

// QuoteIdent safely quotes an identifier for d, escaping embedded quotes.
func QuoteIdent(d typemap.Dialect, ident string) string {
	if d == typemap.MSSQL {
		return "[" + strings.ReplaceAll(ident, "]", "]]") + "]"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// SplitQualified splits "schema.table" into its parts. A name without a
// dot has an empty schema.
func SplitQualified(name string) (schema, tbl string) {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// QualifyTable quotes a possibly schema-qualified table name for d.
func QualifyTable(d typemap.Dialect, name string) string {
	schema, tbl := SplitQualified(name)
	if schema == "" {
		return QuoteIdent(d, tbl)
	}
	return QuoteIdent(d, schema) + "." + QuoteIdent(d, tbl)
}

// DropTableSQL returns a statement dropping name if it exists.
func DropTableSQL(d typemap.Dialect, name string) string {
	return "DROP TABLE IF EXISTS " + QualifyTable(d, name)
}

// CreateTableSQL returns a CREATE TABLE statement for columns with the
// given SQL types.
func CreateTableSQL(d typemap.Dialect, name string, columns, types []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = QuoteIdent(d, c) + " " + types[i]
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", QualifyTable(d, name), strings.Join(defs, ", "))
}

// InsertSQL returns a parameterized INSERT for columns using "?" markers.
func InsertSQL(d typemap.Dialect, name string, columns []string) string {
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = QuoteIdent(d, c)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QualifyTable(d, name), strings.Join(quoted, ", "), strings.Join(marks, ", "))
}

// SelectAllSQL returns a statement reading every row of name.
func SelectAllSQL(d typemap.Dialect, name string) string {
	return "SELECT * FROM " + QualifyTable(d, name)
}
