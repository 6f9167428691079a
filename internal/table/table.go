package table

import (
	"fmt"
	"slices"
)

// Row maps a column name to its value. A missing column reads as null.
type Row map[string]Value

// Get returns the value of column, or null when absent.
func (r Row) Get(column string) Value {
	return r[column]
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered list of unique column names and an ordered list of rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given columns.
// It returns an error if a column name is empty or repeated.
func New(columns ...string) (Table, error) {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if c == "" {
			return Table{}, fmt.Errorf("empty column name")
		}
		if seen[c] {
			return Table{}, fmt.Errorf("duplicate column %q", c)
		}
		seen[c] = true
	}
	return Table{Columns: slices.Clone(columns)}, nil
}

// MustNew is New for fixed column lists known to be valid.
func MustNew(columns ...string) Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// IsEmpty reports whether the table has neither columns nor rows.
func (t Table) IsEmpty() bool { return len(t.Columns) == 0 && len(t.Rows) == 0 }

// HasColumn reports whether column is part of the table.
func (t Table) HasColumn(column string) bool {
	return slices.Contains(t.Columns, column)
}

// Append adds a row, keeping only values of known columns.
func (t *Table) Append(r Row) {
	row := make(Row, len(t.Columns))
	for _, c := range t.Columns {
		if v, ok := r[c]; ok {
			row[c] = v
		}
	}
	t.Rows = append(t.Rows, row)
}

// AppendValues adds a row given values in column order.
func (t *Table) AppendValues(values ...Value) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.Columns))
	}
	row := make(Row, len(t.Columns))
	for i, c := range t.Columns {
		row[c] = values[i]
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Column returns the values of column in row order.
func (t Table) Column(column string) []Value {
	out := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Get(column)
	}
	return out
}

// Distinct returns the non-null values of column in first-seen order.
func (t Table) Distinct(column string) []Value {
	type seenKey struct {
		kind ValueKind
		text string
	}
	var out []Value
	seen := make(map[seenKey]bool)
	for _, v := range t.Column(column) {
		if v.IsNull() {
			continue
		}
		k := seenKey{v.kind, v.String()}
		if !seen[k] {
			seen[k] = true
			out = append(out, v)
		}
	}
	return out
}

// Values returns the row's values in column order.
func (t Table) Values(i int) []Value {
	out := make([]Value, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = t.Rows[i].Get(c)
	}
	return out
}

// Clone returns a copy of t whose column slice and rows can be modified
// without affecting t.
func (t Table) Clone() Table {
	out := Table{Columns: slices.Clone(t.Columns), Rows: make([]Row, len(t.Rows))}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// Equal reports whether two tables have the same columns and row values.
func (t Table) Equal(o Table) bool {
	if !slices.Equal(t.Columns, o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Rows {
		for _, c := range t.Columns {
			if !t.Rows[i].Get(c).Equal(o.Rows[i].Get(c)) {
				return false
			}
		}
	}
	return true
}
