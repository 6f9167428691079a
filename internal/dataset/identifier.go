// Package dataset grows tables to a target size and keeps their identifier
// columns populated.
package dataset

import (
	"slices"
	"strings"

	"github.com/omrozmen/libseed/internal/roles"
	"github.com/omrozmen/libseed/internal/table"
)

// FindIdentifier returns the identifier column using the identifier markers
// only: every column is tried against "id" first, then "kod", and so on,
// followed by the broader second-chance markers.
func FindIdentifier(columns []string) (string, bool) {
	folded := make([]string, len(columns))
	for i, c := range columns {
		folded[i] = roles.Fold(c)
	}
	for _, set := range [][]string{roles.IdentifierMarkers, roles.BroadIdentifierMarkers} {
		for _, marker := range set {
			for i, c := range folded {
				if strings.Contains(c, marker) {
					return columns[i], true
				}
			}
		}
	}
	return "", false
}

// DetectIdentifier is FindIdentifier with a last-resort fallback to the
// first column. It reports false only for a table without columns.
func DetectIdentifier(columns []string) (string, bool) {
	if c, ok := FindIdentifier(columns); ok {
		return c, true
	}
	if len(columns) > 0 {
		return columns[0], true
	}
	return "", false
}

// EnsureIdentifier guarantees that column exists and holds no nulls.
//
// If the column exists, nulls are filled in row order with values counting
// up from the largest integer already present (or from start when none is).
// Otherwise the column is inserted first and numbered start, start+1, ...
// Duplicate values already present are left alone. The input is not modified.
func EnsureIdentifier(t table.Table, column string, start int64) table.Table {
	out := t.Clone()
	if !out.HasColumn(column) {
		out.Columns = slices.Insert(out.Columns, 0, column)
		for i, r := range out.Rows {
			r[column] = table.Int(start + int64(i))
		}
		return out
	}

	next := start - 1
	if hi, ok := MaxInt(out, column); ok {
		next = hi
	}
	for _, r := range out.Rows {
		if r.Get(column).IsNull() {
			next++
			r[column] = table.Int(next)
		}
	}
	return out
}

// MaxInt returns the largest integer-coercible value of column.
func MaxInt(t table.Table, column string) (int64, bool) {
	var (
		hi    int64
		found bool
	)
	for _, v := range t.Column(column) {
		c := v.CoerceInt()
		if !c.OK {
			continue
		}
		if !found || c.Int > hi {
			hi, found = c.Int, true
		}
	}
	return hi, found
}
