package store

import (
	"fmt"
	"strings"

	"github.com/omrozmen/libseed/internal/table"
)

// HeaderColumns turns a raw header row into unique, non-empty column names.
// Blank cells become "Unnamed: i" and repeats get a ".1", ".2", ... suffix.
func HeaderColumns(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for seen[name] > 0 {
			name = fmt.Sprintf("%s.%d", base, seen[base])
			seen[base]++
		}
		seen[name]++
		out[i] = name
	}
	return out
}

// FromRecords builds a table from a header row and text records. Short
// records are padded with nulls; cells beyond the header are dropped.
func FromRecords(header []string, records [][]string) (table.Table, error) {
	t, err := table.New(HeaderColumns(header)...)
	if err != nil {
		return table.Table{}, err
	}
	for _, rec := range records {
		row := make(table.Row, len(t.Columns))
		for i, c := range t.Columns {
			if i < len(rec) {
				row[c] = table.ParseCell(rec[i])
			} else {
				row[c] = table.Null()
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Records renders t as text records in column order, nulls as "".
func Records(t table.Table) [][]string {
	out := make([][]string, len(t.Rows))
	for i := range t.Rows {
		vals := t.Values(i)
		rec := make([]string, len(vals))
		for j, v := range vals {
			rec[j] = v.String()
		}
		out[i] = rec
	}
	return out
}
