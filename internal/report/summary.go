// Package report inspects tables for gaps and repeats, and produces the
// random date lists used to fill date columns by hand.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/omrozmen/libseed/internal/roles"
	"github.com/omrozmen/libseed/internal/table"
)

// Duplicate is a title and author pair seen more than once.
type Duplicate struct {
	Title  string
	Author string
	Count  int
}

// Summary describes a book-like table.
type Summary struct {
	Rows    int
	Columns []string
	Head    [][]table.Value

	TitleColumn  string
	AuthorColumn string

	// Complete counts rows with both a title and an author.
	Complete int
	// Incomplete lists the sheet row numbers (header is row 1) of rows
	// missing a title or an author.
	Incomplete []int

	Duplicates []Duplicate
}

// DuplicateRows is the number of rows beyond the first of each duplicate pair.
func (s Summary) DuplicateRows() int {
	n := 0
	for _, d := range s.Duplicates {
		n += d.Count - 1
	}
	return n
}

// Summarize inspects t, keeping its first headRows rows for display. The
// title and author columns are found by name; when no column looks like
// one, the first and second columns are used.
func Summarize(t table.Table, headRows int) Summary {
	s := Summary{Rows: t.Len(), Columns: append([]string(nil), t.Columns...)}
	for i := 0; i < headRows && i < t.Len(); i++ {
		s.Head = append(s.Head, t.Values(i))
	}
	s.TitleColumn, s.AuthorColumn = titleAuthorColumns(t.Columns)

	type pair struct{ title, author string }
	counts := make(map[pair]int)
	var order []pair
	for i, r := range t.Rows {
		title := cellText(r, s.TitleColumn)
		author := cellText(r, s.AuthorColumn)
		if title == "" || author == "" {
			s.Incomplete = append(s.Incomplete, i+2)
			continue
		}
		s.Complete++
		p := pair{title, author}
		if counts[p] == 0 {
			order = append(order, p)
		}
		counts[p]++
	}
	for _, p := range order {
		if counts[p] > 1 {
			s.Duplicates = append(s.Duplicates, Duplicate{Title: p.title, Author: p.author, Count: counts[p]})
		}
	}
	sort.SliceStable(s.Duplicates, func(i, j int) bool {
		return s.Duplicates[i].Count > s.Duplicates[j].Count
	})
	return s
}

func titleAuthorColumns(columns []string) (title, author string) {
	title, hasTitle := roles.FindColumn(columns, roles.KindBook, roles.Title)
	if !hasTitle {
		title, hasTitle = roles.FindLoanColumn(columns, roles.Title)
	}
	author, hasAuthor := roles.FindColumn(columns, roles.KindBook, roles.Author)
	if !hasTitle && len(columns) > 0 {
		title = columns[0]
	}
	if !hasAuthor && len(columns) > 1 {
		author = columns[1]
	}
	return title, author
}

func cellText(r table.Row, column string) string {
	if column == "" {
		return ""
	}
	return strings.TrimSpace(r.Get(column).String())
}

// Print writes a human-readable report. At most limit incomplete rows and
// duplicate pairs are listed individually.
func (s Summary) Print(w io.Writer, limit int) {
	fmt.Fprintf(w, "Rows: %d (plus header)\n", s.Rows)
	fmt.Fprintf(w, "Columns (%d): %s\n", len(s.Columns), strings.Join(s.Columns, ", "))
	if len(s.Head) > 0 {
		fmt.Fprintf(w, "\nFirst %d rows:\n", len(s.Head))
		for i, vals := range s.Head {
			cells := make([]string, len(vals))
			for j, v := range vals {
				if v.IsNull() {
					cells[j] = "EMPTY"
				} else {
					cells[j] = v.String()
				}
			}
			fmt.Fprintf(w, "  row %d: %s\n", i+2, strings.Join(cells, " | "))
		}
	}

	fmt.Fprintf(w, "\nTitle column: %s, author column: %s\n", orDash(s.TitleColumn), orDash(s.AuthorColumn))
	fmt.Fprintf(w, "Rows with title and author: %d\n", s.Complete)
	fmt.Fprintf(w, "Rows missing title or author: %d\n", len(s.Incomplete))
	if n := len(s.Incomplete); n > 0 {
		shown := s.Incomplete[:min(n, limit)]
		fmt.Fprintf(w, "  rows: %s", joinInts(shown))
		if n > len(shown) {
			fmt.Fprintf(w, " (and %d more)", n-len(shown))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Duplicate title+author pairs: %d (%d extra rows)\n", len(s.Duplicates), s.DuplicateRows())
	for i, d := range s.Duplicates {
		if i == limit {
			fmt.Fprintf(w, "  ... and %d more\n", len(s.Duplicates)-limit)
			break
		}
		fmt.Fprintf(w, "  %s | %s -> %d times\n", d.Title, d.Author, d.Count)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ", ")
}
