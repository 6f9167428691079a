package stitch

import (
	"strings"

	"github.com/omrozmen/libseed/internal/dataset"
	"github.com/omrozmen/libseed/internal/roles"
	"github.com/omrozmen/libseed/internal/table"
)

// Synthetic pool sizes used when a table yields no identifiers.
const (
	SyntheticBooks    = 200
	SyntheticStudents = 100
)

// Book holds the denormalized fields copied into loan rows.
type Book struct {
	Title  table.Value
	Author table.Value
}

// BookLookup maps each book identifier to its title and author. Rows with a
// null identifier are skipped; a repeated identifier keeps the last row.
func BookLookup(books table.Table) map[table.Key]Book {
	out := make(map[table.Key]Book)
	idCol, ok := dataset.DetectIdentifier(books.Columns)
	if !ok {
		return out
	}
	titleCol, hasTitle := roles.FindColumn(books.Columns, roles.KindBook, roles.Title)
	authorCol, hasAuthor := roles.FindColumn(books.Columns, roles.KindBook, roles.Author)
	if !hasTitle && !hasAuthor {
		return out
	}
	for _, r := range books.Rows {
		id := r.Get(idCol)
		if id.IsNull() {
			continue
		}
		var b Book
		if hasTitle {
			b.Title = r.Get(titleCol)
		}
		if hasAuthor {
			b.Author = r.Get(authorCol)
		}
		out[table.KeyOf(id)] = b
	}
	return out
}

// StudentLookup maps each student identifier to "first last". Either half
// may be missing; a student with neither is left out.
func StudentLookup(students table.Table) map[table.Key]string {
	out := make(map[table.Key]string)
	idCol, ok := dataset.DetectIdentifier(students.Columns)
	if !ok {
		return out
	}
	firstCol, hasFirst := roles.FindColumn(students.Columns, roles.KindStudent, roles.FirstName)
	lastCol, hasLast := roles.FindColumn(students.Columns, roles.KindStudent, roles.LastName)
	for _, r := range students.Rows {
		id := r.Get(idCol)
		if id.IsNull() {
			continue
		}
		var parts []string
		if hasFirst && !r.Get(firstCol).IsNull() {
			parts = append(parts, r.Get(firstCol).String())
		}
		if hasLast && !r.Get(lastCol).IsNull() {
			parts = append(parts, r.Get(lastCol).String())
		}
		if len(parts) == 0 {
			continue
		}
		out[table.KeyOf(id)] = strings.Join(parts, " ")
	}
	return out
}

// IdentifierPool returns the distinct identifiers of t. When the detected
// column is empty the first column is tried; when that is empty too, the
// pool is the synthetic range 1..max(minSize, n).
func IdentifierPool(t table.Table, minSize, n int) []table.Value {
	if col, ok := dataset.DetectIdentifier(t.Columns); ok {
		if ids := t.Distinct(col); len(ids) > 0 {
			return ids
		}
		if col != t.Columns[0] {
			if ids := t.Distinct(t.Columns[0]); len(ids) > 0 {
				return ids
			}
		}
	}
	size := max(minSize, n)
	out := make([]table.Value, size)
	for i := range out {
		out[i] = table.Int(int64(i + 1))
	}
	return out
}

// ObservedStatuses returns the distinct non-null values of the loan table's
// status column in first-seen order.
func ObservedStatuses(loans table.Table) []table.Value {
	col, ok := roles.FindLoanColumn(loans.Columns, roles.Status)
	if !ok {
		return nil
	}
	return loans.Distinct(col)
}
