// Package stitch builds loan records whose references point at existing
// books and students and whose copied fields agree with them.
package stitch

import (
	"errors"
	"fmt"

	"github.com/omrozmen/libseed/internal/dataset"
	"github.com/omrozmen/libseed/internal/roles"
	"github.com/omrozmen/libseed/internal/table"
)

// Options control loan generation.
type Options struct {
	// Generator supplies every random draw and today's date. Required.
	Generator *roles.Generator
	// Statuses replaces roles.DefaultStatuses when the existing loans carry
	// no status values.
	Statuses []string
}

func (o Options) fallbackStatuses() []table.Value {
	src := o.Statuses
	if len(src) == 0 {
		src = roles.DefaultStatuses
	}
	out := make([]table.Value, len(src))
	for i, s := range src {
		out[i] = table.String(s)
	}
	return out
}

// Stitch generates n loan rows. The column layout is taken from existing
// when it has columns, otherwise the default loan schema is used. Book and
// student references are drawn uniformly, with replacement, from the
// identifiers present in books and students.
func Stitch(books, students, existing table.Table, n int, opts Options) (table.Table, error) {
	if n < 0 {
		return table.Table{}, fmt.Errorf("stitch: negative loan count %d", n)
	}
	g := opts.Generator
	if g == nil {
		return table.Table{}, errors.New("stitch: generator is required")
	}

	columns := existing.Columns
	if len(columns) == 0 {
		columns = dataset.DefaultColumns(roles.KindLoan)
	}
	out, err := table.New(columns...)
	if err != nil {
		return table.Table{}, fmt.Errorf("stitch: %w", err)
	}

	statuses := ObservedStatuses(existing)
	if len(statuses) == 0 {
		statuses = opts.fallbackStatuses()
	}
	bookPool := IdentifierPool(books, SyntheticBooks, n)
	studentPool := IdentifierPool(students, SyntheticStudents, n)
	bookByID := BookLookup(books)
	studentByID := StudentLookup(students)

	layout := make([]roles.Role, len(columns))
	for i, c := range columns {
		layout[i] = roles.ClassifyLoanColumn(c)
	}

	rng := g.Rand()
	for i := range n {
		issue := g.DaysAgo(g.Between(0, 365))
		returned := table.Null()
		if rng.Float64() < roles.ReturnedProbability {
			returned = table.Date(issue.AddDate(0, 0, g.Between(1, 60)))
		}
		studentRef := studentPool[rng.IntN(len(studentPool))]
		bookRef := bookPool[rng.IntN(len(bookPool))]
		book, hasBook := bookByID[table.KeyOf(bookRef)]
		name, hasName := studentByID[table.KeyOf(studentRef)]

		row := make(table.Row, len(columns))
		for j, c := range columns {
			var v table.Value
			switch role := layout[j]; role {
			case roles.LoanID:
				v = table.Int(int64(i + 1))
			case roles.StudentRef:
				v = studentRef
			case roles.BookRef:
				v = bookRef
			case roles.IssueDate:
				v = table.Date(issue)
			case roles.ReturnDate:
				v = returned
			case roles.Status:
				v = g.Status(statuses)
			case roles.Title:
				if hasBook && !book.Title.IsNull() {
					v = book.Title
				} else {
					v = table.String(g.Title())
				}
			case roles.Author:
				if hasBook && !book.Author.IsNull() {
					v = book.Author
				} else {
					v = table.String(g.PersonName())
				}
			case roles.StudentName:
				if hasName {
					v = table.String(name)
				} else {
					v = table.String(g.PersonName())
				}
			default:
				v = g.ForRole(role, table.Null(), statuses)
			}
			row[c] = v
		}
		out.Rows = append(out.Rows, row)
	}
	return Reconcile(out, books, students), nil
}

// Reconcile rewrites the title, author and student-name columns of every
// loan row from the book and student its references point at. Values that
// cannot be resolved are left as they are. When loans carry no book
// reference column, the first title column is read as one, which matches
// sheets that store the book number under the title heading.
func Reconcile(loans, books, students table.Table) table.Table {
	out := loans.Clone()

	var titleCols, authorCols, nameCols []string
	for _, c := range out.Columns {
		switch roles.ClassifyLoanColumn(c) {
		case roles.Title:
			titleCols = append(titleCols, c)
		case roles.Author:
			authorCols = append(authorCols, c)
		case roles.StudentName:
			nameCols = append(nameCols, c)
		}
	}

	bookCol, hasBookCol := roles.FindLoanColumn(out.Columns, roles.BookRef)
	if !hasBookCol && len(titleCols) > 0 {
		bookCol, hasBookCol = titleCols[0], true
	}
	studentCol, hasStudentCol := roles.FindLoanColumn(out.Columns, roles.StudentRef)

	bookByID := BookLookup(books)
	studentByID := StudentLookup(students)

	for _, r := range out.Rows {
		if hasBookCol {
			if b, ok := bookByID[table.KeyOf(r.Get(bookCol))]; ok {
				if !b.Title.IsNull() {
					for _, c := range titleCols {
						r[c] = b.Title
					}
				}
				if !b.Author.IsNull() {
					for _, c := range authorCols {
						r[c] = b.Author
					}
				}
			}
		}
		if hasStudentCol {
			if name, ok := studentByID[table.KeyOf(r.Get(studentCol))]; ok {
				for _, c := range nameCols {
					r[c] = table.String(name)
				}
			}
		}
	}
	return out
}
