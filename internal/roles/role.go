// Package roles guesses what an unlabeled column means from its name and
// synthesizes plausible values for it.
//
// Classification is a fixed, ordered table of marker rules. The first rule
// whose markers occur in the folded column name wins, so the order of the
// table is the priority order.
package roles

import "fmt"

// Kind tells which record type a table holds. Some markers mean different
// things per kind ("ad" is a first name for students only).
type Kind string

const (
	KindBook    Kind = "book"
	KindStudent Kind = "student"
	KindLoan    Kind = "loan"
)

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindBook, KindStudent, KindLoan:
		return k, nil
	default:
		return "", fmt.Errorf("unknown record kind %q (want book, student or loan)", s)
	}
}

// Role is the semantic purpose of a column.
type Role int

const (
	Unclassified Role = iota
	Identifier
	Title
	Author
	PublicationYear
	ISBN
	Category
	ShelfLocation
	FirstName
	LastName
	Grade
	Phone
	Email
	StudentNumber
	IssueDate
	ReturnDate
	Status
	LoanID
	StudentRef
	BookRef
	PersonnelName
	StudentName
)

var roleNames = map[Role]string{
	Unclassified:    "Unclassified",
	Identifier:      "Identifier",
	Title:           "Title",
	Author:          "Author",
	PublicationYear: "PublicationYear",
	ISBN:            "ISBN",
	Category:        "Category",
	ShelfLocation:   "ShelfLocation",
	FirstName:       "FirstName",
	LastName:        "LastName",
	Grade:           "Grade",
	Phone:           "Phone",
	Email:           "Email",
	StudentNumber:   "StudentNumber",
	IssueDate:       "IssueDate",
	ReturnDate:      "ReturnDate",
	Status:          "Status",
	LoanID:          "LoanId",
	StudentRef:      "StudentRef",
	BookRef:         "BookRef",
	PersonnelName:   "PersonnelName",
	StudentName:     "StudentName",
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Denormalized reports whether r holds a copy of a referenced row's data.
func (r Role) Denormalized() bool {
	return r == Title || r == Author || r == StudentName
}
