package roles

import (
	"slices"
	"strings"
)

// Rule assigns Role to a column whose folded name contains any of Markers.
// Also, when set, must match too; Except vetoes the rule. Kinds limits the
// rule to some record kinds (nil means every kind). Markers are compared as
// they are, so they must already be folded; the package rule tables are
// folded once at init.
type Rule struct {
	Role    Role
	Markers []string
	Also    []string
	Except  []string
	Kinds   []Kind
}

// Matches reports whether the rule applies to an already folded column name.
func (r Rule) Matches(folded string, kind Kind) bool {
	if len(r.Kinds) > 0 && !slices.Contains(r.Kinds, kind) {
		return false
	}
	if !containsAny(folded, r.Markers) {
		return false
	}
	if len(r.Also) > 0 && !containsAny(folded, r.Also) {
		return false
	}
	return !containsAny(folded, r.Except)
}

func containsAny(folded string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(folded, m) {
			return true
		}
	}
	return false
}

var student = []Kind{KindStudent}

// IdentifierMarkers are checked before anything else so identifier-like
// columns are never mistaken for another role.
var IdentifierMarkers = []string{"id", "kod", "no", "numara", "num"}

// BroadIdentifierMarkers is the second-chance set used when picking a
// table's identifier column.
var BroadIdentifierMarkers = []string{"kod", "no", "numara", "num", "sıra", "sira"}

// DefaultStatuses is used when no status values were observed.
var DefaultStatuses = []string{"Verildi", "Teslim edildi", "Gecikmeli"}

var classifierRules = []Rule{
	{Role: Identifier, Markers: IdentifierMarkers},
	{Role: Title, Markers: []string{"başlık", "baslik", "title", "kitap", "konu"}},
	{Role: Author, Markers: []string{"yazar", "author", "yazar_ad", "yazarad"}},
	{Role: PublicationYear, Markers: []string{"yıl", "yil", "year", "yayin"}, Except: []string{"yayinevi", "publisher"}},
	{Role: ISBN, Markers: []string{"isbn"}},
	{Role: Category, Markers: []string{"kategori", "tür", "tur"}},
	{Role: ShelfLocation, Markers: []string{"raf", "shelf", "konum"}},
	{Role: FirstName, Markers: []string{"ad", "isim", "name"}, Except: []string{"soy", "surname"}, Kinds: student},
	{Role: LastName, Markers: []string{"soy", "soyad", "surname"}, Kinds: student},
	{Role: Grade, Markers: []string{"sinif", "sınıf", "sinîf"}, Kinds: student},
	{Role: Phone, Markers: []string{"telefon", "phone"}, Kinds: student},
	{Role: Email, Markers: []string{"eposta", "email", "e-posta"}, Kinds: student},
	{Role: StudentNumber, Markers: []string{"numara", "num", "ogr_no"}, Kinds: student},
	{Role: IssueDate, Markers: []string{"verilis", "veril", "verilis_tarihi", "tarih", "date"}, Except: []string{"teslim", "iade"}},
	{Role: ReturnDate, Markers: []string{"teslim", "iade"}},
	{Role: Status, Markers: []string{"durum", "status"}},
}

// loanRules resolve the columns of a loan table before falling back to the
// classifier. Return dates precede issue dates because "TeslimTarihi"
// contains the generic date marker.
var loanRules = []Rule{
	{Role: LoanID, Markers: []string{"odunc", "loan_id", "loanid", "loan id"}, Except: []string{"tarih", "date"}},
	{Role: Title, Markers: []string{"başlık", "baslik", "başlığı", "title", "kitap adı", "kitap ismi"}},
	{Role: Author, Markers: []string{"yazar", "author"}},
	{Role: StudentName, Markers: []string{"ad soyad", "adsoyad", "ad_soyad", "adsoy", "full name", "fullname"}},
	{Role: StudentName, Markers: []string{"ad", "isim"}, Also: []string{"soy"}},
	{Role: StudentRef, Markers: []string{"ogrenci", "student"}},
	{Role: BookRef, Markers: []string{"kitap", "book"}},
	{Role: ReturnDate, Markers: []string{"teslim", "iade"}},
	{Role: IssueDate, Markers: []string{"verilis", "veril", "tarih", "date"}},
	{Role: Status, Markers: []string{"durum", "status"}},
	{Role: PersonnelName, Markers: []string{"personel", "gorevli", "person", "calisan", "yetkili"}},
}

func init() {
	IdentifierMarkers = foldAll(IdentifierMarkers)
	BroadIdentifierMarkers = foldAll(BroadIdentifierMarkers)
	foldRules(classifierRules)
	foldRules(loanRules)
}

func foldRules(rules []Rule) {
	for i := range rules {
		r := &rules[i]
		r.Markers = foldAll(r.Markers)
		r.Also = foldAll(r.Also)
		r.Except = foldAll(r.Except)
	}
}

func foldAll(markers []string) []string {
	if markers == nil {
		return nil
	}
	out := make([]string, len(markers))
	for i, m := range markers {
		out[i] = Fold(m)
	}
	return out
}

// Rules returns a copy of the classifier's rule table in priority order.
func Rules() []Rule {
	return slices.Clone(classifierRules)
}

// Classify returns the role of column for the given record kind.
func Classify(column string, kind Kind) Role {
	return resolve(classifierRules, Fold(column), kind, Unclassified)
}

// ClassifyLoanColumn resolves a loan table column: reference, date, status
// and denormalized columns first, then the generic classifier.
func ClassifyLoanColumn(column string) Role {
	folded := Fold(column)
	if role := resolve(loanRules, folded, KindLoan, Unclassified); role != Unclassified {
		return role
	}
	return resolve(classifierRules, folded, KindLoan, Unclassified)
}

func resolve(rules []Rule, folded string, kind Kind, fallback Role) Role {
	for _, r := range rules {
		if r.Matches(folded, kind) {
			return r.Role
		}
	}
	return fallback
}

// FindColumn returns the first column classified as role for kind.
func FindColumn(columns []string, kind Kind, role Role) (string, bool) {
	for _, c := range columns {
		if Classify(c, kind) == role {
			return c, true
		}
	}
	return "", false
}

// FindLoanColumn returns the first loan column resolved to role.
func FindLoanColumn(columns []string, role Role) (string, bool) {
	for _, c := range columns {
		if ClassifyLoanColumn(c) == role {
			return c, true
		}
	}
	return "", false
}
