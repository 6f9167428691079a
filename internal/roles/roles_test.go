package roles

import (
	"regexp"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omrozmen/libseed/internal/table"
)

var fixedNow = func() time.Time { return time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC) }

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Başlık", "baslik"},
		{"BAŞLIK", "baslik"},
		{"Baslik", "baslik"},
		{"Sınıf", "sinif"},
		{"İade Tarihi", "iade tarihi"},
		{"Öğrenci No", "ogrenci no"},
		{"YayınYılı", "yayinyili"},
		{"KitapID", "kitapid"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fold(tt.input))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		column string
		kind   Kind
		want   Role
	}{
		{"Kitap Başlığı", KindBook, Title},
		{"Ad", KindStudent, FirstName},
		{"Ad", KindBook, Unclassified},
		{"KitapID", KindBook, Identifier},
		{"OgrenciID", KindStudent, Identifier},
		{"Başlık", KindBook, Title},
		{"Yazar", KindBook, Author},
		{"YayınYılı", KindBook, PublicationYear},
		{"Yayınevi", KindBook, Unclassified},
		{"ISBN", KindBook, ISBN},
		{"Kategori", KindBook, Category},
		{"Raf", KindBook, ShelfLocation},
		{"Soyad", KindStudent, LastName},
		{"Sınıf", KindStudent, Grade},
		{"Telefon", KindStudent, Phone},
		{"E-posta", KindStudent, Email},
		{"Telefon", KindBook, Unclassified},
		{"Verilis Tarihi", KindLoan, IssueDate},
		{"Teslim Tarihi", KindLoan, ReturnDate},
		{"Durum", KindBook, Status},
		{"Öğrenci Numarası", KindStudent, Identifier},
		{"Sayfa", KindBook, Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.column+"/"+string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.column, tt.kind))
		})
	}
}

func TestIdentifierRuleComesFirst(t *testing.T) {
	rules := Rules()
	require.NotEmpty(t, rules)
	assert.Equal(t, Identifier, rules[0].Role)

	// "Kitap No" carries both a title marker and an identifier marker.
	assert.Equal(t, Identifier, Classify("Kitap No", KindBook))
}

func TestRulePriorityOrder(t *testing.T) {
	var order []Role
	for _, r := range Rules() {
		order = append(order, r.Role)
	}
	assert.Equal(t, []Role{
		Identifier, Title, Author, PublicationYear, ISBN, Category, ShelfLocation,
		FirstName, LastName, Grade, Phone, Email, StudentNumber,
		IssueDate, ReturnDate, Status,
	}, order)
}

func TestClassifyLoanColumn(t *testing.T) {
	tests := []struct {
		column string
		want   Role
	}{
		{"OduncID", LoanID},
		{"OgrenciID", StudentRef},
		{"KitapID", BookRef},
		{"VerilisTarihi", IssueDate},
		{"TeslimTarihi", ReturnDate},
		{"Durum", Status},
		{"Başlık", Title},
		{"Kitap Adı", Title},
		{"Yazar", Author},
		{"Ad Soyad", StudentName},
		{"Öğrenci Adı Soyadı", StudentName},
		{"Personel", PersonnelName},
		{"Ödünç Tarihi", IssueDate},
		{"Not", Identifier},
		{"Açıklama", Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyLoanColumn(tt.column))
		})
	}
}

func TestFindColumn(t *testing.T) {
	cols := []string{"OgrenciID", "Ad", "Soyad", "Sinif"}
	c, ok := FindColumn(cols, KindStudent, LastName)
	require.True(t, ok)
	assert.Equal(t, "Soyad", c)

	_, ok = FindColumn(cols, KindBook, FirstName)
	assert.False(t, ok)
}

func TestGeneratorIsDeterministic(t *testing.T) {
	a := NewSeeded(42, fixedNow)
	b := NewSeeded(42, fixedNow)
	for _, col := range []string{"Başlık", "Yazar", "ISBN", "Ad", "Telefon", "Eposta", "Durum"} {
		va := a.Value(col, KindStudent, table.Null(), nil)
		vb := b.Value(col, KindStudent, table.Null(), nil)
		assert.True(t, va.Equal(vb), "column %s: %v != %v", col, va, vb)
	}
}

func TestNewRandMatchesSeededGenerator(t *testing.T) {
	a := NewRand(99)
	b := NewSeeded(99, fixedNow).Rand()
	for range 20 {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestRuleMarkersAreFolded(t *testing.T) {
	for _, r := range append(Rules(), loanRules...) {
		for _, set := range [][]string{r.Markers, r.Also, r.Except} {
			for _, m := range set {
				assert.Equal(t, Fold(m), m, "rule %s", r.Role)
			}
		}
	}
	for _, m := range append(slices.Clone(IdentifierMarkers), BroadIdentifierMarkers...) {
		assert.Equal(t, Fold(m), m)
	}

	// Markers written with Turkish letters still match their folded columns.
	assert.Equal(t, Grade, Classify("SINIF", KindStudent))
	assert.Equal(t, Title, Classify("Kitap Başlığı", KindBook))
	assert.Equal(t, Category, Classify("Tür", KindBook))
	assert.True(t, Rule{Role: Status, Markers: []string{"durum"}}.Matches(Fold("DURUMU"), KindLoan))
}

func TestGeneratorValues(t *testing.T) {
	g := NewSeeded(7, fixedNow)
	today := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	id := g.Value("KitapID", KindBook, table.Int(51), nil)
	assert.True(t, id.Equal(table.Int(51)))
	assert.True(t, g.Value("KitapID", KindBook, table.Null(), nil).IsNull())

	isbn := g.Value("ISBN", KindBook, table.Null(), nil)
	assert.Regexp(t, regexp.MustCompile(`^\d{13}$`), isbn.String())

	for range 50 {
		year, ok := g.Value("Yayın Yılı", KindBook, table.Null(), nil).Integer()
		require.True(t, ok)
		assert.GreaterOrEqual(t, year, int64(1950))
		assert.LessOrEqual(t, year, int64(2026))

		d, ok := g.Value("Verilis Tarihi", KindLoan, table.Null(), nil).Time()
		require.True(t, ok)
		assert.False(t, d.After(today))
		assert.False(t, d.Before(today.AddDate(0, 0, -365)))

		shelf := g.Value("Raf", KindBook, table.Null(), nil)
		assert.Regexp(t, `^R\d{1,2}-S\d{1,2}$`, shelf.String())

		email := g.Value("Eposta", KindStudent, table.Null(), nil)
		assert.Regexp(t, `^[a-z]+\.[a-z]+\d+@`, email.String())

		title := g.Value("Başlık", KindBook, table.Null(), nil)
		assert.NotEmpty(t, title.String())
	}
}

func TestReturnDateIsSometimesAbsent(t *testing.T) {
	g := NewSeeded(1, fixedNow)
	var present, absent int
	for range 1000 {
		if g.Value("Teslim Tarihi", KindLoan, table.Null(), nil).IsNull() {
			absent++
		} else {
			present++
		}
	}
	assert.Greater(t, absent, 150)
	assert.Greater(t, present, 650)
}

func TestStatusPrefersObservedValues(t *testing.T) {
	g := NewSeeded(3, fixedNow)
	observed := []table.Value{table.String("Kayıp"), table.Null()}
	for range 20 {
		assert.Equal(t, "Kayıp", g.Value("Durum", KindLoan, table.Null(), observed).String())
	}
	for range 20 {
		assert.Contains(t, DefaultStatuses, g.Value("Durum", KindLoan, table.Null(), nil).String())
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("student")
	require.NoError(t, err)
	assert.Equal(t, KindStudent, k)

	_, err = ParseKind("teacher")
	assert.Error(t, err)
}
