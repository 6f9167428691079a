package dataset

import (
	"fmt"

	"github.com/omrozmen/libseed/internal/roles"
	"github.com/omrozmen/libseed/internal/table"
)

var defaultColumns = map[roles.Kind][]string{
	roles.KindBook:    {"KitapID", "Başlık", "Yazar", "YayınYılı", "ISBN"},
	roles.KindStudent: {"OgrenciID", "Ad", "Soyad", "Sinif", "Telefon", "Eposta"},
	roles.KindLoan:    {"OduncID", "OgrenciID", "KitapID", "VerilisTarihi", "TeslimTarihi", "Durum"},
}

// DefaultColumns returns the placeholder schema used for a table of kind
// that arrives without any columns.
func DefaultColumns(kind roles.Kind) []string {
	return append([]string(nil), defaultColumns[kind]...)
}

// Extend returns t grown to target rows. Existing rows are kept as they are
// and in order; new rows are appended with the identifier column numbered on
// from the current maximum and every other column synthesized by gen.
// A target at or below the current size returns an unchanged copy.
func Extend(t table.Table, target int, kind roles.Kind, gen *roles.Generator) (table.Table, error) {
	if _, ok := defaultColumns[kind]; !ok {
		return table.Table{}, fmt.Errorf("extend: unknown kind %q", kind)
	}
	out := t.Clone()
	toAdd := target - len(out.Rows)
	if toAdd <= 0 {
		return out, nil
	}
	if len(out.Columns) == 0 {
		out.Columns = DefaultColumns(kind)
	}

	idCol, hasID := DetectIdentifier(out.Columns)
	next := int64(len(out.Rows)) + 1
	if hasID {
		if hi, ok := MaxInt(out, idCol); ok {
			next = hi + 1
		}
	}

	colRoles := make([]roles.Role, len(out.Columns))
	for j, c := range out.Columns {
		colRoles[j] = roles.Classify(c, kind)
	}

	for i := range toAdd {
		row := make(table.Row, len(out.Columns))
		for j, c := range out.Columns {
			if hasID && c == idCol {
				row[c] = table.Int(next + int64(i))
				continue
			}
			row[c] = gen.ForRole(colRoles[j], table.Null(), nil)
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
