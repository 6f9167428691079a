package report

import (
	"bytes"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omrozmen/libseed/internal/table"
)

func books(t *testing.T) table.Table {
	t.Helper()
	tbl := table.MustNew("Başlık", "Yazar", "Sayfa")
	rows := [][2]table.Value{
		{table.String("Sefiller"), table.String("Victor Hugo")},
		{table.String("Nutuk"), table.Null()},
		{table.String("Sefiller"), table.String("Victor Hugo")},
		{table.String("  "), table.String("Anonim")},
		{table.String("Çalıkuşu"), table.String("Reşat Nuri")},
		{table.String("Sefiller "), table.String(" Victor Hugo")},
		{table.String("Çalıkuşu"), table.String("Reşat Nuri")},
	}
	for _, r := range rows {
		require.NoError(t, tbl.AppendValues(r[0], r[1], table.Int(100)))
	}
	return tbl
}

func TestSummarize(t *testing.T) {
	s := Summarize(books(t), 3)

	assert.Equal(t, 7, s.Rows)
	assert.Equal(t, []string{"Başlık", "Yazar", "Sayfa"}, s.Columns)
	assert.Len(t, s.Head, 3)
	assert.Equal(t, "Başlık", s.TitleColumn)
	assert.Equal(t, "Yazar", s.AuthorColumn)

	assert.Equal(t, 5, s.Complete)
	assert.Equal(t, []int{3, 5}, s.Incomplete)

	require.Len(t, s.Duplicates, 2)
	assert.Equal(t, Duplicate{Title: "Sefiller", Author: "Victor Hugo", Count: 3}, s.Duplicates[0])
	assert.Equal(t, Duplicate{Title: "Çalıkuşu", Author: "Reşat Nuri", Count: 2}, s.Duplicates[1])
	assert.Equal(t, 3, s.DuplicateRows())
}

func TestSummarizeFallsBackToFirstColumns(t *testing.T) {
	tbl := table.MustNew("A", "B")
	require.NoError(t, tbl.AppendValues(table.String("x"), table.String("y")))
	require.NoError(t, tbl.AppendValues(table.String("x"), table.Null()))

	s := Summarize(tbl, 0)
	assert.Equal(t, "A", s.TitleColumn)
	assert.Equal(t, "B", s.AuthorColumn)
	assert.Equal(t, 1, s.Complete)
	assert.Equal(t, []int{3}, s.Incomplete)
	assert.Empty(t, s.Head)
}

func TestSummarizeEmptyTable(t *testing.T) {
	s := Summarize(table.Table{}, 10)
	assert.Zero(t, s.Rows)
	assert.Empty(t, s.Duplicates)

	var buf bytes.Buffer
	s.Print(&buf, 5)
	assert.Contains(t, buf.String(), "Rows: 0")
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Summarize(books(t), 2).Print(&buf, 1)
	out := buf.String()

	assert.Contains(t, out, "Rows: 7")
	assert.Contains(t, out, "row 3: Nutuk | EMPTY | 100")
	assert.Contains(t, out, "rows: 3 (and 1 more)")
	assert.Contains(t, out, "Sefiller | Victor Hugo -> 3 times")
	assert.Contains(t, out, "... and 1 more")
}

func TestRandomDates(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	start := time.Date(2025, 10, 11, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	dates, err := RandomDates(rng, start, end, 2000)
	require.NoError(t, err)
	require.Len(t, dates, 2000)

	var sawStart, sawEnd bool
	for _, d := range dates {
		assert.False(t, d.Before(start))
		assert.False(t, d.After(end))
		sawStart = sawStart || d.Equal(start)
		sawEnd = sawEnd || d.Equal(end)
	}
	assert.True(t, sawStart && sawEnd, "both bounds are inclusive")

	same, err := RandomDates(rng, start, start, 3)
	require.NoError(t, err)
	for _, d := range same {
		assert.Equal(t, start, d)
	}
}

func TestRandomDatesErrors(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	start := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	_, err := RandomDates(rng, start, start.AddDate(0, 0, -1), 5)
	assert.Error(t, err)

	_, err = RandomDates(rng, start, start, 0)
	assert.Error(t, err)
}

func TestParseDateAndTable(t *testing.T) {
	d, err := ParseDate(DefaultDateFormat, "11/10/2025")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 11, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate(DefaultDateFormat, "2025-10-11")
	assert.Error(t, err)

	tbl := DatesTable([]time.Time{d}, DefaultDateFormat)
	assert.Equal(t, []string{DateColumn}, tbl.Columns)
	assert.Equal(t, "11/10/2025", tbl.Rows[0].Get(DateColumn).String())

	tbl = DatesTable([]time.Time{d}, "%Y-%m-%d")
	assert.Equal(t, "2025-10-11", tbl.Rows[0].Get(DateColumn).String())
}
