// Package xlsx stores tables in Excel workbooks. The first row of the sheet
// is the header. Cells are read as raw values, so numbers keep their digits
// whatever their display format; date cells are written and read as native
// Excel dates.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/omrozmen/libseed/internal/store"
	"github.com/omrozmen/libseed/internal/table"
)

// DefaultSheet is the sheet written when the location names none.
const DefaultSheet = "Sheet1"

// DateFormat is the number format of date cells written by Save.
const DateFormat = "yyyy-mm-dd"

func init() {
	store.Register(&Store{})
}

// Store implements store.Store for .xlsx workbooks.
type Store struct{}

// Name returns the primary format name.
func (s *Store) Name() string { return "xlsx" }

// Aliases returns alternative names for the format.
func (s *Store) Aliases() []string { return []string{"excel", "xlsm"} }

// Load reads loc.Sheet, or the first sheet when none is named.
func (s *Store) Load(ctx context.Context, loc store.Location) (table.Table, error) {
	if loc.Path == "" {
		return table.Table{}, errors.New("xlsx: path is required")
	}
	f, err := excelize.OpenFile(loc.Path)
	if err != nil {
		return table.Table{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := loc.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return table.Table{}, nil
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return table.Table{}, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	cr, err := newCellReader(f, sheet)
	if err != nil {
		return table.Table{}, err
	}

	var (
		header  []string
		records [][]string
	)
	for rowNum := 1; rows.Next(); rowNum++ {
		if err := ctx.Err(); err != nil {
			return table.Table{}, err
		}
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return table.Table{}, fmt.Errorf("reading row: %w", err)
		}
		if header == nil {
			header = cols
			if header == nil {
				header = []string{}
			}
			continue
		}
		for i, raw := range cols {
			if cols[i], err = cr.text(i+1, rowNum, raw); err != nil {
				return table.Table{}, err
			}
		}
		records = append(records, cols)
	}
	if err := rows.Error(); err != nil {
		return table.Table{}, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(header) == 0 {
		return table.Table{}, nil
	}
	return store.FromRecords(header, records)
}

// Save writes t to a new workbook at loc.Path, replacing any existing file.
func (s *Store) Save(ctx context.Context, loc store.Location, t table.Table) error {
	if loc.Path == "" {
		return errors.New("xlsx: path is required")
	}
	f := excelize.NewFile()
	defer f.Close()

	sheet := loc.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("naming sheet: %w", err)
		}
	}

	dateFmt := DateFormat
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fmt.Errorf("creating date style: %w", err)
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("creating stream writer: %w", err)
	}
	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i := range t.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cellValues(t.Values(i), dateStyle)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}

	if dir := filepath.Dir(loc.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}
	if err := f.SaveAs(loc.Path); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func cellValues(vals []table.Value, dateStyle int) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		switch v.Kind() {
		case table.KindNull:
			out[i] = nil
		case table.KindInt:
			n, _ := v.Integer()
			out[i] = n
		case table.KindDate:
			d, _ := v.Time()
			out[i] = excelize.Cell{StyleID: dateStyle, Value: d}
		default:
			out[i] = v.String()
		}
	}
	return out
}

// cellReader turns raw cell values into the text table.ParseCell expects:
// numbers in date-formatted cells become YYYY-MM-DD, integral numbers lose
// any fraction or exponent.
type cellReader struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	isDate   map[int]bool
}

func newCellReader(f *excelize.File, sheet string) (*cellReader, error) {
	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, fmt.Errorf("reading workbook properties: %w", err)
	}
	return &cellReader{
		f:        f,
		sheet:    sheet,
		date1904: props.Date1904 != nil && *props.Date1904,
		isDate:   make(map[int]bool),
	}, nil
}

func (r *cellReader) text(col, row int, raw string) (string, error) {
	num, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	isoDate := err != nil && len(raw) > len(time.DateOnly) && raw[len(time.DateOnly)] == 'T'
	if err != nil && !isoDate {
		return raw, nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	typ, err := r.f.GetCellType(r.sheet, cell)
	if err != nil {
		return "", fmt.Errorf("reading cell %s: %w", cell, err)
	}
	switch {
	case typ == excelize.CellTypeDate && isoDate:
		// ISO 8601 date cells (t="d").
		return raw[:len(time.DateOnly)], nil
	case isoDate, typ != excelize.CellTypeUnset && typ != excelize.CellTypeNumber:
		// Strings and booleans that happen to look like numbers or dates.
		return raw, nil
	}

	styleID, err := r.f.GetCellStyle(r.sheet, cell)
	if err != nil {
		return "", fmt.Errorf("reading style of %s: %w", cell, err)
	}
	isDate, err := r.dateStyle(styleID)
	if err != nil {
		return "", err
	}
	if isDate {
		t, err := excelize.ExcelDateToTime(num, r.date1904)
		if err != nil {
			return "", fmt.Errorf("converting date in %s: %w", cell, err)
		}
		return t.Format(time.DateOnly), nil
	}
	if num == math.Trunc(num) && math.Abs(num) < 1<<53 {
		return strconv.FormatInt(int64(num), 10), nil
	}
	return raw, nil
}

func (r *cellReader) dateStyle(id int) (bool, error) {
	if d, ok := r.isDate[id]; ok {
		return d, nil
	}
	d := false
	if id > 0 {
		style, err := r.f.GetStyle(id)
		if err != nil {
			return false, fmt.Errorf("reading style %d: %w", id, err)
		}
		if style.CustomNumFmt != nil {
			d = isDateFormat(*style.CustomNumFmt)
		} else {
			d = isBuiltInDateFormat(style.NumFmt)
		}
	}
	r.isDate[id] = d
	return d, nil
}

// isBuiltInDateFormat reports whether a built-in number format id shows a
// date. Ids 27 to 58 are locale specific; only those that are dates in the
// East Asian locales are listed.
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 17, id == 22,
		id >= 27 && id <= 31, id == 36,
		id >= 50 && id <= 54, id == 57, id == 58:
		return true
	}
	return false
}

// isDateFormat reports whether a custom number format code shows a year or
// a day. Quoted literals, escaped characters and bracketed sections such as
// colors and locales are skipped; elapsed-time codes like [h]:mm are not
// dates.
func isDateFormat(code string) bool {
	inQuote, inBracket, escaped := false, false, false
	for _, c := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = c != '"'
		case inBracket:
			inBracket = c != ']'
		case c == '\\':
			escaped = true
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == ';':
			// Only the first section decides.
			return false
		case c == 'y' || c == 'd':
			return true
		}
	}
	return false
}
