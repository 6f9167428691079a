package report

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/omrozmen/libseed/internal/table"
)

// DateColumn is the column name of a generated date list.
const DateColumn = "Tarih"

// DefaultDateFormat is the strftime format used for input and output dates.
const DefaultDateFormat = "%d/%m/%Y"

// ParseDate parses s using a strftime format.
func ParseDate(format, s string) (time.Time, error) {
	t, err := strftime.Parse(format, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q with format %q: %w", s, format, err)
	}
	return t, nil
}

// RandomDates draws count dates uniformly from start to end, both included.
func RandomDates(rng *rand.Rand, start, end time.Time, count int) ([]time.Time, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return nil, errors.New("end date must not be before start date")
	}
	span := int(end.Sub(start).Hours() / 24)
	out := make([]time.Time, count)
	for i := range out {
		out[i] = start.AddDate(0, 0, rng.IntN(span+1))
	}
	return out, nil
}

// DatesTable renders dates as a one-column table formatted with a strftime
// format.
func DatesTable(dates []time.Time, format string) table.Table {
	t := table.MustNew(DateColumn)
	for _, d := range dates {
		t.Rows = append(t.Rows, table.Row{DateColumn: table.String(strftime.Format(format, d))})
	}
	return t
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
