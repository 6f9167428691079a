package progress

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Tracker reports how many rows have been generated so far.
// A disabled tracker only counts.
type Tracker struct {
	out       io.Writer
	enabled   bool
	bar       *progressbar.ProgressBar
	total     int64
	current   atomic.Int64
	startTime time.Time
}

// New creates a tracker writing to w (stderr when nil). When enabled is
// false no bar is drawn.
func New(w io.Writer, enabled bool) *Tracker {
	if w == nil {
		w = os.Stderr
	}
	return &Tracker{
		out:       w,
		enabled:   enabled,
		startTime: time.Now(),
	}
}

// SetTotal sets the number of rows expected across all tables.
func (t *Tracker) SetTotal(total int64) {
	t.total = total
	if !t.enabled {
		return
	}
	t.bar = progressbar.NewOptions64(
		total,
		progressbar.OptionSetWriter(t.out),
		progressbar.OptionSetDescription("Generating"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("rows"),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Describe labels the stage currently being generated.
func (t *Tracker) Describe(stage string) {
	if t.bar != nil {
		t.bar.Describe(stage)
	}
}

// Add records n more generated rows.
func (t *Tracker) Add(n int64) {
	if n <= 0 {
		return
	}
	t.current.Add(n)
	if t.bar != nil {
		t.bar.Add64(n)
	}
}

// Current returns the number of rows recorded.
func (t *Tracker) Current() int64 {
	return t.current.Load()
}

// Total returns the expected number of rows.
func (t *Tracker) Total() int64 {
	return t.total
}

// Finish closes the bar and prints a one-line summary.
func (t *Tracker) Finish() {
	if t.bar != nil {
		t.bar.Finish()
		fmt.Fprintln(t.out)
	}
	if !t.enabled {
		return
	}
	elapsed := time.Since(t.startTime)
	fmt.Fprintf(t.out, "Generated %d rows in %s\n", t.current.Load(), elapsed.Round(time.Millisecond))
}
