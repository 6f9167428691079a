package pipeline

import (
	"fmt"
	"time"
)

// Stats tracks where a run spent its time.
type Stats struct {
	// LoadTime is total time spent reading the input tables.
	LoadTime time.Duration

	// GenerateTime is total time spent extending and stitching.
	GenerateTime time.Duration

	// SaveTime is total time spent writing the output tables.
	SaveTime time.Duration

	// Rows is the number of rows synthesized across all tables.
	Rows int64
}

// String returns a formatted summary of the stats.
func (s *Stats) String() string {
	total := s.TotalTime()
	if total == 0 {
		return "no data"
	}
	return fmt.Sprintf("load=%.1fs (%.0f%%), generate=%.1fs (%.0f%%), save=%.1fs (%.0f%%), rows=%d",
		s.LoadTime.Seconds(), float64(s.LoadTime)/float64(total)*100,
		s.GenerateTime.Seconds(), float64(s.GenerateTime)/float64(total)*100,
		s.SaveTime.Seconds(), float64(s.SaveTime)/float64(total)*100,
		s.Rows)
}

// TotalTime returns the sum of all timing components.
func (s *Stats) TotalTime() time.Duration {
	return s.LoadTime + s.GenerateTime + s.SaveTime
}

// RowsPerSecond calculates the throughput.
func (s *Stats) RowsPerSecond() float64 {
	total := s.TotalTime()
	if total == 0 {
		return 0
	}
	return float64(s.Rows) / total.Seconds()
}
