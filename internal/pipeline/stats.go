package pipeline

import (
	"time"

	"github.com/backmassage/swfsprite/internal/extract"
)

// RunStats tracks aggregate counters across a batch run. Results are kept
// in completion order for the JSON report.
type RunStats struct {
	Started   time.Time
	Total     int
	Completed int
	Succeeded int
	Failed    int
	ByKind    map[extract.Kind]int
	Elapsed   time.Duration
	Results   []extract.Result
}

func newRunStats() RunStats {
	return RunStats{
		Started: time.Now(),
		ByKind:  make(map[extract.Kind]int),
	}
}

// Add records one completed file.
func (s *RunStats) Add(r extract.Result) {
	s.Completed++
	if r.OK() {
		s.Succeeded++
	} else {
		s.Failed++
	}
	if s.ByKind == nil {
		s.ByKind = make(map[extract.Kind]int)
	}
	s.ByKind[r.Kind]++
	s.Results = append(s.Results, r)
}

// Outputs returns the PNG paths written during the run, in completion order.
func (s *RunStats) Outputs() []string {
	var out []string
	for _, r := range s.Results {
		if r.Kind == extract.KindSuccess && r.Output != "" {
			out = append(out, r.Output)
		}
	}
	return out
}
