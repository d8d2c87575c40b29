// Package stats summarises scheduled runs per request.
package stats

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/homeload/core/consumption"
)

// Summary describes the runs of one request.
type Summary struct {
	Name      consumption.Name `json:"name"`
	Runs      int              `json:"runs"`
	Triggered int              `json:"triggered"`

	// Gap statistics cover the start-to-start spacing of consecutive
	// scheduled (not triggered) runs.
	GapMean        float64 `json:"gap_mean_h"`
	GapStdDev      float64 `json:"gap_stddev_h"`
	DurationMean   float64 `json:"duration_mean_h"`
	DurationStdDev float64 `json:"duration_stddev_h"`
}

// Summarize groups runs by request name. runs must be in start order, as
// produced by the scheduler. The result is sorted by name.
func Summarize(runs []consumption.Run) []Summary {
	type acc struct {
		runs, triggered int
		lastStart       float64
		seen            bool
		gaps, durations []float64
	}
	by := make(map[consumption.Name]*acc)
	for _, r := range runs {
		a := by[r.Name]
		if a == nil {
			a = &acc{}
			by[r.Name] = a
		}
		a.runs++
		a.durations = append(a.durations, r.Duration())
		if r.Triggered {
			a.triggered++
			continue
		}
		if a.seen {
			a.gaps = append(a.gaps, r.StartAt-a.lastStart)
		}
		a.lastStart, a.seen = r.StartAt, true
	}

	out := make([]Summary, 0, len(by))
	for name, a := range by {
		s := Summary{Name: name, Runs: a.runs, Triggered: a.triggered}
		s.GapMean, s.GapStdDev = meanStdDev(a.gaps)
		s.DurationMean, s.DurationStdDev = meanStdDev(a.durations)
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b Summary) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// meanStdDev returns zeros where gonum would report NaN.
func meanStdDev(x []float64) (mean, std float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

// Write prints summaries as an aligned table.
func Write(w io.Writer, sums []Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "REQUEST\tRUNS\tTRIGGERED\tGAP MEAN (h)\tGAP STDDEV (h)\tDURATION MEAN (h)\tDURATION STDDEV (h)"); err != nil {
		return err
	}
	for _, s := range sums {
		if _, err := fmt.Fprintf(tw, "%s\t%d\t%d\t%.3f\t%.3f\t%.3f\t%.3f\n",
			s.Name, s.Runs, s.Triggered, s.GapMean, s.GapStdDev, s.DurationMean, s.DurationStdDev); err != nil {
			return err
		}
	}
	return tw.Flush()
}
