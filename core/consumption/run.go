package consumption

import (
	"cmp"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Run is one occurrence of a request. It refers to its request by name.
type Run struct {
	Name        Name        `json:"name"`
	StartAt     float64     `json:"start_at"`
	EndAt       float64     `json:"end_at"`
	Triggered   bool        `json:"triggered"`
	Consumption []UsedPower `json:"consumption"`
}

// NewRun samples the consumption of req starting at start.
func NewRun(name Name, req *Request, start float64, triggered bool, rnd Rand) (Run, error) {
	consumption := req.Consumption(rnd)
	durations := make([]float64, len(consumption))
	for i, c := range consumption {
		durations[i] = c.Duration
	}
	run := Run{
		Name:        name,
		StartAt:     start,
		EndAt:       start + floats.Sum(durations),
		Triggered:   triggered,
		Consumption: consumption,
	}
	if !finite(run.StartAt) || !finite(run.EndAt) {
		return Run{}, &NonFiniteTimeError{Name: name, StartAt: run.StartAt, EndAt: run.EndAt}
	}
	return run, nil
}

// Duration returns EndAt - StartAt.
func (r Run) Duration() float64 { return r.EndAt - r.StartAt }

// Compare orders runs by start, then untriggered before triggered, then by
// name. Times must be finite.
func Compare(a, b Run) int {
	if c := cmp.Compare(a.StartAt, b.StartAt); c != 0 {
		return c
	}
	if a.Triggered != b.Triggered {
		if a.Triggered {
			return 1
		}
		return -1
	}
	return strings.Compare(string(a.Name), string(b.Name))
}

// Equal reports whether a and b share start, triggered flag and name.
func Equal(a, b Run) bool { return Compare(a, b) == 0 }

// Window is a closed span of simulated hours.
type Window struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// Contains reports whether t lies in [From, To].
func (w Window) Contains(t float64) bool { return t >= w.From && t <= w.To }

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
