package consumption

import "fmt"

// Source tells where a usage segment draws its power from.
type Source string

const (
	Line1 Source = "line-1"
	Line2 Source = "line-2"
	Line3 Source = "line-3"
	// RandomLine is resolved to one of the fixed lines on every sample.
	RandomLine Source = "random-line"
	// AnyLine and AllLines are resolved by the consumer of the runs.
	AnyLine  Source = "any-line"
	AllLines Source = "all-lines"
	// HotWater draws hot water instead of electricity (equivalent power).
	HotWater Source = "hot-water"
)

var fixedLines = [...]Source{Line1, Line2, Line3}

// ParseSource returns the Source named s.
func ParseSource(s string) (Source, error) {
	switch src := Source(s); src {
	case Line1, Line2, Line3, RandomLine, AnyLine, AllLines, HotWater:
		return src, nil
	}
	return "", fmt.Errorf("unknown power source %q", s)
}

// Usage is one segment of an appliance cycle.
type Usage struct {
	// Power in watts.
	Power Range
	// Duration in hours.
	Duration Range
	Source   Source
}

// UsedPower is a sampled Usage.
type UsedPower struct {
	Power    float64 `json:"power_w"`
	Duration float64 `json:"duration_h"`
	Source   Source  `json:"source"`
}

// Pick samples power and duration independently and resolves RandomLine.
func (u Usage) Pick(rnd Rand) UsedPower {
	p := UsedPower{
		Power:    u.Power.Pick(rnd),
		Duration: u.Duration.Pick(rnd),
		Source:   u.Source,
	}
	if p.Source == RandomLine {
		p.Source = rnd.Line()
	}
	return p
}
