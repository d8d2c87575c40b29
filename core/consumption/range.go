package consumption

import (
	"errors"
	"math"
)

// HoursPerDay is the length of the daily cycle used by day-hours ranges.
const HoursPerDay = 24.0

// Policy checks the bounds of a range before it is accepted.
type Policy interface {
	Check(from, to float64) error
}

// Basic accepts finite, non-negative, non-crossed ranges.
type Basic struct{}

func (Basic) Check(from, to float64) error {
	switch {
	case math.IsNaN(from) || math.IsNaN(to) || math.IsInf(from, 0) || math.IsInf(to, 0):
		return &ValidationError{Rule: RuleNonFinite, From: from, To: to}
	case from > to:
		return &ValidationError{Rule: RuleCrossed, From: from, To: to}
	case from < 0:
		return &ValidationError{Rule: RuleNegative, From: from, To: to}
	}
	return nil
}

// DayHours is Basic capped to a single day.
type DayHours struct{}

func (DayHours) Check(from, to float64) error {
	if err := (Basic{}).Check(from, to); err != nil {
		return err
	}
	if to > HoursPerDay {
		return &ValidationError{Rule: RuleDayHours, From: from, To: to}
	}
	return nil
}

// Range is a validated interval. The zero value is the degenerate range {0, 0}.
type Range struct {
	from float64
	to   float64
}

// NewRange validates {from, to} against p. The returned error is a
// *ValidationError carrying field.
func NewRange(field string, p Policy, from, to float64) (Range, error) {
	if err := p.Check(from, to); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.Field = field
		}
		return Range{}, err
	}
	return Range{from: from, to: to}, nil
}

// MustRange is NewRange that panics. Intended for tests and constants.
func MustRange(p Policy, from, to float64) Range {
	r, err := NewRange("", p, from, to)
	if err != nil {
		panic(err)
	}
	return r
}

// WholeDay is the day-hours range {0, 24}.
func WholeDay() Range { return Range{from: 0, to: HoursPerDay} }

func (r Range) From() float64 { return r.from }
func (r Range) To() float64   { return r.to }

// Len returns to - from.
func (r Range) Len() float64 { return r.to - r.from }

// Pick draws a uniform value in [from, to).
func (r Range) Pick(rnd Rand) float64 {
	return rnd.Uniform(r.from, r.to)
}
