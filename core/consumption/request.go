package consumption

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Name identifies a request.
type Name string

// Schedule is the recurrence policy of a request.
type Schedule struct {
	// Interval is the wait between the end of one run and the next start.
	Interval Range
	// RestrictHours is the time-of-day window a run may start in.
	RestrictHours Range
	// DelayUpTo caps the random extra delay added after a start was pushed
	// into RestrictHours.
	DelayUpTo float64
}

// Trigger starts Other as soon as the owning request finishes.
type Trigger struct {
	Other Name
}

// Delay is carried configuration; scheduling does not consult it yet.
type Delay struct {
	MaxHours     int
	MaxInstances int
}

// Request describes one appliance.
type Request struct {
	Schedule *Schedule
	Usage    []Usage
	Trigger  []Trigger
	Delay    *Delay
}

// NextAfter returns the start of the occurrence following one that ended
// at end. It fails with ErrMissingSchedule when r has no schedule.
func (r *Request) NextAfter(end float64, rnd Rand) (float64, error) {
	s := r.Schedule
	if s == nil {
		return 0, ErrMissingSchedule
	}
	start := end + s.Interval.Pick(rnd)
	partOfDay := math.Mod(start, HoursPerDay)
	if partOfDay < 0 {
		partOfDay += HoursPerDay
	}

	var adjust float64
	switch {
	case partOfDay < s.RestrictHours.From():
		adjust = s.RestrictHours.From() - partOfDay
	case partOfDay > s.RestrictHours.To():
		// Too late today: move to the window start of the next day.
		adjust = s.RestrictHours.From() + (HoursPerDay - partOfDay)
	default:
		return start, nil
	}
	maxDelay := math.Min(s.RestrictHours.Len(), s.DelayUpTo)
	return start + adjust + rnd.Uniform(0, maxDelay), nil
}

// Consumption samples every usage segment once.
func (r *Request) Consumption(rnd Rand) []UsedPower {
	out := make([]UsedPower, len(r.Usage))
	for i, u := range r.Usage {
		out[i] = u.Pick(rnd)
	}
	return out
}

// Requests owns every request of a site. It is read-only once built.
type Requests struct {
	byName map[Name]*Request
	names  []Name
}

// NewRequests copies reqs into a Requests collection.
func NewRequests(reqs map[Name]Request) Requests {
	rs := Requests{byName: make(map[Name]*Request, len(reqs))}
	for name, req := range reqs {
		r := req
		rs.byName[name] = &r
		rs.names = append(rs.names, name)
	}
	slices.Sort(rs.names)
	return rs
}

// Len returns the number of requests.
func (rs Requests) Len() int { return len(rs.names) }

// Names returns the request names in ascending order.
func (rs Requests) Names() []Name { return slices.Clone(rs.names) }

// Lookup returns the request registered under name.
func (rs Requests) Lookup(name Name) (*Request, error) {
	r, ok := rs.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRequest, name)
	}
	return r, nil
}

// CheckTriggers reports every trigger whose target is missing.
func (rs Requests) CheckTriggers() error {
	var errs []error
	for _, name := range rs.names {
		for _, t := range rs.byName[name].Trigger {
			if _, ok := rs.byName[t.Other]; !ok {
				errs = append(errs, &UnknownTriggerError{Source: name, Target: t.Other})
			}
		}
	}
	return errors.Join(errs...)
}

// MinDuration is the shortest time a run of r can last.
func (r *Request) MinDuration() float64 {
	var d float64
	for _, u := range r.Usage {
		d += u.Duration.From()
	}
	return d
}

// CheckCycles reports trigger loops. Every run entering a loop spawns an
// endless chain, so the pending set grows with each scheduled run, and a
// loop of zero duration never lets time advance. Triggers to unknown
// requests are left to CheckTriggers.
func (rs Requests) CheckCycles() error {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[Name]int, len(rs.names))
	var (
		stack []Name
		errs  []error
		visit func(Name)
	)
	visit = func(n Name) {
		state[n] = active
		stack = append(stack, n)
		for _, t := range rs.byName[n].Trigger {
			if _, ok := rs.byName[t.Other]; !ok {
				continue
			}
			switch state[t.Other] {
			case unvisited:
				visit(t.Other)
			case active:
				start := slices.Index(stack, t.Other)
				path := append(slices.Clone(stack[start:]), t.Other)
				var least float64
				for _, p := range path[:len(path)-1] {
					least += rs.byName[p].MinDuration()
				}
				errs = append(errs, &TriggerCycleError{Path: path, MinDuration: least})
			}
		}
		stack = stack[:len(stack)-1]
		state[n] = done
	}
	for _, n := range rs.names {
		if state[n] == unvisited {
			visit(n)
		}
	}
	return errors.Join(errs...)
}
