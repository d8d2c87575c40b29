package consumption

import (
	"errors"
	"fmt"
	"strings"
)

// Validation rules reported by ValidationError.
const (
	RuleCrossed   = "crossed"
	RuleNegative  = "negative"
	RuleDayHours  = "day-hours"
	RuleNonFinite = "non-finite"
	RuleUnknown   = "unknown"
)

var (
	// ErrMissingSchedule is returned when a recurrence is computed for a
	// request that carries no schedule.
	ErrMissingSchedule = errors.New("request has no schedule")
	// ErrUnknownRequest is returned when a name is absent from Requests.
	ErrUnknownRequest = errors.New("unknown request")
	// ErrNonFiniteTime is returned when a run would start or end at NaN or Inf.
	ErrNonFiniteTime = errors.New("non-finite run time")
	// ErrTriggerCycle is returned when triggers lead back to their source.
	ErrTriggerCycle = errors.New("trigger cycle")
)

// ValidationError reports a configuration value rejected at load time.
type ValidationError struct {
	Field string
	Rule  string
	From  float64
	To    float64
	Msg   string
}

func (e *ValidationError) Error() string {
	field := e.Field
	if field == "" {
		field = "range"
	}
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s: %s", field, e.Rule, e.Msg)
	}
	return fmt.Sprintf("%s: %s bounds {from: %g, to: %g}", field, e.Rule, e.From, e.To)
}

// UnknownTriggerError reports a trigger pointing to a request that does not exist.
type UnknownTriggerError struct {
	Source Name
	Target Name
}

func (e *UnknownTriggerError) Error() string {
	return fmt.Sprintf("request %q triggers unknown request %q", e.Source, e.Target)
}

func (e *UnknownTriggerError) Unwrap() error { return ErrUnknownRequest }

// NonFiniteTimeError reports a run whose start or end cannot be ordered.
type NonFiniteTimeError struct {
	Name    Name
	StartAt float64
	EndAt   float64
}

func (e *NonFiniteTimeError) Error() string {
	return fmt.Sprintf("run of %q has non-finite time (start %v, end %v)", e.Name, e.StartAt, e.EndAt)
}

func (e *NonFiniteTimeError) Unwrap() error { return ErrNonFiniteTime }

// TriggerCycleError reports requests that trigger each other in a loop.
// Path starts and ends with the same name. MinDuration is the shortest
// total duration one pass around the loop can take.
type TriggerCycleError struct {
	Path        []Name
	MinDuration float64
}

func (e *TriggerCycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, n := range e.Path {
		parts[i] = string(n)
	}
	loop := strings.Join(parts, " -> ")
	if e.MinDuration <= 0 {
		return fmt.Sprintf("trigger cycle %s can take zero time and never advances", loop)
	}
	return fmt.Sprintf("trigger cycle %s repeats every %gh at least and never ends", loop, e.MinDuration)
}

func (e *TriggerCycleError) Unwrap() error { return ErrTriggerCycle }
