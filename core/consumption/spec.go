package consumption

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// RangeSpec is an unchecked {from, to} pair as it appears in configuration.
type RangeSpec struct {
	From float64 `json:"from" yaml:"from"`
	To   float64 `json:"to" yaml:"to"`
}

// ScheduleSpec is the configuration shape of a Schedule.
type ScheduleSpec struct {
	IntervalHours RangeSpec  `json:"interval-hours" yaml:"interval-hours"`
	RestrictHours *RangeSpec `json:"restrict-hours" yaml:"restrict-hours"`
	DelayUpTo     float64    `json:"delay-up-to" yaml:"delay-up-to"`
}

// UsageSpec is the configuration shape of a Usage.
type UsageSpec struct {
	Power    RangeSpec `json:"power" yaml:"power"`
	Duration RangeSpec `json:"duration" yaml:"duration"`
	Source   string    `json:"source" yaml:"source"`
}

// TriggerSpec is the configuration shape of a Trigger.
type TriggerSpec struct {
	Other string `json:"other" yaml:"other"`
}

// DelaySpec is the configuration shape of a Delay.
type DelaySpec struct {
	MaxHours     int `json:"max-hours" yaml:"max-hours"`
	MaxInstances int `json:"max-instances" yaml:"max-instances"`
}

// RequestSpec is the configuration shape of a Request.
type RequestSpec struct {
	Schedule *ScheduleSpec `json:"schedule" yaml:"schedule"`
	Usage    []UsageSpec   `json:"usage" yaml:"usage"`
	Trigger  []TriggerSpec `json:"trigger" yaml:"trigger"`
	Delay    *DelaySpec    `json:"delay" yaml:"delay"`
}

// Build validates specs and returns the resulting Requests. Every invalid
// field is reported; nothing is returned unless all of them are valid.
// prefix is prepended to field paths in errors.
func Build(prefix string, specs map[string]RequestSpec) (Requests, error) {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	slices.Sort(names)

	reqs := make(map[Name]Request, len(specs))
	var errs []error
	for _, name := range names {
		req, err := specs[name].build(joinField(prefix, name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reqs[Name(name)] = req
	}
	if err := errors.Join(errs...); err != nil {
		return Requests{}, err
	}
	return NewRequests(reqs), nil
}

func (s RequestSpec) build(field string) (Request, error) {
	var (
		req  Request
		errs []error
	)
	if s.Schedule != nil {
		sched, err := s.Schedule.build(joinField(field, "schedule"))
		if err != nil {
			errs = append(errs, err)
		}
		req.Schedule = sched
	}
	for i, u := range s.Usage {
		usage, err := u.build(fmt.Sprintf("%s.usage[%d]", field, i))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		req.Usage = append(req.Usage, usage)
	}
	for i, t := range s.Trigger {
		if t.Other == "" {
			errs = append(errs, &ValidationError{
				Field: fmt.Sprintf("%s.trigger[%d].other", field, i),
				Rule:  RuleUnknown,
				Msg:   "empty request name",
			})
			continue
		}
		req.Trigger = append(req.Trigger, Trigger{Other: Name(t.Other)})
	}
	if s.Delay != nil {
		req.Delay = &Delay{MaxHours: s.Delay.MaxHours, MaxInstances: s.Delay.MaxInstances}
	}
	return req, errors.Join(errs...)
}

func (s ScheduleSpec) build(field string) (*Schedule, error) {
	interval, err := NewRange(joinField(field, "interval-hours"), Basic{}, s.IntervalHours.From, s.IntervalHours.To)
	if err != nil {
		return nil, err
	}
	restrict := WholeDay()
	if s.RestrictHours != nil {
		restrict, err = NewRange(joinField(field, "restrict-hours"), DayHours{}, s.RestrictHours.From, s.RestrictHours.To)
		if err != nil {
			return nil, err
		}
	}
	if !finite(s.DelayUpTo) || s.DelayUpTo < 0 {
		rule := RuleNegative
		if !finite(s.DelayUpTo) {
			rule = RuleNonFinite
		}
		return nil, &ValidationError{
			Field: joinField(field, "delay-up-to"),
			Rule:  rule,
			From:  s.DelayUpTo,
			To:    s.DelayUpTo,
		}
	}
	return &Schedule{Interval: interval, RestrictHours: restrict, DelayUpTo: s.DelayUpTo}, nil
}

func (s UsageSpec) build(field string) (Usage, error) {
	power, err := NewRange(joinField(field, "power"), Basic{}, s.Power.From, s.Power.To)
	if err != nil {
		return Usage{}, err
	}
	duration, err := NewRange(joinField(field, "duration"), Basic{}, s.Duration.From, s.Duration.To)
	if err != nil {
		return Usage{}, err
	}
	src, err := ParseSource(s.Source)
	if err != nil {
		return Usage{}, &ValidationError{Field: joinField(field, "source"), Rule: RuleUnknown, Msg: err.Error()}
	}
	return Usage{Power: power, Duration: duration, Source: src}, nil
}

func joinField(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return strings.Join([]string{prefix, name}, ".")
}
