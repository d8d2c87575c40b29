package scheduler

import (
	"container/heap"
	"errors"
	"iter"
	"slices"

	"github.com/kilianp07/homeload/core/consumption"
	"github.com/kilianp07/homeload/core/logger"
)

// ErrExhausted is returned by Next once no run is pending. It only happens
// when no request carries a schedule.
var ErrExhausted = errors.New("no pending runs")

// Scheduler produces the runs of a Requests collection in start order.
// A Scheduler is a single traversal and is not safe for concurrent use;
// create another one to restart from hour zero.
type Scheduler struct {
	requests consumption.Requests
	rnd      consumption.Rand
	queue    runQueue
	log      logger.Logger
	err      error
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for scheduling diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// New seeds a scheduler with the first occurrence of every scheduled request.
// Requests whose triggers form a loop are rejected.
func New(reqs consumption.Requests, rnd consumption.Rand, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{requests: reqs, rnd: rnd, log: logger.Nop{}}
	for _, o := range opts {
		o(s)
	}
	if err := reqs.CheckCycles(); err != nil {
		return nil, err
	}
	for _, name := range reqs.Names() {
		req, err := reqs.Lookup(name)
		if err != nil {
			return nil, err
		}
		if req.Schedule == nil {
			continue
		}
		start, err := req.NextAfter(0, rnd)
		if err != nil {
			return nil, err
		}
		run, err := consumption.NewRun(name, req, start, false, rnd)
		if err != nil {
			return nil, err
		}
		s.queue = append(s.queue, run)
		s.log.Debugf("seeded %s at %.3fh", name, run.StartAt)
	}
	heap.Init(&s.queue)
	return s, nil
}

// Next returns the earliest pending run and schedules its successors: the
// next self-recurrence when the run was not triggered, and one triggered
// run per trigger starting when this run ends.
//
// Errors are sticky. On failure the popped run is put back so Pending still
// reports every computed run.
func (s *Scheduler) Next() (consumption.Run, error) {
	if s.err != nil {
		return consumption.Run{}, s.err
	}
	if len(s.queue) == 0 {
		return consumption.Run{}, ErrExhausted
	}
	run := heap.Pop(&s.queue).(consumption.Run)
	next, err := s.successors(run)
	if err != nil {
		heap.Push(&s.queue, run)
		s.err = err
		s.log.Errorf("scheduling stopped at %s (%.3fh): %v", run.Name, run.StartAt, err)
		return consumption.Run{}, err
	}
	for _, n := range next {
		heap.Push(&s.queue, n)
	}
	return run, nil
}

func (s *Scheduler) successors(run consumption.Run) ([]consumption.Run, error) {
	req, err := s.requests.Lookup(run.Name)
	if err != nil {
		return nil, err
	}
	targets := make([]*consumption.Request, len(req.Trigger))
	for i, t := range req.Trigger {
		target, err := s.requests.Lookup(t.Other)
		if err != nil {
			return nil, &consumption.UnknownTriggerError{Source: run.Name, Target: t.Other}
		}
		targets[i] = target
	}

	next := make([]consumption.Run, 0, len(targets)+1)
	if !run.Triggered {
		start, err := req.NextAfter(run.EndAt, s.rnd)
		if err != nil {
			return nil, err
		}
		r, err := consumption.NewRun(run.Name, req, start, false, s.rnd)
		if err != nil {
			return nil, err
		}
		next = append(next, r)
	}
	for i, t := range req.Trigger {
		r, err := consumption.NewRun(t.Other, targets[i], run.EndAt, true, s.rnd)
		if err != nil {
			return nil, err
		}
		s.log.Debugf("%s triggers %s at %.3fh", run.Name, t.Other, run.EndAt)
		next = append(next, r)
	}
	return next, nil
}

// Err returns the error that stopped the scheduler, if any.
func (s *Scheduler) Err() error { return s.err }

// Pending returns a copy of the queued runs in start order.
func (s *Scheduler) Pending() []consumption.Run {
	out := slices.Clone([]consumption.Run(s.queue))
	slices.SortFunc(out, consumption.Compare)
	return out
}

// All yields runs until the consumer stops, the queue empties or an error
// occurs. An error is yielded once, with a zero run, and ends the sequence.
// The sequence is potentially infinite.
func (s *Scheduler) All() iter.Seq2[consumption.Run, error] {
	return func(yield func(consumption.Run, error) bool) {
		for {
			run, err := s.Next()
			if errors.Is(err, ErrExhausted) {
				return
			}
			if err != nil {
				yield(consumption.Run{}, err)
				return
			}
			if !yield(run, nil) {
				return
			}
		}
	}
}

// Collect returns the runs starting inside w.
func (s *Scheduler) Collect(w consumption.Window) ([]consumption.Run, error) {
	var runs []consumption.Run
	for run, err := range Within(s.All(), w) {
		if err != nil {
			return runs, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// Runs returns a sequence that builds a fresh scheduler each time it is
// ranged over, so every traversal starts from hour zero.
func Runs(reqs consumption.Requests, rnd consumption.Rand, opts ...Option) iter.Seq2[consumption.Run, error] {
	return func(yield func(consumption.Run, error) bool) {
		s, err := New(reqs, rnd, opts...)
		if err != nil {
			yield(consumption.Run{}, err)
			return
		}
		s.All()(yield)
	}
}

// Within skips runs starting before w.From and stops at the first run
// starting after w.To. Errors are passed through and end the sequence.
func Within(seq iter.Seq2[consumption.Run, error], w consumption.Window) iter.Seq2[consumption.Run, error] {
	return func(yield func(consumption.Run, error) bool) {
		for run, err := range seq {
			if err != nil {
				yield(run, err)
				return
			}
			if run.StartAt < w.From {
				continue
			}
			if run.StartAt > w.To {
				return
			}
			if !yield(run, nil) {
				return
			}
		}
	}
}
