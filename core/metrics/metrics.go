package metrics

import (
	"time"

	"github.com/kilianp07/homeload/core/consumption"
)

// Batch is a set of runs produced by one scheduling session.
type Batch struct {
	// Session identifies the scheduling session.
	Session string
	// Epoch is the wall-clock time mapped to simulated hour zero.
	Epoch time.Time
	Runs  []consumption.Run
}

// At converts simulated hours to wall-clock time relative to the epoch.
func (b Batch) At(hours float64) time.Time {
	return b.Epoch.Add(time.Duration(hours * float64(time.Hour)))
}

// RunSink records runs for observability purposes.
type RunSink interface {
	RecordRuns(b Batch) error
}

// Flusher is implemented by sinks buffering output until the session ends.
type Flusher interface {
	Flush() error
}

// NopSink implements RunSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRuns(Batch) error { return nil }
func (NopSink) Flush() error           { return nil }
