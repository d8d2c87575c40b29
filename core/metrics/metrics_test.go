package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kilianp07/homeload/core/consumption"
	"github.com/kilianp07/homeload/core/factory"
)

type recordSink struct {
	batches  []Batch
	err      error
	flushed  int
	flushErr error
}

func (r *recordSink) RecordRuns(b Batch) error {
	r.batches = append(r.batches, b)
	return r.err
}

func (r *recordSink) Flush() error {
	r.flushed++
	return r.flushErr
}

func TestBatchAt(t *testing.T) {
	epoch := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	b := Batch{Epoch: epoch}
	if got := b.At(25.5); !got.Equal(epoch.Add(25*time.Hour + 30*time.Minute)) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestMultiSinkForwards(t *testing.T) {
	a, b := &recordSink{}, &recordSink{}
	m := NewMultiSink(a, b, NopSink{})
	batch := Batch{Session: "s", Runs: []consumption.Run{{Name: "boiler"}}}
	if err := m.RecordRuns(batch); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(a.batches) != 1 || len(b.batches) != 1 {
		t.Fatalf("batch not forwarded")
	}
	if err := m.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if a.flushed != 1 || b.flushed != 1 {
		t.Fatalf("flush not forwarded")
	}
}

func TestMultiSinkErrors(t *testing.T) {
	boom := errors.New("boom")
	a, b := &recordSink{err: boom, flushErr: boom}, &recordSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordRuns(Batch{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom got %v", err)
	}
	if len(b.batches) != 1 {
		t.Fatalf("later sinks must still receive the batch")
	}
	if err := m.Flush(); !errors.Is(err, boom) {
		t.Fatalf("expected flush error got %v", err)
	}
	if b.flushed != 1 {
		t.Fatalf("flush should reach every sink")
	}
}

func TestNewRunSink(t *testing.T) {
	rec := &recordSink{}
	if err := RegisterRunSink("test-record", func(map[string]any) (RunSink, error) { return rec, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	s, err := NewRunSink(nil)
	if err != nil {
		t.Fatalf("nop: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("expected NopSink got %T", s)
	}
	s, err = NewRunSink([]factory.ModuleConfig{{Type: "test-record"}})
	if err != nil || s != rec {
		t.Fatalf("expected registered sink, got %T %v", s, err)
	}
	s, err = NewRunSink([]factory.ModuleConfig{{Type: "test-record"}, {Type: "test-record"}})
	if err != nil {
		t.Fatalf("multi: %v", err)
	}
	if _, ok := s.(*MultiSink); !ok {
		t.Fatalf("expected MultiSink got %T", s)
	}
	flushedBefore := rec.flushed
	_, err = NewRunSink([]factory.ModuleConfig{{Type: "test-record"}, {Type: "nope"}})
	if err == nil || !strings.Contains(err.Error(), "sinks[1]") {
		t.Fatalf("expected unknown type error for sinks[1], got %v", err)
	}
	if rec.flushed != flushedBefore+1 {
		t.Fatalf("sink built before the failure must be flushed")
	}
}

func TestMultiSinkJoinsRecordErrors(t *testing.T) {
	e1, e2 := errors.New("influx down"), errors.New("broker down")
	a, b, c := &recordSink{err: e1}, &recordSink{err: e2}, &recordSink{}
	err := NewMultiSink(a, b, c).RecordRuns(Batch{Session: "s"})
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("expected both errors, got %v", err)
	}
	if len(c.batches) != 1 {
		t.Fatalf("healthy sink missed the batch")
	}
}
