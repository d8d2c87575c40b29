package metrics

import (
	"errors"
	"fmt"

	"github.com/kilianp07/homeload/core/factory"
)

var sinkRegistry = factory.NewRegistry[RunSink]()

// RegisterRunSink adds a run sink factory identified by name.
func RegisterRunSink(name string, f factory.Factory[RunSink]) error {
	return sinkRegistry.Register(name, f)
}

// SinkTypes lists the registered sink types.
func SinkTypes() []string { return sinkRegistry.Types() }

// NewRunSink creates a RunSink from the provided configuration.
func NewRunSink(cfgs []factory.ModuleConfig) (RunSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]RunSink, 0, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			// release the clients of the sinks built so far
			ferr := NewMultiSink(sinks...).Flush()
			return nil, errors.Join(fmt.Errorf("sinks[%d]: %w", i, err), ferr)
		}
		sinks = append(sinks, s)
	}
	return NewMultiSink(sinks...), nil
}
