package metrics_test

import (
	"slices"
	"testing"

	"github.com/kilianp07/homeload/core/factory"
	metrics "github.com/kilianp07/homeload/core/metrics"
	_ "github.com/kilianp07/homeload/infra/metrics"
)

/*
TestMetricsFactory_Builtins verifies registration via infra/metrics/factory.go.

	Cases:
	- every builtin type is registered
	- instantiate builtin nop sink
	- unknown type returns error
*/
func TestMetricsFactory_Builtins(t *testing.T) {
	types := metrics.SinkTypes()
	for _, want := range []string{"influx", "mqtt", "nop", "prometheus"} {
		if !slices.Contains(types, want) {
			t.Fatalf("missing builtin sink %s in %v", want, types)
		}
	}
	s, err := metrics.NewRunSink([]factory.ModuleConfig{{Type: "nop"}})
	if err != nil {
		t.Fatalf("create nop: %v", err)
	}
	if s == nil {
		t.Fatal("expected sink instance")
	}
	if _, err := metrics.NewRunSink([]factory.ModuleConfig{{Type: "missing"}}); err == nil {
		t.Fatal("expected error for unknown type")
	}
}
