package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/homeload/core/metrics"
)

// PromConfig configures the Prometheus sink.
type PromConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace"`
	// Textfile, when set, receives the gathered metrics on Flush so a batch
	// run can be picked up by node_exporter's textfile collector.
	Textfile string `json:"textfile"`
}

// PromSink records runs in Prometheus metrics.
type PromSink struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	power    *prometheus.HistogramVec
	last     *prometheus.GaugeVec
	gatherer prometheus.Gatherer
	textfile string
}

// NewPromSink registers run metrics on the default Prometheus registry.
func NewPromSink(cfg PromConfig) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, nil)
}

// NewPromSinkWithRegistry registers metrics on the provided registry.
// A nil registry defaults to the global Prometheus registry.
func NewPromSinkWithRegistry(cfg PromConfig, reg *prometheus.Registry) (*PromSink, error) {
	var registerer prometheus.Registerer = reg
	var gatherer prometheus.Gatherer = reg
	if reg == nil {
		registerer = prometheus.DefaultRegisterer
		gatherer = prometheus.DefaultGatherer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Name:      "consumption_runs_total",
		Help:      "Total number of scheduled consumption runs",
	}, []string{"request", "triggered"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Name:      "consumption_run_duration_hours",
		Help:      "Duration of consumption runs",
		Buckets:   prometheus.ExponentialBuckets(0.125, 2, 8),
	}, []string{"request"})
	power := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Name:      "consumption_segment_power_watts",
		Help:      "Sampled power of consumption segments",
		Buckets:   prometheus.ExponentialBuckets(10, 2, 11),
	}, []string{"request", "source"})
	last := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Name:      "consumption_last_start_hours",
		Help:      "Simulated hour of the latest run start",
	}, []string{"request"})

	var err error
	if runs, err = register(registerer, runs); err != nil {
		return nil, err
	}
	if duration, err = register(registerer, duration); err != nil {
		return nil, err
	}
	if power, err = register(registerer, power); err != nil {
		return nil, err
	}
	if last, err = register(registerer, last); err != nil {
		return nil, err
	}
	return &PromSink{
		runs:     runs,
		duration: duration,
		power:    power,
		last:     last,
		gatherer: gatherer,
		textfile: cfg.Textfile,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRuns updates the counters and histograms for each run.
func (s *PromSink) RecordRuns(b coremetrics.Batch) error {
	for _, r := range b.Runs {
		name := string(r.Name)
		s.runs.WithLabelValues(name, strconv.FormatBool(r.Triggered)).Inc()
		s.duration.WithLabelValues(name).Observe(r.Duration())
		for _, c := range r.Consumption {
			s.power.WithLabelValues(name, string(c.Source)).Observe(c.Power)
		}
		s.last.WithLabelValues(name).Set(r.StartAt)
	}
	return nil
}

// Flush writes the gathered metrics to the configured textfile.
func (s *PromSink) Flush() error {
	if s.textfile == "" {
		return nil
	}
	return prometheus.WriteToTextfile(s.textfile, s.gatherer)
}
