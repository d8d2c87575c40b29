// Package metrics defines sinks receiving the runs produced by a scheduling
// session. Concrete sinks (Prometheus, InfluxDB, MQTT) live in infra and
// register themselves in the sink registry.
package metrics
