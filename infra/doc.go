// Package infra holds the adapters that move scheduled runs out of the
// process: zerolog backed loggers, Prometheus and InfluxDB sinks and the
// MQTT publisher. They depend on the interfaces declared under core.
package infra
