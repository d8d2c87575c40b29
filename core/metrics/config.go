package metrics

import "github.com/kilianp07/homeload/core/factory"

// Config defines settings for run sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
}
