package config

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/homeload/core/consumption"
	"github.com/kilianp07/homeload/core/factory"
	"github.com/kilianp07/homeload/core/metrics"
)

// EnvPrefix marks environment variables overriding file values.
// HOMELOAD_WINDOW__TO=48 sets window.to.
const EnvPrefix = "HOMELOAD_"

// Config describes a household site.
type Config struct {
	// Seed feeds the random source. Zero picks a time based seed.
	Seed        int64                              `json:"seed"`
	Window      WindowConfig                       `json:"window"`
	Logging     LoggingConfig                      `json:"logging"`
	Sinks       []factory.ModuleConfig             `json:"sinks"`
	Consumption map[string]consumption.RequestSpec `json:"consumption"`
}

// WindowConfig bounds the simulated hours that are reported.
type WindowConfig struct {
	From float64  `json:"from"`
	To   *float64 `json:"to"`
}

// DefaultWindowHours is one week.
const DefaultWindowHours = 168.0

// SetDefaults applies a one week window.
func (c *WindowConfig) SetDefaults() {
	if c.To == nil {
		to := c.From + DefaultWindowHours
		c.To = &to
	}
}

// Validate checks 0 <= from <= to.
func (c WindowConfig) Validate() error {
	to := c.upper()
	if math.IsNaN(c.From) || math.IsNaN(to) {
		return fmt.Errorf("window bounds must be numbers")
	}
	if c.From < 0 {
		return fmt.Errorf("window.from must not be negative, got %g", c.From)
	}
	if c.From > to {
		return fmt.Errorf("window.from %g is after window.to %g", c.From, to)
	}
	return nil
}

func (c WindowConfig) upper() float64 {
	if c.To == nil {
		return c.From + DefaultWindowHours
	}
	return *c.To
}

// Hours returns the window as simulated hours.
func (c WindowConfig) Hours() consumption.Window {
	return consumption.Window{From: c.From, To: c.upper()}
}

// Metrics returns the sink configuration.
func (c Config) Metrics() metrics.Config {
	return metrics.Config{Sinks: c.Sinks}
}

// Requests validates the consumption section.
func (c Config) Requests() (consumption.Requests, error) {
	return consumption.Build("consumption", c.Consumption)
}

// Validate checks every section of the site.
func (c Config) Validate() error {
	if err := c.Window.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	for name := range c.Consumption {
		if name == "" {
			return fmt.Errorf("consumption: empty request name")
		}
		if strings.Contains(name, ".") {
			return fmt.Errorf("consumption: request name %q must not contain '.'", name)
		}
	}
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("sinks[%d]: type is required", i)
		}
	}
	return nil
}

// Load reads the site file at path and applies HOMELOAD_ environment
// overrides. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	cfg.Window.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
