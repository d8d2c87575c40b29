package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/homeload/core/consumption"
)

const site = `seed: 42
window:
  from: 24
  to: 72
logging:
  level: debug
  format: console
sinks:
  - type: nop
  - type: prometheus
    conf:
      namespace: home
consumption:
  boiler:
    schedule:
      interval-hours: {from: 4, to: 6}
      restrict-hours: {from: 6, to: 22}
      delay-up-to: 1
    usage:
      - power: {from: 2000, to: 2000}
        duration: {from: 1, to: 1}
        source: hot-water
    trigger:
      - other: pump
    delay: {max-hours: 4, max-instances: 2}
  pump:
    usage:
      - power: {from: 50, to: 80}
        duration: {from: 0.25, to: 0.5}
        source: line-2
`

func writeSite(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	cfg, err := Load(writeSite(t, "site.yaml", site))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"seed", cfg.Seed, int64(42)},
		{"window", cfg.Window.Hours(), consumption.Window{From: 24, To: 72}},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"logging.format", cfg.Logging.Format, "console"},
		{"sinks", len(cfg.Metrics().Sinks), 2},
		{"sink.type", cfg.Sinks[1].Type, "prometheus"},
		{"sink.conf", cfg.Sinks[1].Conf["namespace"], "home"},
		{"requests", len(cfg.Consumption), 2},
		{"delay-up-to", cfg.Consumption["boiler"].Schedule.DelayUpTo, 1.0},
		{"trigger", cfg.Consumption["boiler"].Trigger[0].Other, "pump"},
		{"delay", cfg.Consumption["boiler"].Delay.MaxInstances, 2},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}

	reqs, err := cfg.Requests()
	require.NoError(t, err)
	assert.Equal(t, []consumption.Name{"boiler", "pump"}, reqs.Names())
	assert.NoError(t, reqs.CheckTriggers())
}

func TestLoadJSONDefaults(t *testing.T) {
	data := `{"consumption":{"kettle":{"schedule":{"interval-hours":{"from":8,"to":12}},"usage":[{"power":{"from":2000,"to":2200},"duration":{"from":0.05,"to":0.1},"source":"any-line"}]}}}`
	cfg, err := Load(writeSite(t, "site.json", data))
	require.NoError(t, err)
	assert.Equal(t, consumption.Window{From: 0, To: DefaultWindowHours}, cfg.Window.Hours())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Zero(t, cfg.Seed)
	assert.Empty(t, cfg.Metrics().Sinks)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOMELOAD_SEED", "7")
	t.Setenv("HOMELOAD_WINDOW__TO", "48")
	cfg, err := Load(writeSite(t, "site.yml", site))
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 48.0, cfg.Window.Hours().To)
}

func TestLoadRejects(t *testing.T) {
	cases := []struct {
		name string
		file string
		data string
		want string
	}{
		{"extension", "site.toml", "seed = 1", "unsupported config format"},
		{"unknown key", "site.yaml", "seeed: 1\n", "seeed"},
		{"dotted name", "site.yaml", "consumption:\n  \"a.b\":\n    usage: []\n", "must not contain"},
		{"window", "site.yaml", "window: {from: 10, to: 5}\n", "window.from"},
		{"negative window", "site.yaml", "window: {from: -1, to: 5}\n", "negative"},
		{"level", "site.yaml", "logging: {level: loud}\n", "log level"},
		{"format", "site.yaml", "logging: {format: xml}\n", "log format"},
		{"sink type", "site.yaml", "sinks: [{conf: {}}]\n", "type is required"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(writeSite(t, c.file, c.data))
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("expected error containing %q, got %v", c.want, err)
			}
		})
	}
}

func TestValidateRejectsDottedName(t *testing.T) {
	cfg := Config{Consumption: map[string]consumption.RequestSpec{"a.b": {}}}
	cfg.Window.SetDefaults()
	assert.ErrorContains(t, cfg.Validate(), "must not contain")
}

func TestRequestsReportsEveryInvalidRange(t *testing.T) {
	data := `consumption:
  heater:
    schedule:
      interval-hours: {from: 6, to: 4}
  oven:
    usage:
      - power: {from: -5, to: 10}
        duration: {from: 1, to: 1}
        source: line-3
`
	cfg, err := Load(writeSite(t, "site.yaml", data))
	require.NoError(t, err)
	_, err = cfg.Requests()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consumption.heater.schedule.interval-hours")
	assert.Contains(t, err.Error(), "consumption.oven.usage[0].power")

	var ve *consumption.ValidationError
	assert.ErrorAs(t, err, &ve)
}
