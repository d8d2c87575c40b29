package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConfig(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		mu.Lock()
		format, out = "", os.Stderr
		mu.Unlock()
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})
}

func TestZerologLoggerMethods(t *testing.T) {
	resetConfig(t)
	t.Setenv("APP_ENV", "dev")
	var buf bytes.Buffer
	require.NoError(t, Configure("debug", "", &buf))
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
	assert.Contains(t, buf.String(), "info test")
}

func TestConfigureJSONAndLevel(t *testing.T) {
	resetConfig(t)
	var buf bytes.Buffer
	require.NoError(t, Configure("warn", FormatJSON, &buf))
	l := New("scheduler")
	l.Infof("hidden")
	l.Warnf("shown %d", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "scheduler", entry["component"])
	assert.Equal(t, "shown 2", entry["message"])
}

func TestConfigureRejectsInvalid(t *testing.T) {
	resetConfig(t)
	assert.Error(t, Configure("loud", "", nil))
	assert.Error(t, Configure("info", "xml", nil))
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Infof("ignored")
}
