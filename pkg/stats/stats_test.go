package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/homeload/core/consumption"
)

func TestSummarize(t *testing.T) {
	runs := []consumption.Run{
		{Name: "boiler", StartAt: 4, EndAt: 5},
		{Name: "pump", StartAt: 5, EndAt: 5.5, Triggered: true},
		{Name: "boiler", StartAt: 28, EndAt: 30},
		{Name: "pump", StartAt: 30, EndAt: 30.5, Triggered: true},
		{Name: "boiler", StartAt: 56, EndAt: 57},
		{Name: "alarm", StartAt: 60, EndAt: 60},
	}
	sums := Summarize(runs)
	require.Len(t, sums, 3)
	assert.Equal(t, []consumption.Name{"alarm", "boiler", "pump"}, []consumption.Name{sums[0].Name, sums[1].Name, sums[2].Name})

	boiler := sums[1]
	assert.Equal(t, 3, boiler.Runs)
	assert.Equal(t, 0, boiler.Triggered)
	// gaps are 24 and 28
	assert.InDelta(t, 26, boiler.GapMean, 1e-9)
	assert.InDelta(t, math.Sqrt(8), boiler.GapStdDev, 1e-9)
	assert.InDelta(t, 4.0/3, boiler.DurationMean, 1e-9)

	pump := sums[2]
	assert.Equal(t, 2, pump.Runs)
	assert.Equal(t, 2, pump.Triggered)
	assert.Zero(t, pump.GapMean)
	assert.InDelta(t, 0.5, pump.DurationMean, 1e-9)
	assert.Zero(t, pump.DurationStdDev)

	alarm := sums[0]
	assert.Equal(t, 1, alarm.Runs)
	assert.Zero(t, alarm.GapStdDev)
	assert.Zero(t, alarm.DurationMean)
}

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize(nil); len(got) != 0 {
		t.Fatalf("expected no summaries, got %v", got)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []Summary{{Name: "boiler", Runs: 3, GapMean: 26, GapStdDev: 2.8284, DurationMean: 1.3333}})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "REQUEST"))
	assert.Contains(t, lines[1], "boiler")
	assert.Contains(t, lines[1], "26.000")
	assert.Contains(t, lines[1], "2.828")
}
