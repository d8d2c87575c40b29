package consumption

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunEndsAfterConsumption(t *testing.T) {
	req := &Request{Usage: []Usage{
		{Power: MustRange(Basic{}, 2000, 2000), Duration: MustRange(Basic{}, 1, 1), Source: Line1},
		{Power: MustRange(Basic{}, 300, 300), Duration: MustRange(Basic{}, 0.5, 0.5), Source: HotWater},
	}}
	run, err := NewRun("boiler", req, 4.5, false, NewRand(3))
	require.NoError(t, err)
	assert.Equal(t, 4.5, run.StartAt)
	assert.InDelta(t, 6.0, run.EndAt, 1e-12)
	assert.InDelta(t, 1.5, run.Duration(), 1e-12)
	assert.Len(t, run.Consumption, 2)
	assert.Equal(t, HotWater, run.Consumption[1].Source)
}

func TestNewRunWithoutUsage(t *testing.T) {
	run, err := NewRun("idle", &Request{}, 3, true, NewRand(3))
	require.NoError(t, err)
	assert.Equal(t, run.StartAt, run.EndAt)
	assert.True(t, run.Triggered)
}

func TestNewRunRejectsNaN(t *testing.T) {
	_, err := NewRun("broken", &Request{}, math.NaN(), false, NewRand(1))
	if !errors.Is(err, ErrNonFiniteTime) {
		t.Fatalf("expected ErrNonFiniteTime got %v", err)
	}
	var nte *NonFiniteTimeError
	require.True(t, errors.As(err, &nte))
	assert.Equal(t, Name("broken"), nte.Name)
}

func TestCompare(t *testing.T) {
	runs := []Run{
		{Name: "b", StartAt: 2, Triggered: true},
		{Name: "a", StartAt: 2, Triggered: true},
		{Name: "z", StartAt: 2},
		{Name: "c", StartAt: 1, Triggered: true},
		{Name: "a", StartAt: 3},
	}
	slices.SortFunc(runs, Compare)
	got := make([]string, len(runs))
	for i, r := range runs {
		got[i] = string(r.Name)
	}
	assert.Equal(t, []string{"c", "z", "a", "b", "a"}, got)
}

func TestEqualIgnoresConsumption(t *testing.T) {
	a := Run{Name: "x", StartAt: 1, EndAt: 2}
	b := Run{Name: "x", StartAt: 1, EndAt: 5, Consumption: []UsedPower{{Power: 1}}}
	assert.True(t, Equal(a, b))
	b.Triggered = true
	assert.False(t, Equal(a, b))
}

func TestWindowContains(t *testing.T) {
	w := Window{From: 10, To: 20}
	assert.True(t, w.Contains(10))
	assert.True(t, w.Contains(20))
	assert.False(t, w.Contains(20.0001))
	assert.False(t, w.Contains(9.99))
}
