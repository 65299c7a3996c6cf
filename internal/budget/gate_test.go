package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGateAllowsUntilMax(t *testing.T) {
	gate := NewGate(2, 0, "2026-08-30")
	gate.now = fixedClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))

	assert.False(t, gate.ResetIfNewDay())

	assert.True(t, gate.Allow())
	gate.Record()
	assert.True(t, gate.Allow())
	gate.Record()
	assert.False(t, gate.Allow())
	assert.Equal(t, 2, gate.Count())
}

func TestGateResetsOnceOnDayChange(t *testing.T) {
	gate := NewGate(5, 5, "2026-08-29")
	gate.now = fixedClock(time.Date(2026, 8, 30, 0, 0, 1, 0, time.UTC))

	assert.False(t, gate.Allow())

	assert.True(t, gate.ResetIfNewDay())
	assert.Equal(t, 0, gate.Count())
	assert.Equal(t, "2026-08-30", gate.LastResetDate())
	assert.True(t, gate.Allow())

	// Second check on the same date must not reset again.
	gate.Record()
	assert.False(t, gate.ResetIfNewDay())
	assert.Equal(t, 1, gate.Count())
}

func TestGateRestoredFromPersistedState(t *testing.T) {
	gate := NewGate(3, 2, "2026-08-30")
	gate.now = fixedClock(time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC))

	assert.False(t, gate.ResetIfNewDay())
	assert.True(t, gate.Allow())
	gate.Record()
	assert.False(t, gate.Allow())
}
