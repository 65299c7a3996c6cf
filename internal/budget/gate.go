// Package budget enforces the per-calendar-day reply limit.
package budget

import "time"

const dateLayout = "2006-01-02"

// Gate tracks how many replies were sent on the current local calendar
// date. The day boundary is the date string, not a rolling 24h window:
// the counter resets exactly once, on the first check whose date differs
// from the stored one.
type Gate struct {
	max           int
	count         int
	lastResetDate string
	now           func() time.Time
}

// NewGate restores a gate from persisted state.
func NewGate(max, count int, lastResetDate string) *Gate {
	return &Gate{
		max:           max,
		count:         count,
		lastResetDate: lastResetDate,
		now:           time.Now,
	}
}

// ResetIfNewDay zeroes the counter when the calendar date has changed
// since the last reset. Returns true when a reset happened so the caller
// can persist the new state.
func (g *Gate) ResetIfNewDay() bool {
	today := g.now().Format(dateLayout)
	if g.lastResetDate == today {
		return false
	}
	g.count = 0
	g.lastResetDate = today
	return true
}

// Allow reports whether one more reply may be sent today.
func (g *Gate) Allow() bool {
	return g.count < g.max
}

// Record consumes one budget unit. Call only after a reply was sent.
func (g *Gate) Record() {
	g.count++
}

// Count returns the number of replies sent today.
func (g *Gate) Count() int {
	return g.count
}

// LastResetDate returns the date the counter was last reset on.
func (g *Gate) LastResetDate() string {
	return g.lastResetDate
}
