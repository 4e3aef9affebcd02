// Package activity reconstructs a best-effort timeline of when a session
// was worked on, from several partial evidence sources.
package activity

import (
	"time"
)

// Period is a contiguous run of timestamped evidence for one session.
// Immutable after construction.
type Period struct {
	Start        time.Time
	End          time.Time
	MessageCount int
	FirstMessage string // description of the first evidence item in the run
}

// Duration returns the length of the period.
func (p Period) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// Timeline is the ordered sequence of activity periods for one session,
// with derived aggregates. Built fresh on each request, never cached.
type Timeline struct {
	SessionID     string
	Periods       []Period
	TotalMessages int
	FirstActivity time.Time // zero when no evidence was found
	LastActivity  time.Time
}

// TotalDuration sums per-period durations. Gaps between periods are
// excluded: this is time actually active, not wall-clock span.
func (t *Timeline) TotalDuration() time.Duration {
	var total time.Duration
	for _, p := range t.Periods {
		total += p.Duration()
	}
	return total
}

// Span returns the time between first and last activity, zero when there is
// no evidence.
func (t *Timeline) Span() time.Duration {
	if t.FirstActivity.IsZero() || t.LastActivity.IsZero() {
		return 0
	}
	return t.LastActivity.Sub(t.FirstActivity)
}

// ActiveDays counts the distinct calendar dates touched by any period's
// start or end.
func (t *Timeline) ActiveDays() int {
	days := make(map[string]bool)
	for _, p := range t.Periods {
		days[p.Start.Format("2006-01-02")] = true
		days[p.End.Format("2006-01-02")] = true
	}
	return len(days)
}
