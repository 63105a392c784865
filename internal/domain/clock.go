package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze "today" via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for observation windows. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// DateLayout is the canonical record date format.
const DateLayout = "2006-01-02"

// ObservationDay is one day of a backward-looking observation window.
type ObservationDay struct {
	Date string
	Unix int64
}

// ObservationWindow returns n days ending today, most recent first.
// Each day carries the current time of day shifted back, matching what
// historical weather lookups expect as their timestamp.
func ObservationWindow(n int) []ObservationDay {
	now := clock.Now()
	days := make([]ObservationDay, 0, n)
	for i := range n {
		t := now.AddDate(0, 0, -i)
		days = append(days, ObservationDay{Date: t.Format(DateLayout), Unix: t.Unix()})
	}
	return days
}

func dateFromUnix(sec int64, offsetSeconds int) string {
	loc := time.FixedZone("", offsetSeconds)
	return time.Unix(sec, 0).In(loc).Format(DateLayout)
}
