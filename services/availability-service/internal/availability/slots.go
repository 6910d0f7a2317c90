package availability

import "time"

type Interval struct {
	Start time.Time
	End   time.Time
}

// SlotStarts returns candidate slot start times on a plain grid inside
// [windowStart, windowEnd): the first candidate sits at windowStart and each
// subsequent one is step later, for as long as a booking of length duration
// still fits inside the window.
//
// The grid carries no buffer of its own; callers derive step (typically
// duration plus buffer) once and keep buffer handling in the conflict check.
// Non-positive duration or step yields nil rather than a zero stride.
//
// All times are expected to be in the same location (timezone).
func SlotStarts(windowStart, windowEnd time.Time, duration, step time.Duration) []time.Time {
	if duration <= 0 || step <= 0 {
		return nil
	}
	if !windowEnd.After(windowStart) {
		return nil
	}
	if windowStart.Add(duration).After(windowEnd) {
		return nil
	}

	var starts []time.Time
	for t := windowStart; !t.Add(duration).After(windowEnd); t = t.Add(step) {
		starts = append(starts, t)
	}
	return starts
}
