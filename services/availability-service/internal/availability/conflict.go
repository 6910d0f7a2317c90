package availability

import "time"

// Overlaps reports whether a candidate interval collides with a busy one
// once both are extended by the buffer gap. Intervals are half-open:
// [start, end) touching [busy.Start, busy.End) at an endpoint is not a
// collision when the buffer is zero, so back-to-back bookings stay legal.
//
// The busy side is treated as occupying [busy.Start, busy.End+buffer) and
// the candidate as [start, end+buffer), which preserves the gap on both the
// preceding and the following side of every reservation.
func Overlaps(start, end time.Time, busy Interval, buffer time.Duration) bool {
	return start.Before(busy.End.Add(buffer)) && end.Add(buffer).After(busy.Start)
}
