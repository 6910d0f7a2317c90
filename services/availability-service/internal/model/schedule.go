package model

import (
	"fmt"
	"time"
)

// OperatingWindow is one recurring weekly interval during which a business
// accepts bookings. Windows never span midnight.
type OperatingWindow struct {
	BusinessID string       `json:"business_id"`
	Weekday    time.Weekday `json:"weekday"`               // 0 = Sunday
	StartTime  string       `json:"start_time"`            // "HH:MM", 24h
	EndTime    string       `json:"end_time"`              // "HH:MM", 24h
	LocationID string       `json:"location_id,omitempty"` // "" = business-wide
	Resource   Resource     `json:"resource"`
}

// Bounds anchors the window's clock times onto the given calendar day,
// in that day's location.
func (w OperatingWindow) Bounds(day time.Time) (time.Time, time.Time, error) {
	start, err := clockOn(day, w.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("window start: %w", err)
	}
	end, err := clockOn(day, w.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("window end: %w", err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("window %s-%s: end must be after start", w.StartTime, w.EndTime)
	}
	return start, end, nil
}

func clockOn(day time.Time, hhmm string) (time.Time, error) {
	c, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", hhmm, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, day.Location()), nil
}

// BookingRule holds a business's booking policy. At most one rule per
// business; a missing rule means no buffer and no engine-side advance cap.
type BookingRule struct {
	BusinessID              string `json:"business_id"`
	BufferMinutes           int    `json:"buffer_minutes"`
	AdvanceBookingDays      int    `json:"advance_booking_days"`
	CancellationNoticeHours int    `json:"cancellation_notice_hours"` // informational, enforced upstream
	MaxPerSlot              int    `json:"max_per_slot"`              // reserved; capacity is 1 per resource today
}

func (r BookingRule) Buffer() time.Duration {
	if r.BufferMinutes <= 0 {
		return 0
	}
	return time.Duration(r.BufferMinutes) * time.Minute
}
