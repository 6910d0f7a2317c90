package availability

import (
	"context"
	"time"

	"github.com/bookline/bookline/services/availability-service/internal/model"
)

// WindowSource supplies a business's recurring operating windows for one
// weekday. An empty locationID means no location filter; a non-empty one
// matches both location-scoped and business-wide windows.
type WindowSource interface {
	WindowsForDay(ctx context.Context, businessID string, weekday time.Weekday, locationID string) ([]model.OperatingWindow, error)
}

// RuleSource supplies a business's booking rule. found is false when the
// business has no rule configured, which is not an error: the checker
// degrades to a zero buffer.
type RuleSource interface {
	RuleFor(ctx context.Context, businessID string) (rule model.BookingRule, found bool, err error)
}

// AppointmentLedger supplies the reservations that still occupy their
// resource (cancelled and no-show excluded) and overlap [from, to).
type AppointmentLedger interface {
	ActiveBetween(ctx context.Context, businessID, locationID string, from, to time.Time) ([]model.Appointment, error)
}
