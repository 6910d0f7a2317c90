package storage

import (
	"context"
	"errors"
	"time"

	"github.com/bookline/bookline/libs/db"
	"github.com/bookline/bookline/services/availability-service/internal/model"
	"github.com/jackc/pgx/v5"
)

// ScheduleRepository reads the booking configuration owned by the business
// service: operating windows and booking rules. All queries are read-only.
type ScheduleRepository struct {
	pool *db.Pool
}

func NewScheduleRepository(pool *db.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

// WindowsForDay returns the windows applying on the given weekday. A
// non-empty locationID matches both that location and business-wide rows
// (NULL location); an empty locationID applies no location filter.
func (r *ScheduleRepository) WindowsForDay(ctx context.Context, businessID string, weekday time.Weekday, locationID string) ([]model.OperatingWindow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT business_id::text,
			weekday,
			to_char(start_time, 'HH24:MI'),
			to_char(end_time, 'HH24:MI'),
			COALESCE(location_id::text, ''),
			COALESCE(resource_id::text, '')
		FROM operating_windows
		WHERE business_id = $1
			AND weekday = $2
			AND ($3 = '' OR location_id IS NULL OR location_id::text = $3)
		ORDER BY start_time ASC
	`, businessID, int(weekday), locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []model.OperatingWindow
	for rows.Next() {
		var w model.OperatingWindow
		var wd int
		var location, resource string
		if err := rows.Scan(&w.BusinessID, &wd, &w.StartTime, &w.EndTime, &location, &resource); err != nil {
			return nil, err
		}
		w.Weekday = time.Weekday(wd)
		w.LocationID = location
		w.Resource = model.ResourceFor(resource)
		windows = append(windows, w)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return windows, nil
}

// RuleFor returns the business's booking rule. A business without a rule is
// (zero, false, nil); the engine then runs with a zero buffer.
func (r *ScheduleRepository) RuleFor(ctx context.Context, businessID string) (model.BookingRule, bool, error) {
	var rule model.BookingRule
	err := r.pool.QueryRow(ctx, `
		SELECT business_id::text,
			buffer_minutes,
			advance_booking_days,
			cancellation_notice_hours,
			COALESCE(max_per_slot, 1)
		FROM booking_rules
		WHERE business_id = $1
	`, businessID).Scan(
		&rule.BusinessID,
		&rule.BufferMinutes,
		&rule.AdvanceBookingDays,
		&rule.CancellationNoticeHours,
		&rule.MaxPerSlot,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.BookingRule{}, false, nil
	}
	if err != nil {
		return model.BookingRule{}, false, err
	}
	return rule, true, nil
}
