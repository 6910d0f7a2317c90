package storage

import (
	"context"
	"errors"
	"time"

	"github.com/bookline/bookline/libs/db"
	"github.com/bookline/bookline/services/availability-service/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
)

// AppointmentRepository is a read-only view of the appointment ledger owned
// by the booking service. This service never writes appointments; the
// booking workflow serializes confirmation with an exclusion constraint on
// (resource, interval), so availability answered here is advisory until the
// insert commits.
type AppointmentRepository struct {
	pool *db.Pool
}

func NewAppointmentRepository(pool *db.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

// ActiveBetween returns the reservations that still occupy their resource
// (cancelled and no-show excluded) and overlap [from, to), ordered by start
// time.
func (r *AppointmentRepository) ActiveBetween(ctx context.Context, businessID, locationID string, from, to time.Time) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text,
			business_id::text,
			COALESCE(location_id::text, ''),
			COALESCE(resource_id::text, ''),
			start_time,
			end_time,
			status,
			created_at
		FROM appointments
		WHERE business_id = $1
			AND ($2 = '' OR location_id IS NULL OR location_id::text = $2)
			AND status NOT IN ('cancelled', 'no_show')
			AND start_time < $4
			AND end_time > $3
		ORDER BY start_time ASC
	`, businessID, locationID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []model.Appointment
	for rows.Next() {
		var a model.Appointment
		var location, resource, status string
		if err := rows.Scan(&a.ID, &a.BusinessID, &location, &resource, &a.StartTime, &a.EndTime, &status, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.LocationID = location
		a.Resource = model.ResourceFor(resource)
		a.Status = model.AppointmentStatus(status)
		appts = append(appts, a)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return appts, nil
}

// IsConflict recognizes the exclusion-constraint violation raised when two
// bookings race for the same resource interval. The booking service relies
// on it at insert time; it is surfaced here so callers of this module share
// one definition of the conflict boundary.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}
