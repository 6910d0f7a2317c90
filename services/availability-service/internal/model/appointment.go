package model

import "time"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
	StatusCompleted AppointmentStatus = "completed"
)

// Blocks reports whether an appointment in this status still occupies its
// resource. Cancelled and no-show appointments free the slot; everything
// else keeps it reserved.
func (s AppointmentStatus) Blocks() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// Appointment is a read-only view of a reservation. Appointments are created
// and transitioned by the booking workflow; this service only reads them.
type Appointment struct {
	ID         string
	BusinessID string
	LocationID string
	Resource   Resource
	StartTime  time.Time
	EndTime    time.Time
	Status     AppointmentStatus
	CreatedAt  time.Time
}
