package model

import (
	"clinicbook/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldClinicID        = "clinic_id"
	FieldPractitionerID  = "practitioner_id"
	FieldServiceID       = "service_id"
	FieldPatientID       = "patient_id"
	FieldBookingDate     = "booking_date"
	FieldStartTime       = "start_time"
	FieldDurationMinutes = "duration_minutes"
	FieldStatus          = "status"
	FieldNotes           = "notes"
	FieldDeletedAt       = "deleted_at"
)

// Booking is one confirmed reservation of a slot. PractitionerID is always a
// concrete practitioner: "any practitioner" requests are pinned before the
// record is written so the slot uniqueness key is never ambiguous.
// DurationMinutes is frozen from the service at creation time.
type Booking struct {
	ID              string     `db:"id"`
	ClinicID        string     `db:"clinic_id"`
	PractitionerID  string     `db:"practitioner_id"`
	ServiceID       string     `db:"service_id"`
	PatientID       string     `db:"patient_id"`
	BookingDate     time.Time  `db:"booking_date"`
	StartTime       string     `db:"start_time"`
	DurationMinutes int        `db:"duration_minutes"`
	Status          string     `db:"status"`
	Notes           string     `db:"notes"`
	DeletedAt       *time.Time `db:"deleted_at"`
	model.Metadata
}
