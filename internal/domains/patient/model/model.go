package model

import (
	"clinicbook/shared/model"
)

const (
	TableName  = "patients"
	EntityName = "patient"

	FieldID       = "id"
	FieldClinicID = "clinic_id"
	FieldFullName = "full_name"
	FieldPhone    = "phone"
	FieldEmail    = "email"
)

// Patient identity is resolved by phone number within a clinic; the booking
// engine itself is agnostic to how deduplication happens beyond that.
type Patient struct {
	ID       string `db:"id"`
	ClinicID string `db:"clinic_id"`
	FullName string `db:"full_name"`
	Phone    string `db:"phone"`
	Email    string `db:"email"`
	model.Metadata
}
