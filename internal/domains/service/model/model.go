package model

import (
	"clinicbook/shared/model"
)

const (
	TableName  = "clinic_services"
	EntityName = "service"

	FieldID              = "id"
	FieldClinicID        = "clinic_id"
	FieldName            = "name"
	FieldDurationMinutes = "duration_minutes"
	FieldPriceCents      = "price_cents"
	FieldIsActive        = "is_active"
)

// Service is a bookable offering of a clinic. DurationMinutes is copied onto
// each booking at creation time so later edits never reshape past bookings.
type Service struct {
	ID              string `db:"id"`
	ClinicID        string `db:"clinic_id"`
	Name            string `db:"name"`
	DurationMinutes int    `db:"duration_minutes"`
	PriceCents      int64  `db:"price_cents"`
	IsActive        bool   `db:"is_active"`
	model.Metadata
}
