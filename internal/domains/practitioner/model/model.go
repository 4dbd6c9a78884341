package model

import (
	"clinicbook/shared/model"
)

const (
	TableName  = "practitioners"
	EntityName = "practitioner"

	FieldID        = "id"
	FieldClinicID  = "clinic_id"
	FieldFullName  = "full_name"
	FieldSpecialty = "specialty"
	FieldIsActive  = "is_active"
)

type Practitioner struct {
	ID        string `db:"id"`
	ClinicID  string `db:"clinic_id"`
	FullName  string `db:"full_name"`
	Specialty string `db:"specialty"`
	IsActive  bool   `db:"is_active"`
	model.Metadata
}
