package model

import (
	"clinicbook/shared/model"
	"time"
)

const (
	TableName  = "practitioner_schedules"
	EntityName = "schedule"

	FieldID             = "id"
	FieldClinicID       = "clinic_id"
	FieldPractitionerID = "practitioner_id"
	FieldDayOfWeek      = "day_of_week"
	FieldStartTime      = "start_time"
	FieldEndTime        = "end_time"
	FieldBreakStart     = "break_start"
	FieldBreakEnd       = "break_end"
	FieldSlotDuration   = "slot_duration"
	FieldValidFrom      = "valid_from"
	FieldValidUntil     = "valid_until"
	FieldIsActive       = "is_active"
)

// Schedule is one recurring weekly availability template: one row per
// practitioner and day-of-week (0 = Sunday). Times are wall-clock HH:MM
// strings; interval arithmetic happens in minutes-since-midnight elsewhere.
type Schedule struct {
	ID             string     `db:"id"`
	ClinicID       string     `db:"clinic_id"`
	PractitionerID string     `db:"practitioner_id"`
	DayOfWeek      int        `db:"day_of_week"`
	StartTime      string     `db:"start_time"`
	EndTime        string     `db:"end_time"`
	BreakStart     *string    `db:"break_start"`
	BreakEnd       *string    `db:"break_end"`
	SlotDuration   int        `db:"slot_duration"`
	ValidFrom      *time.Time `db:"valid_from"`
	ValidUntil     *time.Time `db:"valid_until"`
	IsActive       bool       `db:"is_active"`
	model.Metadata
}

// CoversDate reports whether the schedule's validity window includes date.
// Open bounds (nil) cover everything on that side.
func (s *Schedule) CoversDate(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)

	if s.ValidFrom != nil && s.ValidFrom.After(day) {
		return false
	}

	if s.ValidUntil != nil && s.ValidUntil.Before(day) {
		return false
	}

	return true
}
