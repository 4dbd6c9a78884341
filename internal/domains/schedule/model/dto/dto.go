package dto

import (
	"clinicbook/internal/domains/schedule/model"
	"clinicbook/shared"
	"clinicbook/shared/constant"
	gDto "clinicbook/shared/dto"
	gModel "clinicbook/shared/model"
	"clinicbook/shared/timezone"

	"github.com/google/uuid"
)

type CreateScheduleRequest struct {
	PractitionerID      string  `json:"practitioner_id"       validate:"required"`
	DayOfWeek           int     `json:"day_of_week"           validate:"gte=0,lte=6"`
	StartTime           string  `json:"start_time"            validate:"required,clocktime"`
	EndTime             string  `json:"end_time"              validate:"required,clocktime"`
	BreakStart          *string `json:"break_start"           validate:"omitempty,clocktime"`
	BreakEnd            *string `json:"break_end"             validate:"omitempty,clocktime"`
	SlotDurationMinutes int     `json:"slot_duration_minutes" validate:"omitempty,gt=0"`
	ValidFrom           string  `json:"valid_from"            validate:"omitempty,calendardate"`
	ValidUntil          string  `json:"valid_until"           validate:"omitempty,calendardate"`
}

func (c *CreateScheduleRequest) ToModel(clinicID, user string) (model.Schedule, error) {
	sched := model.Schedule{
		ID:             uuid.NewString(),
		ClinicID:       clinicID,
		PractitionerID: c.PractitionerID,
		DayOfWeek:      c.DayOfWeek,
		StartTime:      c.StartTime,
		EndTime:        c.EndTime,
		BreakStart:     c.BreakStart,
		BreakEnd:       c.BreakEnd,
		SlotDuration:   c.SlotDurationMinutes,
		IsActive:       true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	if sched.SlotDuration == 0 {
		sched.SlotDuration = constant.DefaultSlotDurationMinutes
	}

	if c.ValidFrom != constant.Empty {
		validFrom, err := timezone.Parse(constant.CalendarDateFormat, c.ValidFrom)
		if err != nil {
			return sched, err // nolint:wrapcheck
		}

		sched.ValidFrom = &validFrom
	}

	if c.ValidUntil != constant.Empty {
		validUntil, err := timezone.Parse(constant.CalendarDateFormat, c.ValidUntil)
		if err != nil {
			return sched, err // nolint:wrapcheck
		}

		sched.ValidUntil = &validUntil
	}

	return sched, nil
}

type UpdateScheduleRequest struct {
	StartTime           string  `json:"start_time"            validate:"omitempty,clocktime"    db:"start_time"`
	EndTime             string  `json:"end_time"              validate:"omitempty,clocktime"    db:"end_time"`
	BreakStart          *string `json:"break_start"           validate:"omitempty,clocktime"    db:"break_start"`
	BreakEnd            *string `json:"break_end"             validate:"omitempty,clocktime"    db:"break_end"`
	SlotDurationMinutes int     `json:"slot_duration_minutes" validate:"omitempty,gt=0"         db:"slot_duration"`
	IsActive            *bool   `json:"is_active"             validate:"omitempty"              db:"is_active"`
}

type ScheduleResponse struct {
	ID                  string  `json:"id"`
	PractitionerID      string  `json:"practitioner_id"`
	DayOfWeek           int     `json:"day_of_week"`
	StartTime           string  `json:"start_time"`
	EndTime             string  `json:"end_time"`
	BreakStart          *string `json:"break_start"`
	BreakEnd            *string `json:"break_end"`
	SlotDurationMinutes int     `json:"slot_duration_minutes"`
	ValidFrom           string  `json:"valid_from,omitempty"`
	ValidUntil          string  `json:"valid_until,omitempty"`
	IsActive            bool    `json:"is_active"`
	gDto.Metadata
}

func (r *ScheduleResponse) FromModel(model model.Schedule) {
	r.ID = model.ID
	r.PractitionerID = model.PractitionerID
	r.DayOfWeek = model.DayOfWeek
	r.StartTime = model.StartTime
	r.EndTime = model.EndTime
	r.BreakStart = model.BreakStart
	r.BreakEnd = model.BreakEnd
	r.SlotDurationMinutes = model.SlotDuration
	r.IsActive = model.IsActive

	if model.ValidFrom != nil {
		r.ValidFrom = model.ValidFrom.Format(constant.CalendarDateFormat)
	}

	if model.ValidUntil != nil {
		r.ValidUntil = model.ValidUntil.Format(constant.CalendarDateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetSchedulesResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetSchedulesResponse) FromModels(models []model.Schedule, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Schedules = make([]ScheduleResponse, len(models))
	for i, mod := range models {
		r.Schedules[i].FromModel(mod)
	}
}
