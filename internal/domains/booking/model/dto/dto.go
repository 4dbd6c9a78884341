package dto

import (
	"clinicbook/internal/domains/booking/model"
	"clinicbook/shared"
	"clinicbook/shared/constant"
	gDto "clinicbook/shared/dto"
	gModel "clinicbook/shared/model"
	"clinicbook/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ServiceID      string `json:"service_id"      validate:"required"`
	PractitionerID string `json:"practitioner_id" validate:"omitempty"`
	Date           string `json:"date"            validate:"required,calendardate"`
	Time           string `json:"time"            validate:"required,clocktime"`
	PatientName    string `json:"patient_name"    validate:"required,max=100"`
	PatientPhone   string `json:"patient_phone"   validate:"required,max=20"`
	PatientEmail   string `json:"patient_email"   validate:"omitempty,email,max=100"`
	Notes          string `json:"notes"           validate:"omitempty,max=500"`
}

// ToModel builds the booking record. The practitioner must already be pinned
// to a concrete id and the duration frozen from the service.
func (c *CreateBookingRequest) ToModel(clinicID, practitionerID, patientID string, date time.Time, durationMinutes int, user string) model.Booking {
	return model.Booking{
		ID:              uuid.NewString(),
		ClinicID:        clinicID,
		PractitionerID:  practitionerID,
		ServiceID:       c.ServiceID,
		PatientID:       patientID,
		BookingDate:     date,
		StartTime:       c.Time,
		DurationMinutes: durationMinutes,
		Status:          constant.BookingStatusScheduled,
		Notes:           c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// BookingConfirmation is the response of a successful commit.
type BookingConfirmation struct {
	BookingID        string `json:"booking_id"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	ServiceName      string `json:"service_name"`
	PractitionerName string `json:"practitioner_name"`
	Confirmed        bool   `json:"confirmed"`
}

type BookingResponse struct {
	ID              string `json:"id"`
	PractitionerID  string `json:"practitioner_id"`
	ServiceID       string `json:"service_id"`
	PatientID       string `json:"patient_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes"`
	Status          string `json:"status"`
	Notes           string `json:"notes"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.PractitionerID = model.PractitionerID
	r.ServiceID = model.ServiceID
	r.PatientID = model.PatientID
	r.Date = model.BookingDate.Format(constant.CalendarDateFormat)
	r.Time = model.StartTime
	r.DurationMinutes = model.DurationMinutes
	r.Status = model.Status
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// BookingEvent is published to the notification sink after a commit or a
// cancellation. Delivery is fire-and-forget and never affects the booking.
type BookingEvent struct {
	BookingID       string `json:"booking_id"`
	ClinicID        string `json:"clinic_id"`
	PractitionerID  string `json:"practitioner_id"`
	ServiceID       string `json:"service_id"`
	PatientID       string `json:"patient_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes"`
	Status          string `json:"status"`
}

func NewBookingEvent(booking model.Booking) BookingEvent {
	return BookingEvent{
		BookingID:       booking.ID,
		ClinicID:        booking.ClinicID,
		PractitionerID:  booking.PractitionerID,
		ServiceID:       booking.ServiceID,
		PatientID:       booking.PatientID,
		Date:            booking.BookingDate.Format(constant.CalendarDateFormat),
		Time:            booking.StartTime,
		DurationMinutes: booking.DurationMinutes,
		Status:          booking.Status,
	}
}
