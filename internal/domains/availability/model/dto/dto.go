package dto

import (
	"clinicbook/shared/constant"
	"net/http"
)

type AvailabilityRequest struct {
	Date           string `json:"date"            validate:"required,calendardate"`
	ServiceID      string `json:"service_id"      validate:"required"`
	PractitionerID string `json:"practitioner_id" validate:"omitempty"`
}

// FromRequest populates the request from query parameters.
func (r *AvailabilityRequest) FromRequest(req *http.Request) {
	query := req.URL.Query()

	r.Date = query.Get(constant.RequestParamDate)
	r.ServiceID = query.Get(constant.RequestParamServiceID)
	r.PractitionerID = query.Get(constant.RequestParamPractitionerID)
}

// Slot is a bookable start time attributed to one practitioner. It is derived
// on demand and never persisted.
type Slot struct {
	Time             string `json:"time"`
	PractitionerID   string `json:"practitioner_id"`
	PractitionerName string `json:"practitioner_name"`
}

type AvailabilityResponse struct {
	Date                   string `json:"date"`
	ServiceDurationMinutes int    `json:"service_duration_minutes"`
	Slots                  []Slot `json:"slots"`
}
