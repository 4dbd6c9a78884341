package availability

import (
	"clinicbook/infras/otel"
	"clinicbook/internal/domains/availability/model/dto"
	"clinicbook/internal/domains/availability/service"
	"clinicbook/shared/constant"
	"clinicbook/shared/failure"
	"clinicbook/shared/validator"
	"clinicbook/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/availability", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetAvailability)
	})
}

// GetAvailability lists the bookable slots for one date and service.
// @Summary Get available slots
// @Description Retrieve the open appointment slots for a date and service, optionally narrowed to one practitioner.
// @Tags Availability
// @Accept json
// @Produce json
// @Param date query string true "Target date (YYYY-MM-DD)"
// @Param service_id query string true "Service ID"
// @Param practitioner_id query string false "Practitioner ID"
// @Success 200 {object} response.Data[dto.AvailabilityResponse] "Available slots"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability [get]
// @Security BearerAuth
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	clinicID, ok := ctx.Value(constant.ContextKeyClinicID).(string)
	if !ok || clinicID == constant.Empty {
		scope.TraceError(nil)
		log.Error().Msg("failed to get clinic ID from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return
	}

	req := dto.AvailabilityRequest{}
	req.FromRequest(r)

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate availability query")

		response.WithError(w, err)

		return
	}

	availability, err := handler.service.AvailableSlots(ctx, clinicID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability retrieved successfully")

	response.WithJSON(w, http.StatusOK, availability)
}
