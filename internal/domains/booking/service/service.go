package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"clinicbook/config"
	"clinicbook/infras/kafka"
	"clinicbook/infras/otel"
	"clinicbook/internal/domains/availability"
	"clinicbook/internal/domains/booking/model"
	"clinicbook/internal/domains/booking/model/dto"
	"clinicbook/internal/domains/booking/repository"
	patientRepo "clinicbook/internal/domains/patient/repository"
	practitionerRepo "clinicbook/internal/domains/practitioner/repository"
	scheduleRepo "clinicbook/internal/domains/schedule/repository"
	serviceRepo "clinicbook/internal/domains/service/repository"
	"clinicbook/shared"
	"clinicbook/shared/cache"
	"clinicbook/shared/constant"
	gDto "clinicbook/shared/dto"
	"clinicbook/shared/failure"
	"clinicbook/shared/timezone"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBookings     = "bookings:list"
	cacheGetAvailability = "availability:slots"
)

type Booking interface {
	Create(ctx context.Context, clinicID, user string, req dto.CreateBookingRequest) (dto.BookingConfirmation, error)
	GetAll(ctx context.Context, clinicID string, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, clinicID, bookingID string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, clinicID, user, bookingID string) error
	Delete(ctx context.Context, clinicID, user, bookingID string) error
}

type serviceImpl struct {
	bookingRepo      repository.Booking
	scheduleRepo     scheduleRepo.Schedule
	serviceRepo      serviceRepo.Service
	practitionerRepo practitionerRepo.Practitioner
	patientRepo      patientRepo.Patient
	cfg              *config.Config
	cache            cache.RedisCache
	kafka            kafka.Client
	otel             otel.Otel
}

func New(
	bookingRepository repository.Booking,
	scheduleRepository scheduleRepo.Schedule,
	serviceRepository serviceRepo.Service,
	practitionerRepository practitionerRepo.Practitioner,
	patientRepository patientRepo.Patient,
	cfg *config.Config,
	cache cache.RedisCache,
	kafka kafka.Client,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		bookingRepo:      bookingRepository,
		scheduleRepo:     scheduleRepository,
		serviceRepo:      serviceRepository,
		practitionerRepo: practitionerRepository,
		patientRepo:      patientRepository,
		cfg:              cfg,
		cache:            cache,
		kafka:            kafka,
		otel:             otel,
	}
}

// Create commits one booking. The request is validated against the live
// catalog (service, practitioner), an "any practitioner" request is pinned to
// a concrete practitioner first, and the write itself goes through the
// repository's atomic path so two concurrent commits for the same slot key
// resolve to exactly one winner.
func (s *serviceImpl) Create(ctx context.Context, clinicID, user string, req dto.CreateBookingRequest) (res dto.BookingConfirmation, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	svc, err := s.serviceRepo.GetActive(ctx, clinicID, req.ServiceID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get service")

		return res, fmt.Errorf("failed to get service: %w", err)
	}

	if svc.ID == constant.Empty {
		return res, failure.NotFound("service not found") // nolint:wrapcheck
	}

	date, err := timezone.Parse(constant.CalendarDateFormat, req.Date)
	if err != nil {
		return res, failure.BadRequestFromString("invalid date format") // nolint:wrapcheck
	}

	practitionerID := req.PractitionerID

	var practitionerName string

	if practitionerID != constant.Empty {
		practitioner, err := s.practitionerRepo.GetActive(ctx, clinicID, practitionerID)
		if err != nil {
			log.Error().Err(err).Msg("failed to get practitioner")

			return res, fmt.Errorf("failed to get practitioner: %w", err)
		}

		if practitioner.ID == constant.Empty {
			return res, failure.NotFound("practitioner not found") // nolint:wrapcheck
		}

		practitionerName = practitioner.FullName
	} else {
		practitionerID, practitionerName, err = s.pinPractitioner(ctx, clinicID, date, req.Time, svc.DurationMinutes)
		if err != nil {
			return res, err
		}
	}

	patient, err := s.patientRepo.GetOrCreate(ctx, clinicID, req.PatientName, req.PatientPhone, req.PatientEmail)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve patient")

		return res, fmt.Errorf("failed to resolve patient: %w", err)
	}

	booking := req.ToModel(clinicID, practitionerID, patient.ID, date, svc.DurationMinutes, user)

	if err := s.bookingRepo.CreateAtomically(ctx, booking); err != nil {
		if failure.GetCode(err) == http.StatusConflict {
			return res, err // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publishAndInvalidate(ctx, constant.KafkaTopicBookingCreated, booking)

	res = dto.BookingConfirmation{
		BookingID:        booking.ID,
		Date:             req.Date,
		Time:             req.Time,
		ServiceName:      svc.Name,
		PractitionerName: practitionerName,
		Confirmed:        true,
	}

	return res, nil
}

// pinPractitioner resolves an "any practitioner" request to the lowest
// practitioner id whose generated slots for the date still contain the
// requested time. No candidate means the slot is not available, which is the
// same Conflict a losing concurrent commit would see.
func (s *serviceImpl) pinPractitioner(ctx context.Context, clinicID string, date time.Time, startTime string, serviceDuration int) (string, string, error) {
	schedules, err := s.scheduleRepo.ListForDay(ctx, clinicID, int(date.Weekday()), date, constant.Empty)
	if err != nil {
		log.Error().Err(err).Msg("failed to list schedules")

		return constant.Empty, constant.Empty, fmt.Errorf("failed to list schedules: %w", err)
	}

	practitionerIDs := make([]string, 0, len(schedules))
	seen := map[string]bool{}

	for _, sched := range schedules {
		if !seen[sched.PractitionerID] {
			seen[sched.PractitionerID] = true

			practitionerIDs = append(practitionerIDs, sched.PractitionerID)
		}
	}

	practitioners, err := s.practitionerRepo.ListActiveByIDs(ctx, clinicID, practitionerIDs)
	if err != nil {
		log.Error().Err(err).Msg("failed to list practitioners")

		return constant.Empty, constant.Empty, fmt.Errorf("failed to list practitioners: %w", err)
	}

	bookings, err := s.bookingRepo.ListForDate(ctx, clinicID, date, constant.Empty)
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookings")

		return constant.Empty, constant.Empty, fmt.Errorf("failed to list bookings: %w", err)
	}

	byPractitioner := make(map[string][]model.Booking, len(practitioners))
	for _, booking := range bookings {
		byPractitioner[booking.PractitionerID] = append(byPractitioner[booking.PractitionerID], booking)
	}

	now := timezone.Now()

	// Practitioners come back ordered by id, so the first one whose slots
	// still contain the requested time is the deterministic pick.
	for _, practitioner := range practitioners {
		for _, sched := range schedules {
			if sched.PractitionerID != practitioner.ID {
				continue
			}

			times, err := availability.GenerateSlots(sched, serviceDuration, byPractitioner[practitioner.ID], date, now)
			if err != nil {
				log.Error().Err(err).Str("schedule", sched.ID).Msg("failed to generate slots")

				return constant.Empty, constant.Empty, fmt.Errorf("failed to generate slots: %w", err)
			}

			for _, slotTime := range times {
				if slotTime == startTime {
					return practitioner.ID, practitioner.FullName, nil
				}
			}
		}
	}

	return constant.Empty, constant.Empty, failure.Conflict("slot is not available") // nolint:wrapcheck
}

func (s *serviceImpl) GetAll(ctx context.Context, clinicID string, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldClinicID,
		Operator: gDto.FilterOperatorEq,
		Value:    clinicID,
		Table:    model.TableName,
	}, gDto.Filter{
		Field:    model.FieldDeletedAt,
		Operator: gDto.FilterIsNull,
		Table:    model.TableName,
	})

	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(cacheGetBookings, clinicID), params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	bookings, err := s.bookingRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	total, err := s.bookingRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	res.FromModels(bookings, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, clinicID, bookingID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getLive(ctx, clinicID, bookingID)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

// Cancel marks a booking cancelled, which frees its slot for new commits.
// Cancelling an already cancelled booking is a no-op.
func (s *serviceImpl) Cancel(ctx context.Context, clinicID, user, bookingID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getLive(ctx, clinicID, bookingID)
	if err != nil {
		return err
	}

	if booking.Status == constant.BookingStatusCancelled {
		return nil
	}

	update := map[string]any{
		model.FieldStatus:        constant.BookingStatusCancelled,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.bookingRepo.Update(ctx, update, s.idFilter(clinicID, bookingID)); err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	booking.Status = constant.BookingStatusCancelled

	s.publishAndInvalidate(ctx, constant.KafkaTopicBookingCancelled, booking)

	return nil
}

// Delete soft-deletes a booking. The row stays for audit but stops counting
// as live, so its slot becomes bookable again.
func (s *serviceImpl) Delete(ctx context.Context, clinicID, user, bookingID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err := s.getLive(ctx, clinicID, bookingID); err != nil {
		return err
	}

	update := map[string]any{
		model.FieldDeletedAt:     timezone.Now(),
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.bookingRepo.Update(ctx, update, s.idFilter(clinicID, bookingID)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.invalidate(ctx, clinicID)

	return nil
}

func (s *serviceImpl) getLive(ctx context.Context, clinicID, bookingID string) (model.Booking, error) {
	filter := s.idFilter(clinicID, bookingID)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldDeletedAt,
		Operator: gDto.FilterIsNull,
		Table:    model.TableName,
	})

	booking, err := s.bookingRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) idFilter(clinicID, bookingID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldClinicID,
				Operator: gDto.FilterOperatorEq,
				Value:    clinicID,
				Table:    model.TableName,
			},
		},
	}
}

// publishAndInvalidate emits the booking event and drops the caches the write
// made stale. Both are fire-and-forget; a sink outage never fails the booking.
func (s *serviceImpl) publishAndInvalidate(ctx context.Context, topic string, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		event := kafka.Message{
			Key:   booking.ID,
			Value: dto.NewBookingEvent(booking),
		}

		if err := s.kafka.SendMessages(c, topic, event); err != nil {
			log.Error().Err(err).Str("topic", topic).Str("booking", booking.ID).Msg("failed to publish booking event")
		}
	}()

	s.invalidate(ctx, booking.ClinicID)
}

func (s *serviceImpl) invalidate(ctx context.Context, clinicID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetAvailability, clinicID))
		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetBookings, clinicID))
	}()
}
