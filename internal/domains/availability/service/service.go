package service

import (
	"clinicbook/config"
	"clinicbook/infras/otel"
	"clinicbook/internal/domains/availability"
	"clinicbook/internal/domains/availability/model/dto"
	bookingModel "clinicbook/internal/domains/booking/model"
	bookingRepo "clinicbook/internal/domains/booking/repository"
	practitionerRepo "clinicbook/internal/domains/practitioner/repository"
	scheduleRepo "clinicbook/internal/domains/schedule/repository"
	serviceRepo "clinicbook/internal/domains/service/repository"
	"clinicbook/shared"
	"clinicbook/shared/cache"
	"clinicbook/shared/constant"
	"clinicbook/shared/failure"
	"clinicbook/shared/timezone"
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAvailability = "availability:slots"
)

type Availability interface {
	AvailableSlots(ctx context.Context, clinicID string, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
}

type serviceImpl struct {
	scheduleRepo     scheduleRepo.Schedule
	bookingRepo      bookingRepo.Booking
	serviceRepo      serviceRepo.Service
	practitionerRepo practitionerRepo.Practitioner
	cfg              *config.Config
	cache            cache.RedisCache
	otel             otel.Otel
}

func New(
	scheduleRepository scheduleRepo.Schedule,
	bookingRepository bookingRepo.Booking,
	serviceRepository serviceRepo.Service,
	practitionerRepository practitionerRepo.Practitioner,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Availability {
	return &serviceImpl{
		scheduleRepo:     scheduleRepository,
		bookingRepo:      bookingRepository,
		serviceRepo:      serviceRepository,
		practitionerRepo: practitionerRepository,
		cfg:              cfg,
		cache:            cache,
		otel:             otel,
	}
}

// AvailableSlots merges the bookable slots of every eligible practitioner for
// one date and service. The whole computation is read-only: it can run with
// arbitrary parallelism across requests.
func (s *serviceImpl) AvailableSlots(ctx context.Context, clinicID string, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AvailableSlots")
	defer scope.End()
	defer scope.TraceIfError(err)

	date, err := timezone.Parse(constant.CalendarDateFormat, req.Date)
	if err != nil {
		return res, failure.BadRequestFromString("invalid date format") // nolint:wrapcheck
	}

	// A same-day response goes stale as the lead-time cutoff advances, so
	// only other dates are served from and written to the cache.
	cacheable := req.Date != timezone.Now().Format(constant.CalendarDateFormat)

	cacheKey := shared.BuildCacheKey(cacheGetAvailability, clinicID, req.Date, req.ServiceID, req.PractitionerID)

	if cacheable {
		err = s.cache.Get(ctx, cacheKey, &res)
		if err == nil {
			log.Info().Str("cacheKey", cacheKey).Msg("cache hit for availability")

			return res, nil
		}
	}

	svc, err := s.serviceRepo.GetActive(ctx, clinicID, req.ServiceID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get service")

		return res, fmt.Errorf("failed to get service: %w", err)
	}

	if svc.ID == constant.Empty {
		return res, failure.NotFound("service not found") // nolint:wrapcheck
	}

	res = dto.AvailabilityResponse{
		Date:                   req.Date,
		ServiceDurationMinutes: svc.DurationMinutes,
		Slots:                  []dto.Slot{},
	}

	schedules, err := s.scheduleRepo.ListForDay(ctx, clinicID, int(date.Weekday()), date, req.PractitionerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list schedules")

		return res, fmt.Errorf("failed to list schedules: %w", err)
	}

	// No matching schedule means no availability, which is a normal outcome.
	if len(schedules) == 0 {
		return res, nil
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

		return res, fmt.Errorf("failed to list practitioners: %w", err)
	}

	names := make(map[string]string, len(practitioners))
	for _, practitioner := range practitioners {
		names[practitioner.ID] = practitioner.FullName
	}

	if len(names) == 0 {
		return res, nil
	}

	bookings, err := s.bookingRepo.ListForDate(ctx, clinicID, date, req.PractitionerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookings")

		return res, fmt.Errorf("failed to list bookings: %w", err)
	}

	byPractitioner := make(map[string][]bookingModel.Booking, len(names))
	for _, booking := range bookings {
		byPractitioner[booking.PractitionerID] = append(byPractitioner[booking.PractitionerID], booking)
	}

	now := timezone.Now()

	for _, sched := range schedules {
		name, active := names[sched.PractitionerID]
		if !active {
			continue
		}

		times, err := availability.GenerateSlots(sched, svc.DurationMinutes, byPractitioner[sched.PractitionerID], date, now)
		if err != nil {
			log.Error().Err(err).Str("schedule", sched.ID).Msg("failed to generate slots")

			return res, fmt.Errorf("failed to generate slots: %w", err)
		}

		for _, slotTime := range times {
			res.Slots = append(res.Slots, dto.Slot{
				Time:             slotTime,
				PractitionerID:   sched.PractitionerID,
				PractitionerName: name,
			})
		}
	}

	// Zero-padded HH:MM sorts correctly as text; the practitioner id breaks
	// ties so the representative kept by deduplication is deterministic.
	sort.SliceStable(res.Slots, func(i, j int) bool {
		if res.Slots[i].Time != res.Slots[j].Time {
			return res.Slots[i].Time < res.Slots[j].Time
		}

		return res.Slots[i].PractitionerID < res.Slots[j].PractitionerID
	})

	res.Slots = dedupe(res.Slots, req.PractitionerID == constant.Empty)

	if cacheable {
		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save availability to cache")
			}
		}()
	}

	return res, nil
}

// dedupe collapses duplicate entries in a sorted slot list. When the caller
// did not ask for a specific practitioner, one representative per distinct
// time is enough; otherwise only exact duplicates (from overlapping validity
// windows of the same practitioner) are collapsed.
func dedupe(slots []dto.Slot, byTimeOnly bool) []dto.Slot {
	deduped := make([]dto.Slot, 0, len(slots))

	lastKey := ""

	for _, slot := range slots {
		key := slot.Time
		if !byTimeOnly {
			key = slot.Time + "|" + slot.PractitionerID
		}

		if len(deduped) > 0 && key == lastKey {
			continue
		}

		deduped = append(deduped, slot)
		lastKey = key
	}

	return deduped
}
