package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"clinicbook/config"
	"clinicbook/infras/otel"
	"clinicbook/internal/domains/availability"
	practitionerRepo "clinicbook/internal/domains/practitioner/repository"
	"clinicbook/internal/domains/schedule/model"
	"clinicbook/internal/domains/schedule/model/dto"
	"clinicbook/internal/domains/schedule/repository"
	"clinicbook/shared"
	"clinicbook/shared/cache"
	"clinicbook/shared/constant"
	gDto "clinicbook/shared/dto"
	"clinicbook/shared/failure"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetSchedules    = "schedules:list"
	cacheGetAvailability = "availability:slots"
)

type Schedule interface {
	Create(ctx context.Context, clinicID, user string, req dto.CreateScheduleRequest) (dto.ScheduleResponse, error)
	GetAll(ctx context.Context, clinicID string, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetSchedulesResponse, error)
	Get(ctx context.Context, clinicID, scheduleID string) (dto.ScheduleResponse, error)
	Update(ctx context.Context, clinicID, user, scheduleID string, req dto.UpdateScheduleRequest) error
	Delete(ctx context.Context, clinicID, scheduleID string) error
}

type serviceImpl struct {
	scheduleRepo     repository.Schedule
	practitionerRepo practitionerRepo.Practitioner
	cfg              *config.Config
	cache            cache.RedisCache
	otel             otel.Otel
}

func New(
	scheduleRepository repository.Schedule,
	practitionerRepository practitionerRepo.Practitioner,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Schedule {
	return &serviceImpl{
		scheduleRepo:     scheduleRepository,
		practitionerRepo: practitionerRepository,
		cfg:              cfg,
		cache:            cache,
		otel:             otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, clinicID, user string, req dto.CreateScheduleRequest) (res dto.ScheduleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".schedule.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	practitioner, err := s.practitionerRepo.GetActive(ctx, clinicID, req.PractitionerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get practitioner")

		return res, fmt.Errorf("failed to get practitioner: %w", err)
	}

	if practitioner.ID == constant.Empty {
		return res, failure.NotFound("practitioner not found") // nolint:wrapcheck
	}

	sched, err := req.ToModel(clinicID, user)
	if err != nil {
		return res, failure.BadRequestFromString("invalid date format") // nolint:wrapcheck
	}

	if err := validateWindow(sched); err != nil {
		return res, err
	}

	if sched.ValidFrom != nil && sched.ValidUntil != nil && sched.ValidUntil.Before(*sched.ValidFrom) {
		return res, failure.BadRequestFromString("valid_until must not precede valid_from") // nolint:wrapcheck
	}

	if err := s.scheduleRepo.Insert(ctx, sched); err != nil {
		log.Error().Err(err).Msg("failed to create schedule")

		return res, fmt.Errorf("failed to create schedule: %w", err)
	}

	s.invalidate(ctx, clinicID)

	res.FromModel(sched)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, clinicID string, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetSchedulesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".schedule.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldClinicID,
		Operator: gDto.FilterOperatorEq,
		Value:    clinicID,
		Table:    model.TableName,
	})

	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(cacheGetSchedules, clinicID), params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for schedules")

		return res, nil
	}

	schedules, err := s.scheduleRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get schedules")

		return res, fmt.Errorf("failed to get schedules: %w", err)
	}

	total, err := s.scheduleRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count schedules")

		return res, fmt.Errorf("failed to count schedules: %w", err)
	}

	res.FromModels(schedules, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save schedules to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, clinicID, scheduleID string) (res dto.ScheduleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".schedule.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	sched, err := s.get(ctx, clinicID, scheduleID)
	if err != nil {
		return res, err
	}

	res.FromModel(sched)

	return res, nil
}

// Update patches a schedule. Window invariants are validated against the
// merged result, not the patch alone, so a patch cannot leave the schedule
// with a break outside its working hours.
func (s *serviceImpl) Update(ctx context.Context, clinicID, user, scheduleID string, req dto.UpdateScheduleRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".schedule.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	sched, err := s.get(ctx, clinicID, scheduleID)
	if err != nil {
		return err
	}

	if req.StartTime != constant.Empty {
		sched.StartTime = req.StartTime
	}

	if req.EndTime != constant.Empty {
		sched.EndTime = req.EndTime
	}

	if req.BreakStart != nil {
		sched.BreakStart = req.BreakStart
	}

	if req.BreakEnd != nil {
		sched.BreakEnd = req.BreakEnd
	}

	if req.SlotDurationMinutes > 0 {
		sched.SlotDuration = req.SlotDurationMinutes
	}

	if err := validateWindow(sched); err != nil {
		return err
	}

	update := shared.TransformFields(req, user)

	if err := s.scheduleRepo.Update(ctx, update, s.idFilter(clinicID, scheduleID)); err != nil {
		log.Error().Err(err).Msg("failed to update schedule")

		return fmt.Errorf("failed to update schedule: %w", err)
	}

	s.invalidate(ctx, clinicID)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, clinicID, scheduleID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".schedule.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err := s.get(ctx, clinicID, scheduleID); err != nil {
		return err
	}

	if err := s.scheduleRepo.Delete(ctx, s.idFilter(clinicID, scheduleID)); err != nil {
		log.Error().Err(err).Msg("failed to delete schedule")

		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	s.invalidate(ctx, clinicID)

	return nil
}

func (s *serviceImpl) get(ctx context.Context, clinicID, scheduleID string) (model.Schedule, error) {
	sched, err := s.scheduleRepo.Get(ctx, s.idFilter(clinicID, scheduleID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get schedule")

		return sched, fmt.Errorf("failed to get schedule: %w", err)
	}

	if sched.ID == constant.Empty {
		return sched, failure.NotFound("schedule not found") // nolint:wrapcheck
	}

	return sched, nil
}

func (s *serviceImpl) idFilter(clinicID, scheduleID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    scheduleID,
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

func (s *serviceImpl) invalidate(ctx context.Context, clinicID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetSchedules, clinicID))
		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetAvailability, clinicID))
	}()
}

// validateWindow enforces the interval invariants of one schedule: the working
// window is non-empty, the break is paired, non-empty and inside the window.
func validateWindow(sched model.Schedule) error {
	startMin, err := availability.ParseClock(sched.StartTime)
	if err != nil {
		return failure.BadRequestFromString("invalid start_time") // nolint:wrapcheck
	}

	endMin, err := availability.ParseClock(sched.EndTime)
	if err != nil {
		return failure.BadRequestFromString("invalid end_time") // nolint:wrapcheck
	}

	if startMin >= endMin {
		return failure.BadRequestFromString("start_time must precede end_time") // nolint:wrapcheck
	}

	hasBreakStart := sched.BreakStart != nil
	hasBreakEnd := sched.BreakEnd != nil

	if hasBreakStart != hasBreakEnd {
		return failure.BadRequestFromString("break_start and break_end must be set together") // nolint:wrapcheck
	}

	if !hasBreakStart {
		return nil
	}

	breakStart, err := availability.ParseClock(*sched.BreakStart)
	if err != nil {
		return failure.BadRequestFromString("invalid break_start") // nolint:wrapcheck
	}

	breakEnd, err := availability.ParseClock(*sched.BreakEnd)
	if err != nil {
		return failure.BadRequestFromString("invalid break_end") // nolint:wrapcheck
	}

	if breakStart >= breakEnd {
		return failure.BadRequestFromString("break_start must precede break_end") // nolint:wrapcheck
	}

	if breakStart < startMin || breakEnd > endMin {
		return failure.BadRequestFromString("break must fall within working hours") // nolint:wrapcheck
	}

	return nil
}
