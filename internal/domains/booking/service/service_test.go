package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"clinicbook/config"
	"clinicbook/infras/kafka"
	"clinicbook/infras/otel/mocks"
	bookingMocks "clinicbook/internal/domains/booking/mocks"
	"clinicbook/internal/domains/booking/model"
	"clinicbook/internal/domains/booking/model/dto"
	"clinicbook/internal/domains/booking/repository"
	"clinicbook/internal/domains/booking/service"
	patientMocks "clinicbook/internal/domains/patient/mocks"
	patientModel "clinicbook/internal/domains/patient/model"
	practitionerMocks "clinicbook/internal/domains/practitioner/mocks"
	practitionerModel "clinicbook/internal/domains/practitioner/model"
	scheduleMocks "clinicbook/internal/domains/schedule/mocks"
	scheduleModel "clinicbook/internal/domains/schedule/model"
	serviceMocks "clinicbook/internal/domains/service/mocks"
	serviceModel "clinicbook/internal/domains/service/model"
	cacheMocks "clinicbook/shared/cache/mocks"
	"clinicbook/shared/constant"
	gDto "clinicbook/shared/dto"
	"clinicbook/shared/failure"

	segmentio "github.com/segmentio/kafka-go"
)

const (
	testClinicID = "clinic-1"
	testUser     = "user-1"
	testDate     = "2026-09-07"
)

type bookingTestMocks struct {
	booking      *bookingMocks.MockBooking
	schedule     *scheduleMocks.MockSchedule
	service      *serviceMocks.MockService
	practitioner *practitionerMocks.MockPractitioner
	patient      *patientMocks.MockPatient
	cache        *cacheMocks.MockRedisCache

	// signals receives one element per fire-and-forget side effect (event
	// publish, cache invalidation) so tests can wait for the goroutines
	// instead of racing the mock controller.
	signals chan struct{}
}

func newBookingService(t *testing.T) (service.Booking, bookingTestMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := bookingTestMocks{
		booking:      bookingMocks.NewMockBooking(ctrl),
		schedule:     scheduleMocks.NewMockSchedule(ctrl),
		service:      serviceMocks.NewMockService(ctrl),
		practitioner: practitionerMocks.NewMockPractitioner(ctrl),
		patient:      patientMocks.NewMockPatient(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
		signals:      make(chan struct{}, 16),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.booking, m.schedule, m.service, m.practitioner, m.patient, cfg, m.cache, newSignalKafka(m.signals), mocks.NewOtel())

	return svc, m
}

func (m bookingTestMocks) waitForSignals(t *testing.T, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		select {
		case <-m.signals:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for background signal %d of %d", i+1, n)
		}
	}
}

func (m bookingTestMocks) expectInvalidation() {
	m.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string) error {
			m.signals <- struct{}{}
			return nil
		}).
		AnyTimes()
}

// signalKafka counts publishes through the shared signal channel. The real
// client is only exercised in integration, so a stub is enough here.
type signalKafka struct {
	signals chan struct{}
}

func newSignalKafka(signals chan struct{}) kafka.Client {
	return &signalKafka{signals: signals}
}

func (k *signalKafka) SendMessages(_ context.Context, _ string, messages ...kafka.Message) error {
	for range messages {
		k.signals <- struct{}{}
	}

	return nil
}

func (k *signalKafka) Consume(context.Context, string, string, func(segmentio.Message)) {}

func (k *signalKafka) Reader(string, string) *segmentio.Reader { return nil }

func activeService() serviceModel.Service {
	return serviceModel.Service{
		ID:              "svc-1",
		ClinicID:        testClinicID,
		Name:            "Consultation",
		DurationMinutes: 30,
		IsActive:        true,
	}
}

func createRequest(practitionerID string) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		ServiceID:      "svc-1",
		PractitionerID: practitionerID,
		Date:           testDate,
		Time:           "10:00",
		PatientName:    "Jane Roe",
		PatientPhone:   "+628111111111",
	}
}

func TestBookingService_Create(t *testing.T) {
	t.Run("explicit practitioner", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.service.EXPECT().
			GetActive(gomock.Any(), testClinicID, "svc-1").
			Return(activeService(), nil)

		m.practitioner.EXPECT().
			GetActive(gomock.Any(), testClinicID, "prac-1").
			Return(practitionerModel.Practitioner{ID: "prac-1", FullName: "Dr. Adams", IsActive: true}, nil)

		m.patient.EXPECT().
			GetOrCreate(gomock.Any(), testClinicID, "Jane Roe", "+628111111111", "").
			Return(patientModel.Patient{ID: "pat-1"}, nil)

		var committed model.Booking

		m.booking.EXPECT().
			CreateAtomically(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking model.Booking) error {
				committed = booking
				return nil
			})

		m.expectInvalidation()

		res, err := svc.Create(context.Background(), testClinicID, testUser, createRequest("prac-1"))
		require.NoError(t, err)

		assert.True(t, res.Confirmed)
		assert.Equal(t, committed.ID, res.BookingID)
		assert.Equal(t, testDate, res.Date)
		assert.Equal(t, "10:00", res.Time)
		assert.Equal(t, "Consultation", res.ServiceName)
		assert.Equal(t, "Dr. Adams", res.PractitionerName)

		assert.Equal(t, "prac-1", committed.PractitionerID)
		assert.Equal(t, "pat-1", committed.PatientID)
		assert.Equal(t, 30, committed.DurationMinutes)
		assert.Equal(t, constant.BookingStatusScheduled, committed.Status)

		// One event publish plus two cache prefix invalidations.
		m.waitForSignals(t, 3)
	})

	t.Run("service not found", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.service.EXPECT().
			GetActive(gomock.Any(), testClinicID, "svc-1").
			Return(serviceModel.Service{}, nil)

		_, err := svc.Create(context.Background(), testClinicID, testUser, createRequest("prac-1"))
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("practitioner not found", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.service.EXPECT().
			GetActive(gomock.Any(), testClinicID, "svc-1").
			Return(activeService(), nil)

		m.practitioner.EXPECT().
			GetActive(gomock.Any(), testClinicID, "prac-404").
			Return(practitionerModel.Practitioner{}, nil)

		_, err := svc.Create(context.Background(), testClinicID, testUser, createRequest("prac-404"))
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("invalid date", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.service.EXPECT().
			GetActive(gomock.Any(), testClinicID, "svc-1").
			Return(activeService(), nil)

		req := createRequest("prac-1")
		req.Date = "07/09/2026"

		_, err := svc.Create(context.Background(), testClinicID, testUser, req)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("conflict from the atomic commit is passed through", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.service.EXPECT().
			GetActive(gomock.Any(), testClinicID, "svc-1").
			Return(activeService(), nil)

		m.practitioner.EXPECT().
			GetActive(gomock.Any(), testClinicID, "prac-1").
			Return(practitionerModel.Practitioner{ID: "prac-1", FullName: "Dr. Adams", IsActive: true}, nil)

		m.patient.EXPECT().
			GetOrCreate(gomock.Any(), testClinicID, "Jane Roe", "+628111111111", "").
			Return(patientModel.Patient{ID: "pat-1"}, nil)

		m.booking.EXPECT().
			CreateAtomically(gomock.Any(), gomock.Any()).
			Return(failure.Conflict("slot already taken"))

		res, err := svc.Create(context.Background(), testClinicID, testUser, createRequest("prac-1"))
		require.Error(t, err)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.False(t, res.Confirmed)
	})
}

func TestBookingService_Create_PinsPractitioner(t *testing.T) {
	schedules := []scheduleModel.Schedule{
		{
			ID:             "sched-1",
			PractitionerID: "prac-1",
			DayOfWeek:      1,
			StartTime:      "09:00",
			EndTime:        "11:00",
			SlotDuration:   30,
			IsActive:       true,
		},
		{
			ID:             "sched-2",
			PractitionerID: "prac-2",
			DayOfWeek:      1,
			StartTime:      "09:00",
			EndTime:        "11:00",
			SlotDuration:   30,
			IsActive:       true,
		},
	}

	practitioners := []practitionerModel.Practitioner{
		{ID: "prac-1", FullName: "Dr. Adams", IsActive: true},
		{ID: "prac-2", FullName: "Dr. Brown", IsActive: true},
	}

	t.Run("skips a busy practitioner and pins the next by id", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.service.EXPECT().
			GetActive(gomock.Any(), testClinicID, "svc-1").
			Return(activeService(), nil)

		m.schedule.EXPECT().
			ListForDay(gomock.Any(), testClinicID, gomock.Any(), gomock.Any(), "").
			Return(schedules, nil)

		m.practitioner.EXPECT().
			ListActiveByIDs(gomock.Any(), testClinicID, []string{"prac-1", "prac-2"}).
			Return(practitioners, nil)

		// prac-1 already holds 10:00, so the pin falls through to prac-2.
		m.booking.EXPECT().
			ListForDate(gomock.Any(), testClinicID, gomock.Any(), "").
			Return([]model.Booking{
				{PractitionerID: "prac-1", StartTime: "10:00", DurationMinutes: 30},
			}, nil)

		m.patient.EXPECT().
			GetOrCreate(gomock.Any(), testClinicID, "Jane Roe", "+628111111111", "").
			Return(patientModel.Patient{ID: "pat-1"}, nil)

		var committed model.Booking

		m.booking.EXPECT().
			CreateAtomically(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking model.Booking) error {
				committed = booking
				return nil
			})

		m.expectInvalidation()

		res, err := svc.Create(context.Background(), testClinicID, testUser, createRequest(""))
		require.NoError(t, err)

		assert.Equal(t, "prac-2", committed.PractitionerID)
		assert.Equal(t, "Dr. Brown", res.PractitionerName)

		m.waitForSignals(t, 3)
	})

	t.Run("prefers the lowest practitioner id when both are free", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.service.EXPECT().
			GetActive(gomock.Any(), testClinicID, "svc-1").
			Return(activeService(), nil)

		m.schedule.EXPECT().
			ListForDay(gomock.Any(), testClinicID, gomock.Any(), gomock.Any(), "").
			Return(schedules, nil)

		m.practitioner.EXPECT().
			ListActiveByIDs(gomock.Any(), testClinicID, []string{"prac-1", "prac-2"}).
			Return(practitioners, nil)

		m.booking.EXPECT().
			ListForDate(gomock.Any(), testClinicID, gomock.Any(), "").
			Return([]model.Booking{}, nil)

		m.patient.EXPECT().
			GetOrCreate(gomock.Any(), testClinicID, "Jane Roe", "+628111111111", "").
			Return(patientModel.Patient{ID: "pat-1"}, nil)

		var committed model.Booking

		m.booking.EXPECT().
			CreateAtomically(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking model.Booking) error {
				committed = booking
				return nil
			})

		m.expectInvalidation()

		res, err := svc.Create(context.Background(), testClinicID, testUser, createRequest(""))
		require.NoError(t, err)

		assert.Equal(t, "prac-1", committed.PractitionerID)
		assert.Equal(t, "Dr. Adams", res.PractitionerName)

		m.waitForSignals(t, 3)
	})

	t.Run("no candidate yields a conflict", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.service.EXPECT().
			GetActive(gomock.Any(), testClinicID, "svc-1").
			Return(activeService(), nil)

		m.schedule.EXPECT().
			ListForDay(gomock.Any(), testClinicID, gomock.Any(), gomock.Any(), "").
			Return(schedules, nil)

		m.practitioner.EXPECT().
			ListActiveByIDs(gomock.Any(), testClinicID, []string{"prac-1", "prac-2"}).
			Return(practitioners, nil)

		m.booking.EXPECT().
			ListForDate(gomock.Any(), testClinicID, gomock.Any(), "").
			Return([]model.Booking{}, nil)

		req := createRequest("")
		req.Time = "20:00"

		_, err := svc.Create(context.Background(), testClinicID, testUser, req)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

// atomicFakeStore is a minimal in-memory stand-in for the booking repository
// whose CreateAtomically has the same guarantee as the real one: for one slot
// key, concurrent commits resolve to exactly one winner.
type atomicFakeStore struct {
	repository.Booking

	mu    sync.Mutex
	taken map[string]bool
}

func newAtomicFakeStore() *atomicFakeStore {
	return &atomicFakeStore{taken: map[string]bool{}}
}

func (s *atomicFakeStore) CreateAtomically(_ context.Context, booking model.Booking) error {
	key := booking.ClinicID + "|" + booking.PractitionerID + "|" +
		booking.BookingDate.Format(constant.CalendarDateFormat) + "|" + booking.StartTime

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.taken[key] {
		return failure.Conflict("slot already taken")
	}

	s.taken[key] = true

	return nil
}

func TestBookingService_Create_ConcurrentCommitsSameSlot(t *testing.T) {
	ctrl := gomock.NewController(t)

	serviceRepo := serviceMocks.NewMockService(ctrl)
	practitionerRepo := practitionerMocks.NewMockPractitioner(ctrl)
	patientRepo := patientMocks.NewMockPatient(ctrl)
	scheduleRepo := scheduleMocks.NewMockSchedule(ctrl)
	cacheMock := cacheMocks.NewMockRedisCache(ctrl)

	serviceRepo.EXPECT().
		GetActive(gomock.Any(), testClinicID, "svc-1").
		Return(activeService(), nil).
		AnyTimes()

	practitionerRepo.EXPECT().
		GetActive(gomock.Any(), testClinicID, "prac-1").
		Return(practitionerModel.Practitioner{ID: "prac-1", FullName: "Dr. Adams", IsActive: true}, nil).
		AnyTimes()

	patientRepo.EXPECT().
		GetOrCreate(gomock.Any(), testClinicID, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(patientModel.Patient{ID: "pat-1"}, nil).
		AnyTimes()

	signals := make(chan struct{}, 16)

	cacheMock.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string) error {
			signals <- struct{}{}
			return nil
		}).
		AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	store := newAtomicFakeStore()

	svc := service.New(store, scheduleRepo, serviceRepo, practitionerRepo, patientRepo, cfg, cacheMock, newSignalKafka(signals), mocks.NewOtel())

	const contenders = 8

	errs := make(chan error, contenders)

	var wg sync.WaitGroup

	for i := 0; i < contenders; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.Create(context.Background(), testClinicID, testUser, createRequest("prac-1"))
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	var wins, conflicts int

	for err := range errs {
		switch {
		case err == nil:
			wins++
		case failure.GetCode(err) == http.StatusConflict:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, wins)
	assert.Equal(t, contenders-1, conflicts)

	// Exactly one winner: one event publish plus two cache invalidations.
	for i := 0; i < 3; i++ {
		select {
		case <-signals:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for the winner's side effects")
		}
	}
}

func TestBookingService_GetAll(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10}

	t.Run("cache miss loads from repository", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		bookings := []model.Booking{
			{ID: "book-1", ClinicID: testClinicID, StartTime: "09:00", Status: constant.BookingStatusScheduled},
			{ID: "book-2", ClinicID: testClinicID, StartTime: "10:00", Status: constant.BookingStatusScheduled},
		}

		m.booking.EXPECT().
			GetAll(gomock.Any(), params, gomock.Any()).
			Return(bookings, nil)

		m.booking.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(2, nil)

		m.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, string, any, int) error {
				m.signals <- struct{}{}
				return nil
			})

		res, err := svc.GetAll(context.Background(), testClinicID, params, gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd})
		require.NoError(t, err)

		assert.Len(t, res.Bookings, 2)
		assert.Equal(t, 2, res.TotalData)
		assert.Equal(t, 1, res.TotalPage)

		m.waitForSignals(t, 1)
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := svc.GetAll(context.Background(), testClinicID, params, gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd})
		assert.NoError(t, err)
	})
}

func TestBookingService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.booking.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{
				ID:       "book-1",
				ClinicID: testClinicID,
				Status:   constant.BookingStatusScheduled,
			}, nil)

		res, err := svc.Get(context.Background(), testClinicID, "book-1")
		require.NoError(t, err)
		assert.Equal(t, "book-1", res.ID)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.booking.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		_, err := svc.Get(context.Background(), testClinicID, "book-404")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("frees the slot and publishes the event", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.booking.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{
				ID:       "book-1",
				ClinicID: testClinicID,
				Status:   constant.BookingStatusScheduled,
			}, nil)

		m.booking.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, update map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, constant.BookingStatusCancelled, update[model.FieldStatus])
				return nil
			})

		m.expectInvalidation()

		err := svc.Cancel(context.Background(), testClinicID, testUser, "book-1")
		require.NoError(t, err)

		m.waitForSignals(t, 3)
	})

	t.Run("already cancelled is a no-op", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.booking.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{
				ID:       "book-1",
				ClinicID: testClinicID,
				Status:   constant.BookingStatusCancelled,
			}, nil)

		err := svc.Cancel(context.Background(), testClinicID, testUser, "book-1")
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.booking.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		err := svc.Cancel(context.Background(), testClinicID, testUser, "book-404")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_Delete(t *testing.T) {
	t.Run("soft deletes and invalidates caches", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.booking.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{
				ID:       "book-1",
				ClinicID: testClinicID,
				Status:   constant.BookingStatusScheduled,
			}, nil)

		m.booking.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, update map[string]any, _ gDto.FilterGroup) error {
				assert.NotNil(t, update[model.FieldDeletedAt])
				return nil
			})

		m.expectInvalidation()

		err := svc.Delete(context.Background(), testClinicID, testUser, "book-1")
		require.NoError(t, err)

		// Deleting only invalidates; no event is published.
		m.waitForSignals(t, 2)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.booking.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		err := svc.Delete(context.Background(), testClinicID, testUser, "book-404")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
