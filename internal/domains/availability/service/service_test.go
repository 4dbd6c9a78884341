package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"clinicbook/config"
	"clinicbook/infras/otel/mocks"
	"clinicbook/internal/domains/availability"
	"clinicbook/internal/domains/availability/model/dto"
	"clinicbook/internal/domains/availability/service"
	bookingMocks "clinicbook/internal/domains/booking/mocks"
	bookingModel "clinicbook/internal/domains/booking/model"
	practitionerMocks "clinicbook/internal/domains/practitioner/mocks"
	practitionerModel "clinicbook/internal/domains/practitioner/model"
	scheduleMocks "clinicbook/internal/domains/schedule/mocks"
	scheduleModel "clinicbook/internal/domains/schedule/model"
	serviceMocks "clinicbook/internal/domains/service/mocks"
	serviceModel "clinicbook/internal/domains/service/model"
	cacheMocks "clinicbook/shared/cache/mocks"
	"clinicbook/shared/constant"
	"clinicbook/shared/failure"
	"clinicbook/shared/timezone"
)

const (
	testClinicID = "clinic-1"
	testDate     = "2026-09-07"
)

type availabilityMocks struct {
	schedule     *scheduleMocks.MockSchedule
	booking      *bookingMocks.MockBooking
	service      *serviceMocks.MockService
	practitioner *practitionerMocks.MockPractitioner
	cache        *cacheMocks.MockRedisCache

	// saved signals the background cache write so tests can wait for it
	// instead of racing the mock controller's cleanup.
	saved chan struct{}
}

func newAvailabilityService(t *testing.T) (service.Availability, availabilityMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := availabilityMocks{
		schedule:     scheduleMocks.NewMockSchedule(ctrl),
		booking:      bookingMocks.NewMockBooking(ctrl),
		service:      serviceMocks.NewMockService(ctrl),
		practitioner: practitionerMocks.NewMockPractitioner(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
		saved:        make(chan struct{}, 1),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.schedule, m.booking, m.service, m.practitioner, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func (m availabilityMocks) expectSave() {
	m.cache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, any, int) error {
			m.saved <- struct{}{}
			return nil
		})
}

func (m availabilityMocks) waitForSave(t *testing.T) {
	t.Helper()

	select {
	case <-m.saved:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the background cache write")
	}
}

func activeService(durationMinutes int) serviceModel.Service {
	return serviceModel.Service{
		ID:              "svc-1",
		ClinicID:        testClinicID,
		Name:            "Consultation",
		DurationMinutes: durationMinutes,
		IsActive:        true,
	}
}

func weekdaySchedule(practitionerID string) scheduleModel.Schedule {
	return scheduleModel.Schedule{
		ID:             "sched-" + practitionerID,
		ClinicID:       testClinicID,
		PractitionerID: practitionerID,
		DayOfWeek:      1,
		StartTime:      "09:00",
		EndTime:        "11:00",
		SlotDuration:   30,
		IsActive:       true,
	}
}

func TestAvailabilityService_AvailableSlots(t *testing.T) {
	req := dto.AvailabilityRequest{
		Date:      testDate,
		ServiceID: "svc-1",
	}

	t.Run("cache hit returns without repository calls", func(t *testing.T) {
		svc, m := newAvailabilityService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := svc.AvailableSlots(context.Background(), testClinicID, req)
		assert.NoError(t, err)
	})

	t.Run("service not found", func(t *testing.T) {
		svc, m := newAvailabilityService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.service.EXPECT().
			GetActive(gomock.Any(), testClinicID, "svc-1").
			Return(serviceModel.Service{}, nil)

		_, err := svc.AvailableSlots(context.Background(), testClinicID, req)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("invalid date format", func(t *testing.T) {
		svc, _ := newAvailabilityService(t)

		badReq := dto.AvailabilityRequest{Date: "07-09-2026", ServiceID: "svc-1"}

		_, err := svc.AvailableSlots(context.Background(), testClinicID, badReq)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("same-day requests bypass the cache", func(t *testing.T) {
		svc, m := newAvailabilityService(t)

		// A cached same-day response would keep advertising slots the
		// lead-time cutoff has already passed, so neither cache.Get nor
		// cache.Save may be called: the strict mocks fail on either.
		now := timezone.Now()
		today := now.Format(constant.CalendarDateFormat)

		sameDayReq := dto.AvailabilityRequest{Date: today, ServiceID: "svc-1"}

		m.service.EXPECT().
			GetActive(gomock.Any(), testClinicID, "svc-1").
			Return(activeService(30), nil)

		sched := weekdaySchedule("prac-1")
		sched.DayOfWeek = int(now.Weekday())
		sched.StartTime = "00:00"
		sched.EndTime = "23:59"

		m.schedule.EXPECT().
			ListForDay(gomock.Any(), testClinicID, gomock.Any(), gomock.Any(), "").
			Return([]scheduleModel.Schedule{sched}, nil)

		m.practitioner.EXPECT().
			ListActiveByIDs(gomock.Any(), testClinicID, []string{"prac-1"}).
			Return([]practitionerModel.Practitioner{
				{ID: "prac-1", FullName: "Dr. Adams", IsActive: true},
			}, nil)

		m.booking.EXPECT().
			ListForDate(gomock.Any(), testClinicID, gomock.Any(), "").
			Return([]bookingModel.Booking{}, nil)

		res, err := svc.AvailableSlots(context.Background(), testClinicID, sameDayReq)
		require.NoError(t, err)

		cutoff := now.Add(30 * time.Minute)
		cutoffMinutes := cutoff.Hour()*60 + cutoff.Minute()

		if cutoff.Day() != now.Day() {
			// Within half an hour of midnight nothing is bookable today.
			assert.Empty(t, res.Slots)

			return
		}

		// The all-day schedule has slots on the 30-minute grid up to 23:00,
		// so away from the end of the day some must survive the cutoff.
		if cutoffMinutes <= 22*60 {
			require.NotEmpty(t, res.Slots)
		}

		for _, slot := range res.Slots {
			slotMinutes, err := availability.ParseClock(slot.Time)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, slotMinutes, cutoffMinutes)
		}
	})

	t.Run("no schedules yields empty slots", func(t *testing.T) {
		svc, m := newAvailabilityService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.service.EXPECT().
			GetActive(gomock.Any(), testClinicID, "svc-1").
			Return(activeService(30), nil)

		m.schedule.EXPECT().
			ListForDay(gomock.Any(), testClinicID, gomock.Any(), gomock.Any(), "").
			Return([]scheduleModel.Schedule{}, nil)

		res, err := svc.AvailableSlots(context.Background(), testClinicID, req)
		require.NoError(t, err)

		assert.Equal(t, testDate, res.Date)
		assert.Equal(t, 30, res.ServiceDurationMinutes)
		assert.Empty(t, res.Slots)
	})

	t.Run("merges practitioners and dedupes by time", func(t *testing.T) {
		svc, m := newAvailabilityService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.service.EXPECT().
			GetActive(gomock.Any(), testClinicID, "svc-1").
			Return(activeService(30), nil)

		m.schedule.EXPECT().
			ListForDay(gomock.Any(), testClinicID, gomock.Any(), gomock.Any(), "").
			Return([]scheduleModel.Schedule{
				weekdaySchedule("prac-1"),
				weekdaySchedule("prac-2"),
			}, nil)

		m.practitioner.EXPECT().
			ListActiveByIDs(gomock.Any(), testClinicID, []string{"prac-1", "prac-2"}).
			Return([]practitionerModel.Practitioner{
				{ID: "prac-1", FullName: "Dr. Adams", IsActive: true},
				{ID: "prac-2", FullName: "Dr. Brown", IsActive: true},
			}, nil)

		// prac-1 already has 09:00 booked; prac-2 keeps the full window.
		m.booking.EXPECT().
			ListForDate(gomock.Any(), testClinicID, gomock.Any(), "").
			Return([]bookingModel.Booking{
				{PractitionerID: "prac-1", StartTime: "09:00", DurationMinutes: 30},
			}, nil)

		m.expectSave()

		res, err := svc.AvailableSlots(context.Background(), testClinicID, req)
		require.NoError(t, err)
		m.waitForSave(t)

		times := make([]string, len(res.Slots))
		for i, slot := range res.Slots {
			times[i] = slot.Time
		}

		// One representative per time; 09:00 survives through prac-2.
		assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, times)
		assert.Equal(t, "prac-2", res.Slots[0].PractitionerID)
		assert.Equal(t, "prac-1", res.Slots[1].PractitionerID)
	})

	t.Run("specific practitioner keeps attribution", func(t *testing.T) {
		svc, m := newAvailabilityService(t)

		pinnedReq := dto.AvailabilityRequest{
			Date:           testDate,
			ServiceID:      "svc-1",
			PractitionerID: "prac-2",
		}

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.service.EXPECT().
			GetActive(gomock.Any(), testClinicID, "svc-1").
			Return(activeService(30), nil)

		m.schedule.EXPECT().
			ListForDay(gomock.Any(), testClinicID, gomock.Any(), gomock.Any(), "prac-2").
			Return([]scheduleModel.Schedule{weekdaySchedule("prac-2")}, nil)

		m.practitioner.EXPECT().
			ListActiveByIDs(gomock.Any(), testClinicID, []string{"prac-2"}).
			Return([]practitionerModel.Practitioner{
				{ID: "prac-2", FullName: "Dr. Brown", IsActive: true},
			}, nil)

		m.booking.EXPECT().
			ListForDate(gomock.Any(), testClinicID, gomock.Any(), "prac-2").
			Return([]bookingModel.Booking{}, nil)

		m.expectSave()

		res, err := svc.AvailableSlots(context.Background(), testClinicID, pinnedReq)
		require.NoError(t, err)
		m.waitForSave(t)

		require.Len(t, res.Slots, 4)
		for _, slot := range res.Slots {
			assert.Equal(t, "prac-2", slot.PractitionerID)
			assert.Equal(t, "Dr. Brown", slot.PractitionerName)
		}
	})

	t.Run("inactive practitioner contributes no slots", func(t *testing.T) {
		svc, m := newAvailabilityService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.service.EXPECT().
			GetActive(gomock.Any(), testClinicID, "svc-1").
			Return(activeService(30), nil)

		m.schedule.EXPECT().
			ListForDay(gomock.Any(), testClinicID, gomock.Any(), gomock.Any(), "").
			Return([]scheduleModel.Schedule{
				weekdaySchedule("prac-1"),
				weekdaySchedule("prac-2"),
			}, nil)

		// prac-1 was deactivated after its schedule was created.
		m.practitioner.EXPECT().
			ListActiveByIDs(gomock.Any(), testClinicID, []string{"prac-1", "prac-2"}).
			Return([]practitionerModel.Practitioner{
				{ID: "prac-2", FullName: "Dr. Brown", IsActive: true},
			}, nil)

		m.booking.EXPECT().
			ListForDate(gomock.Any(), testClinicID, gomock.Any(), "").
			Return([]bookingModel.Booking{}, nil)

		m.expectSave()

		res, err := svc.AvailableSlots(context.Background(), testClinicID, req)
		require.NoError(t, err)
		m.waitForSave(t)

		for _, slot := range res.Slots {
			assert.Equal(t, "prac-2", slot.PractitionerID)
		}
	})

	t.Run("schedule listing error", func(t *testing.T) {
		svc, m := newAvailabilityService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.service.EXPECT().
			GetActive(gomock.Any(), testClinicID, "svc-1").
			Return(activeService(30), nil)

		m.schedule.EXPECT().
			ListForDay(gomock.Any(), testClinicID, gomock.Any(), gomock.Any(), "").
			Return(nil, errors.New("database error"))

		_, err := svc.AvailableSlots(context.Background(), testClinicID, req)
		assert.Error(t, err)
	})
}
