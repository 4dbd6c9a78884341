package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"clinicbook/config"
	"clinicbook/infras/otel/mocks"
	practitionerMocks "clinicbook/internal/domains/practitioner/mocks"
	practitionerModel "clinicbook/internal/domains/practitioner/model"
	scheduleMocks "clinicbook/internal/domains/schedule/mocks"
	"clinicbook/internal/domains/schedule/model"
	"clinicbook/internal/domains/schedule/model/dto"
	"clinicbook/internal/domains/schedule/service"
	cacheMocks "clinicbook/shared/cache/mocks"
	"clinicbook/shared/failure"
)

const (
	testClinicID = "clinic-1"
	testUser     = "user-1"
)

type scheduleTestMocks struct {
	schedule     *scheduleMocks.MockSchedule
	practitioner *practitionerMocks.MockPractitioner
	cache        *cacheMocks.MockRedisCache

	// cleared signals the background cache invalidation so tests can wait
	// for it instead of racing the mock controller's cleanup.
	cleared chan struct{}
}

func newScheduleService(t *testing.T) (service.Schedule, scheduleTestMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := scheduleTestMocks{
		schedule:     scheduleMocks.NewMockSchedule(ctrl),
		practitioner: practitionerMocks.NewMockPractitioner(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
		cleared:      make(chan struct{}, 8),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.schedule, m.practitioner, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func (m scheduleTestMocks) expectInvalidation() {
	m.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string) error {
			m.cleared <- struct{}{}
			return nil
		}).
		AnyTimes()
}

func (m scheduleTestMocks) waitForInvalidation(t *testing.T) {
	t.Helper()

	// Both the schedule list prefix and the availability prefix are cleared.
	for i := 0; i < 2; i++ {
		select {
		case <-m.cleared:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for cache invalidation")
		}
	}
}

func strPtr(s string) *string {
	return &s
}

func activePractitioner() practitionerModel.Practitioner {
	return practitionerModel.Practitioner{ID: "prac-1", FullName: "Dr. Adams", IsActive: true}
}

func createRequest() dto.CreateScheduleRequest {
	return dto.CreateScheduleRequest{
		PractitionerID:      "prac-1",
		DayOfWeek:           1,
		StartTime:           "09:00",
		EndTime:             "17:00",
		SlotDurationMinutes: 30,
	}
}

func storedSchedule() model.Schedule {
	return model.Schedule{
		ID:             "sched-1",
		ClinicID:       testClinicID,
		PractitionerID: "prac-1",
		DayOfWeek:      1,
		StartTime:      "09:00",
		EndTime:        "17:00",
		SlotDuration:   30,
		IsActive:       true,
	}
}

func TestScheduleService_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, m := newScheduleService(t)

		m.practitioner.EXPECT().
			GetActive(gomock.Any(), testClinicID, "prac-1").
			Return(activePractitioner(), nil)

		var inserted model.Schedule

		m.schedule.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, sched model.Schedule) error {
				inserted = sched
				return nil
			})

		m.expectInvalidation()

		res, err := svc.Create(context.Background(), testClinicID, testUser, createRequest())
		require.NoError(t, err)

		assert.NotEmpty(t, res.ID)
		assert.Equal(t, "prac-1", res.PractitionerID)
		assert.Equal(t, 30, res.SlotDurationMinutes)
		assert.True(t, res.IsActive)
		assert.Equal(t, testClinicID, inserted.ClinicID)

		m.waitForInvalidation(t)
	})

	t.Run("defaults the slot duration", func(t *testing.T) {
		svc, m := newScheduleService(t)

		m.practitioner.EXPECT().
			GetActive(gomock.Any(), testClinicID, "prac-1").
			Return(activePractitioner(), nil)

		m.schedule.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		m.expectInvalidation()

		req := createRequest()
		req.SlotDurationMinutes = 0

		res, err := svc.Create(context.Background(), testClinicID, testUser, req)
		require.NoError(t, err)
		assert.Equal(t, 30, res.SlotDurationMinutes)

		m.waitForInvalidation(t)
	})

	t.Run("practitioner not found", func(t *testing.T) {
		svc, m := newScheduleService(t)

		m.practitioner.EXPECT().
			GetActive(gomock.Any(), testClinicID, "prac-1").
			Return(practitionerModel.Practitioner{}, nil)

		_, err := svc.Create(context.Background(), testClinicID, testUser, createRequest())
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("window invariants", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(req *dto.CreateScheduleRequest)
		}{
			{
				name: "start must precede end",
				mutate: func(req *dto.CreateScheduleRequest) {
					req.StartTime = "17:00"
					req.EndTime = "09:00"
				},
			},
			{
				name: "empty window",
				mutate: func(req *dto.CreateScheduleRequest) {
					req.StartTime = "09:00"
					req.EndTime = "09:00"
				},
			},
			{
				name: "unpaired break",
				mutate: func(req *dto.CreateScheduleRequest) {
					req.BreakStart = strPtr("12:00")
				},
			},
			{
				name: "reversed break",
				mutate: func(req *dto.CreateScheduleRequest) {
					req.BreakStart = strPtr("13:00")
					req.BreakEnd = strPtr("12:00")
				},
			},
			{
				name: "break outside working hours",
				mutate: func(req *dto.CreateScheduleRequest) {
					req.BreakStart = strPtr("08:00")
					req.BreakEnd = strPtr("10:00")
				},
			},
			{
				name: "validity window reversed",
				mutate: func(req *dto.CreateScheduleRequest) {
					req.ValidFrom = "2026-10-01"
					req.ValidUntil = "2026-09-01"
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, m := newScheduleService(t)

				m.practitioner.EXPECT().
					GetActive(gomock.Any(), testClinicID, "prac-1").
					Return(activePractitioner(), nil)

				req := createRequest()
				tt.mutate(&req)

				_, err := svc.Create(context.Background(), testClinicID, testUser, req)
				require.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			})
		}
	})
}

func TestScheduleService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc, m := newScheduleService(t)

		m.schedule.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(storedSchedule(), nil)

		res, err := svc.Get(context.Background(), testClinicID, "sched-1")
		require.NoError(t, err)
		assert.Equal(t, "sched-1", res.ID)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newScheduleService(t)

		m.schedule.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Schedule{}, nil)

		_, err := svc.Get(context.Background(), testClinicID, "sched-404")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestScheduleService_Update(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, m := newScheduleService(t)

		m.schedule.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(storedSchedule(), nil)

		m.schedule.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		m.expectInvalidation()

		err := svc.Update(context.Background(), testClinicID, testUser, "sched-1", dto.UpdateScheduleRequest{
			EndTime: "18:00",
		})
		require.NoError(t, err)

		m.waitForInvalidation(t)
	})

	t.Run("validates against the merged schedule", func(t *testing.T) {
		svc, m := newScheduleService(t)

		// The stored window is 09:00-17:00; shrinking it to end at 11:00
		// strands the existing 12:00-13:00 break outside working hours.
		sched := storedSchedule()
		sched.BreakStart = strPtr("12:00")
		sched.BreakEnd = strPtr("13:00")

		m.schedule.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(sched, nil)

		err := svc.Update(context.Background(), testClinicID, testUser, "sched-1", dto.UpdateScheduleRequest{
			EndTime: "11:00",
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newScheduleService(t)

		m.schedule.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Schedule{}, nil)

		err := svc.Update(context.Background(), testClinicID, testUser, "sched-404", dto.UpdateScheduleRequest{})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestScheduleService_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, m := newScheduleService(t)

		m.schedule.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(storedSchedule(), nil)

		m.schedule.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		m.expectInvalidation()

		err := svc.Delete(context.Background(), testClinicID, "sched-1")
		require.NoError(t, err)

		m.waitForInvalidation(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newScheduleService(t)

		m.schedule.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Schedule{}, nil)

		err := svc.Delete(context.Background(), testClinicID, "sched-404")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
