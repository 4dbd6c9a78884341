//go:build wireinject
// +build wireinject

package di

import (
	"clinicbook/config"
	"clinicbook/infras/jwt"
	"clinicbook/infras/kafka"
	"clinicbook/infras/otel"
	"clinicbook/infras/postgres"
	"clinicbook/infras/redis"
	"clinicbook/permissions"
	"clinicbook/shared/cache"
	"clinicbook/transport/http"
	"clinicbook/transport/http/middleware"
	"clinicbook/transport/http/router"

	availabilityHandler "clinicbook/internal/handlers/availability"
	bookingHandler "clinicbook/internal/handlers/booking"
	scheduleHandler "clinicbook/internal/handlers/schedule"

	availabilityService "clinicbook/internal/domains/availability/service"
	bookingRepository "clinicbook/internal/domains/booking/repository"
	bookingService "clinicbook/internal/domains/booking/service"
	patientRepository "clinicbook/internal/domains/patient/repository"
	practitionerRepository "clinicbook/internal/domains/practitioner/repository"
	scheduleRepository "clinicbook/internal/domains/schedule/repository"
	scheduleService "clinicbook/internal/domains/schedule/service"
	serviceRepository "clinicbook/internal/domains/service/repository"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	permissions.Get,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var availabilityDomain = wire.NewSet(
	scheduleRepository.New,
	serviceRepository.New,
	practitionerRepository.New,
	availabilityService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	patientRepository.New,
	bookingService.New,
)

var scheduleDomain = wire.NewSet(
	scheduleService.New,
)

var domains = wire.NewSet(
	availabilityDomain,
	bookingDomain,
	scheduleDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	availabilityHandler.New,
	bookingHandler.New,
	scheduleHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
