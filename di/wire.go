//go:build wireinject
// +build wireinject

package di

import (
	"kumbam/config"
	"kumbam/infras/gateway"
	"kumbam/infras/jwt"
	"kumbam/infras/kafka"
	"kumbam/infras/mail"
	"kumbam/infras/otel"
	"kumbam/infras/postgres"
	"kumbam/infras/redis"
	"kumbam/infras/s3"
	"kumbam/internal/worker"
	"kumbam/permissions"
	"kumbam/shared/cache"
	"kumbam/shared/otp"
	"kumbam/transport/http"
	"kumbam/transport/http/middleware"
	"kumbam/transport/http/router"

	"github.com/google/wire"

	authRepository "kumbam/internal/domains/auth/repository"
	authService "kumbam/internal/domains/auth/service"
	bookingRepository "kumbam/internal/domains/booking/repository"
	bookingService "kumbam/internal/domains/booking/service"
	paymentRepository "kumbam/internal/domains/payment/repository"
	paymentService "kumbam/internal/domains/payment/service"
	userRepository "kumbam/internal/domains/user/repository"
	userService "kumbam/internal/domains/user/service"
	venueRepository "kumbam/internal/domains/venue/repository"
	venueService "kumbam/internal/domains/venue/service"

	authHandler "kumbam/internal/handlers/auth"
	bookingHandler "kumbam/internal/handlers/booking"
	paymentHandler "kumbam/internal/handlers/payment"
	userHandler "kumbam/internal/handlers/user"
	venueHandler "kumbam/internal/handlers/venue"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	mail.New,
	gateway.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	otp.New,
)

var authDomain = wire.NewSet(
	authRepository.New,
	authService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var venueDomain = wire.NewSet(
	venueRepository.New,
	venueService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var paymentDomain = wire.NewSet(
	paymentRepository.New,
	paymentService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	venueDomain,
	bookingDomain,
	paymentDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	venueHandler.New,
	bookingHandler.New,
	paymentHandler.New,
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

func InitializeReceiptWorker() *worker.Receipt {
	wire.Build(
		config.Get,
		otel.New,
		kafka.New,
		mail.New,
		s3.New,
		worker.NewReceipt,
	)

	return &worker.Receipt{}
}
