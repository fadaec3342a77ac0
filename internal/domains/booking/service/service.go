package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"kumbam/config"
	"kumbam/infras/mail"
	"kumbam/infras/otel"
	"kumbam/internal/domains/booking/model"
	"kumbam/internal/domains/booking/model/dto"
	"kumbam/internal/domains/booking/repository"
	venueModel "kumbam/internal/domains/venue/model"
	venueRepo "kumbam/internal/domains/venue/repository"
	"kumbam/shared"
	"kumbam/shared/cache"
	"kumbam/shared/constant"
	gDto "kumbam/shared/dto"
	"kumbam/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	// CacheAvailability is shared with the venue service, which reads it.
	CacheAvailability = "venue:availability"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetBookingsResponse, error)
}

type serviceImpl struct {
	repo      repository.Booking
	venueRepo venueRepo.Venue
	mailer    mail.Mailer
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Booking, venueRepo venueRepo.Venue, mailer mail.Mailer, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:      repo,
		venueRepo: venueRepo,
		mailer:    mailer,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = req.Validate(); err != nil {
		return res, err
	}

	venueExists, err := s.venueRepo.Exist(ctx, shared.FilterByID(fmt.Sprint(req.VenueID), venueModel.FieldID, venueModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if venue exists")

		return res, fmt.Errorf("failed to check if venue exists: %w", err)
	}

	if !venueExists {
		return res, failure.BadRequestFromString(dto.MsgVenueDoesNotExist) // nolint:wrapcheck
	}

	days := req.Days()

	taken, err := s.repo.BookedDates(ctx, req.VenueID, days)
	if err != nil {
		log.Error().Err(err).Msg("failed to check booked dates")

		return res, fmt.Errorf("failed to check booked dates: %w", err)
	}

	if len(taken) > 0 {
		scope.SetAttribute("booking.conflict_dates", len(taken))

		return res, failure.Conflict(dto.MsgDatesTaken) // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		user = constant.ContextGuest
	}

	booking := req.ToModel(user, days)

	err = s.repo.CreateWithDates(ctx, booking, days)
	if errors.Is(err, repository.ErrDatesTaken) {
		log.Warn().Int64("venue_id", req.VenueID).Msg("dates taken by a concurrent booking")

		return res, failure.Conflict(dto.MsgDatesTaken) // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	scope.SetAttributes(map[string]any{
		"booking.id":       booking.ID,
		"booking.venue_id": booking.VenueID,
		"booking.days":     len(days),
	})

	go func() {
		c := context.WithoutCancel(ctx)

		s.notifyAdmin(c, booking)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(CacheAvailability, fmt.Sprint(booking.VenueID), constant.Empty))
	}()

	res.BookingID = booking.ID

	return res, nil
}

// notifyAdmin runs after commit; a failed send is logged and the booking stands.
func (s *serviceImpl) notifyAdmin(ctx context.Context, booking model.Booking) {
	if s.cfg.App.AdminEmail == constant.Empty {
		log.Warn().Str("booking_id", booking.ID).Msg("admin email not configured, skipping booking notification")

		return
	}

	err := s.mailer.Send(ctx, mail.Message{
		To:      s.cfg.App.AdminEmail,
		Subject: "New Booking - Kumbam",
		Body: fmt.Sprintf(
			"New booking %s by %s on %s for %s.\nVenue: %d\nContact: %s, %s\nAddress: %s\nTotal: Rs. %d",
			booking.ID, booking.Name, booking.BookingDates, booking.EventType,
			booking.VenueID, booking.Phone, booking.Email, booking.Address, booking.TotalPrice,
		),
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to send booking notification")
	}
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMyBookings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return res, failure.Unauthorized("authentication required") // nolint:wrapcheck
	}

	params.RestrictSort(model.FieldName, model.FieldTotalPrice, constant.FieldCreatedAt)

	filter := gDto.And(gDto.Eq(model.TableName, model.FieldCreatedBy, user))
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.count(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}
