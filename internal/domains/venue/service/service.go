package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"kumbam/config"
	"kumbam/infras/otel"
	bookingRepo "kumbam/internal/domains/booking/repository"
	bookingService "kumbam/internal/domains/booking/service"
	"kumbam/internal/domains/venue/model"
	"kumbam/internal/domains/venue/model/dto"
	"kumbam/internal/domains/venue/repository"
	"kumbam/shared"
	"kumbam/shared/cache"
	"kumbam/shared/constant"
	gDto "kumbam/shared/dto"
	"kumbam/shared/failure"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetVenue      = "venue:get"
	cacheGetAllVenue   = "venue:gets"
	cacheCountVenue    = "venue:count"
	cacheCategories    = "venue:categories"
	cacheMuhurtham     = "venue:muhurtham"
	msgVenueNotFound   = "venue not found"
	msgInvalidPeriod   = "invalid month or year"
	msgNoMuhurtham     = "no muhurtham dates for this venue and year"
	maxCalendarYear    = 9999
	decemberMonthValue = 12
)

type Venue interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetVenuesResponse, error)
	Get(ctx context.Context, id int64) (dto.VenueResponse, error)
	Categories(ctx context.Context) ([]string, error)
	Availability(ctx context.Context, id int64, year, month int) (dto.AvailabilityResponse, error)
	Muhurtham(ctx context.Context, id int64, year int) (dto.MuhurthamResponse, error)
}

type serviceImpl struct {
	repo        repository.Venue
	bookingRepo bookingRepo.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(repo repository.Venue, bookingRepo bookingRepo.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Venue {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetVenuesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllVenues")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params.RestrictSort(model.FieldName, model.FieldPrice, model.FieldCapacity, constant.FieldCreatedAt)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllVenue, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for venues")

		return res, nil
	}

	total, err := s.count(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count venues")

		return res, fmt.Errorf("failed to count venues: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get venues")

		return res, fmt.Errorf("failed to get venues: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	s.saveAsync(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountVenue, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count venues: %w", err)
	}

	s.saveAsync(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.VenueResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetVenue")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetVenue, fmt.Sprint(id))

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	venue, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(venue)

	s.saveAsync(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id int64) (model.Venue, error) {
	venue, err := s.repo.Get(ctx, shared.FilterByID(fmt.Sprint(id), model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("venue_id", id).Msg("failed to get venue")

		return venue, fmt.Errorf("failed to get venue: %w", err)
	}

	if venue.ID == 0 {
		return venue, failure.NotFound(msgVenueNotFound) // nolint:wrapcheck
	}

	return venue, nil
}

func (s *serviceImpl) Categories(ctx context.Context) (res []string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetCategories")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.cache.Get(ctx, cacheCategories, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Categories(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get venue categories")

		return nil, fmt.Errorf("failed to get venue categories: %w", err)
	}

	s.saveAsync(ctx, cacheCategories, res)

	return res, nil
}

// Availability lists the booked days of a venue in one calendar month. Booking dates
// are calendar days, so the month is bounded in UTC.
func (s *serviceImpl) Availability(ctx context.Context, id int64, year, month int) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAvailability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if month < 1 || month > decemberMonthValue || year < 1 || year > maxCalendarYear {
		return res, failure.BadRequestFromString(msgInvalidPeriod) // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(bookingService.CacheAvailability, fmt.Sprint(id), fmt.Sprint(year), fmt.Sprint(month))

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	venue, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	booked, err := s.bookingRepo.BookedDatesBetween(ctx, id, from, from.AddDate(0, 1, 0))
	if err != nil {
		log.Error().Err(err).Int64("venue_id", id).Msg("failed to get booked dates")

		return res, fmt.Errorf("failed to get booked dates: %w", err)
	}

	res.Venue.FromModel(venue)
	res.Year = year
	res.Month = month
	res.BookedDates = make([]string, len(booked))

	for i, day := range booked {
		res.BookedDates[i] = day.BookedDate.UTC().Format(constant.DayFormat)
	}

	s.saveAsync(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Muhurtham(ctx context.Context, id int64, year int) (res dto.MuhurthamResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMuhurtham")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if year < 1 || year > maxCalendarYear {
		return res, failure.BadRequestFromString(msgInvalidPeriod) // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheMuhurtham, fmt.Sprint(id), fmt.Sprint(year))

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	muhurtham, err := s.repo.GetMuhurtham(ctx, id, year)
	if err != nil {
		log.Error().Err(err).Int64("venue_id", id).Int("year", year).Msg("failed to get muhurtham dates")

		return res, fmt.Errorf("failed to get muhurtham dates: %w", err)
	}

	if muhurtham.VenueID == 0 {
		return res, failure.NotFound(msgNoMuhurtham) // nolint:wrapcheck
	}

	res.FromModel(muhurtham)

	s.saveAsync(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) saveAsync(ctx context.Context, key string, value any) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save venue cache")
		}
	}()
}
