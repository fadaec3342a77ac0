package venue

import (
	"kumbam/infras/otel"
	"kumbam/internal/domains/venue/model"
	"kumbam/internal/domains/venue/service"
	"kumbam/shared/constant"
	gDto "kumbam/shared/dto"
	"kumbam/shared/failure"
	"kumbam/shared/timezone"
	"kumbam/transport/http/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	msgInvalidVenueID = "invalid venue id"
	msgInvalidPeriod  = "invalid month or year"
)

type Handler struct {
	service service.Venue
	otel    otel.Otel
}

func New(service service.Venue, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/venues", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetVenues)
		routerGroup.Get("/categories", handler.GetCategories)
		routerGroup.Get("/{id}", handler.GetVenueByID)
		routerGroup.Get("/{id}/availability", handler.GetAvailability)
		routerGroup.Get("/{id}/muhurtham", handler.GetMuhurtham)
	})
}

func venueID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, constant.RequestParamID), 10, 64)
	if err != nil || id <= 0 {
		return 0, failure.BadRequestFromString(msgInvalidVenueID) // nolint:wrapcheck
	}

	return id, nil
}

// queryInt reads key from the query string, falling back to def when it is absent.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, failure.BadRequestFromString(msgInvalidPeriod) // nolint:wrapcheck
	}

	return value, nil
}

// GetVenues lists venues.
// @Summary Get all venues
// @Description Retrieve venues with pagination and an optional category filter.
// @Tags Venue
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param category query string false "Filter by category"
// @Success 200 {object} response.Data[dto.GetVenuesResponse] "List of venues"
// @Failure 500 {object} response.Error
// @Router /v1/venues [get]
func (handler *Handler) GetVenues(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVenues")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.And()

	if category := r.URL.Query().Get(constant.RequestParamCategory); category != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Eq(model.TableName, model.FieldCategory, category))
	}

	venues, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get venues")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, venues)
}

// GetCategories lists the distinct venue categories.
// @Summary Get venue categories
// @Tags Venue
// @Produce json
// @Success 200 {object} response.Data[[]string] "Categories"
// @Failure 500 {object} response.Error
// @Router /v1/venues/categories [get]
func (handler *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCategories")
	defer scope.End()

	categories, err := handler.service.Categories(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get venue categories")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, categories)
}

// GetVenueByID retrieves a venue by its ID.
// @Summary Get a venue by ID
// @Tags Venue
// @Produce json
// @Param id path int true "Venue ID"
// @Success 200 {object} response.Data[dto.VenueResponse] "Venue details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/venues/{id} [get]
func (handler *Handler) GetVenueByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVenueByID")
	defer scope.End()

	id, err := venueID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	venue, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("venue_id", id).Msg("failed to get venue")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, venue)
}

// GetAvailability returns the booked dates of a venue for one month.
// @Summary Get venue availability
// @Description Booked dates of the venue in the given month. Month and year default to the current ones.
// @Tags Venue
// @Produce json
// @Param id path int true "Venue ID"
// @Param month query int false "Month (1-12)"
// @Param year query int false "Year"
// @Success 200 {object} response.Data[dto.AvailabilityResponse] "Availability"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/venues/{id}/availability [get]
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	now := timezone.Now()

	id, err := venueID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	month, err := queryInt(r, constant.RequestParamMonth, int(now.Month()))
	if err != nil {
		response.WithError(w, err)

		return
	}

	year, err := queryInt(r, constant.RequestParamYear, now.Year())
	if err != nil {
		response.WithError(w, err)

		return
	}

	availability, err := handler.service.Availability(ctx, id, year, month)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("venue_id", id).Msg("failed to get venue availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, availability)
}

// GetMuhurtham returns the auspicious dates of a venue for one year.
// @Summary Get muhurtham dates
// @Tags Venue
// @Produce json
// @Param id path int true "Venue ID"
// @Param year query int false "Year, defaults to the current one"
// @Success 200 {object} response.Data[dto.MuhurthamResponse] "Muhurtham dates"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/venues/{id}/muhurtham [get]
func (handler *Handler) GetMuhurtham(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMuhurtham")
	defer scope.End()

	id, err := venueID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	year, err := queryInt(r, constant.RequestParamYear, timezone.Now().Year())
	if err != nil {
		response.WithError(w, err)

		return
	}

	muhurtham, err := handler.service.Muhurtham(ctx, id, year)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("venue_id", id).Msg("failed to get muhurtham dates")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, muhurtham)
}
