package venue_test

import (
	"encoding/json"
	"kumbam/infras/otel/mocks"
	"kumbam/internal/domains/venue/model"
	"kumbam/internal/domains/venue/model/dto"
	venueMocks "kumbam/internal/domains/venue/service/mocks"
	"kumbam/internal/handlers/venue"
	gDto "kumbam/shared/dto"
	"kumbam/shared/failure"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T) (*chi.Mux, *venueMocks.MockVenue) {
	t.Helper()

	svc := venueMocks.NewMockVenue(gomock.NewController(t))
	handler := venue.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	return rec
}

func TestHandler_GetVenues(t *testing.T) {
	t.Run("category filter", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gDto.And(gDto.Eq(model.TableName, model.FieldCategory, "Hall"))).
			Return(dto.GetVenuesResponse{Venues: []dto.VenueResponse{{ID: 7, Name: "Kumbam Mahal"}}, TotalData: 1, TotalPage: 1}, nil)

		rec := get(router, "/venues/?category=Hall")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Kumbam Mahal")
	})

	t.Run("no filter", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gDto.And()).Return(dto.GetVenuesResponse{}, nil)

		assert.Equal(t, http.StatusOK, get(router, "/venues/").Code)
	})
}

func TestHandler_GetCategories(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Categories(gomock.Any()).Return([]string{"Hall", "Mandapam"}, nil)

	rec := get(router, "/venues/categories")

	require.Equal(t, http.StatusOK, rec.Code)

	payload := struct {
		Data []string `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, []string{"Hall", "Mandapam"}, payload.Data)
}

func TestHandler_GetVenueByID(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		setupMock func(svc *venueMocks.MockVenue)
		wantCode  int
	}{
		{
			name: "found",
			path: "/venues/7",
			setupMock: func(svc *venueMocks.MockVenue) {
				svc.EXPECT().Get(gomock.Any(), int64(7)).Return(dto.VenueResponse{ID: 7}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "missing",
			path: "/venues/99",
			setupMock: func(svc *venueMocks.MockVenue) {
				svc.EXPECT().Get(gomock.Any(), int64(99)).Return(dto.VenueResponse{}, failure.NotFound("venue not found"))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:      "not a number",
			path:      "/venues/abc",
			setupMock: func(_ *venueMocks.MockVenue) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newRouter(t)
			tt.setupMock(svc)

			assert.Equal(t, tt.wantCode, get(router, tt.path).Code)
		})
	}
}

func TestHandler_GetAvailability(t *testing.T) {
	t.Run("explicit month", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().
			Availability(gomock.Any(), int64(7), 2025, 2).
			Return(dto.AvailabilityResponse{Year: 2025, Month: 2, BookedDates: []string{"2025-02-14"}}, nil)

		rec := get(router, "/venues/7/availability?month=2&year=2025")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "2025-02-14")
	})

	t.Run("garbage month", func(t *testing.T) {
		router, _ := newRouter(t)

		assert.Equal(t, http.StatusBadRequest, get(router, "/venues/7/availability?month=feb").Code)
	})
}

func TestHandler_GetMuhurtham(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Muhurtham(gomock.Any(), int64(7), 2026).Return(dto.MuhurthamResponse{}, failure.NotFound("no muhurtham dates for this venue and year"))

	assert.Equal(t, http.StatusNotFound, get(router, "/venues/7/muhurtham?year=2026").Code)
}
