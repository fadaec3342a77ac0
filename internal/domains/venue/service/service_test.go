package service_test

import (
	"context"
	"errors"
	"kumbam/config"
	"kumbam/infras/otel/mocks"
	bookingMocks "kumbam/internal/domains/booking/mocks"
	bookingModel "kumbam/internal/domains/booking/model"
	venueMocks "kumbam/internal/domains/venue/mocks"
	"kumbam/internal/domains/venue/model"
	"kumbam/internal/domains/venue/service"
	cacheMocks "kumbam/shared/cache/mocks"
	gDto "kumbam/shared/dto"
	"kumbam/shared/failure"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errCacheMiss = errors.New("cache miss")

type fixture struct {
	repo        *venueMocks.MockVenue
	bookingRepo *bookingMocks.MockBooking
	cache       *cacheMocks.MockRedisCache
	svc         service.Venue
	saved       chan string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f := fixture{
		repo:        venueMocks.NewMockVenue(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
		saved:       make(chan string, 4),
	}

	f.svc = service.New(f.repo, f.bookingRepo, cfg, f.cache, mocks.NewOtel())
	f.cache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string, _ any, _ int) error {
			f.saved <- key

			return nil
		}).
		AnyTimes()

	return f
}

// cachedKeys waits for n background cache writes and returns their keys.
func (f fixture) cachedKeys(t *testing.T, n int) []string {
	t.Helper()

	keys := make([]string, 0, n)

	for range n {
		select {
		case key := <-f.saved:
			keys = append(keys, key)
		case <-time.After(time.Second):
			t.Fatalf("expected %d cache writes, got %d", n, len(keys))
		}
	}

	return keys
}

func assertFailureCode(t *testing.T, err error, code int) {
	t.Helper()

	fail, ok := failure.As(err)
	require.True(t, ok, "expected a failure, got %v", err)
	assert.Equal(t, code, fail.Code)
}

func TestVenueService_GetAll(t *testing.T) {
	t.Run("cache miss reads repository", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).Times(2)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Venue{
			{ID: 1, Name: "Lakshmi Mahal", Category: "mahal", Price: 50000},
			{ID: 2, Name: "Sri Hall", Category: "hall", Price: 30000},
		}, nil)

		res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 2}, gDto.FilterGroup{})

		require.NoError(t, err)
		assert.Equal(t, 3, res.TotalData)
		assert.Equal(t, 2, res.TotalPage)
		require.Len(t, res.Venues, 2)
		assert.Equal(t, "Lakshmi Mahal", res.Venues[0].Name)
		assert.Len(t, f.cachedKeys(t, 2), 2)
	})

	t.Run("unknown sort column falls back to default", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).Times(2)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Venue, error) {
				assert.NotEqual(t, "price; DROP TABLE venues", params.SortBy)

				return []model.Venue{}, nil
			})

		_, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: "price; DROP TABLE venues"}, gDto.FilterGroup{})

		require.NoError(t, err)
		assert.Len(t, f.cachedKeys(t, 2), 2)
	})

	t.Run("repository error", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).Times(2)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("db down"))

		_, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

		require.Error(t, err)
		_, ok := failure.As(err)
		assert.False(t, ok)
	})
}

func TestVenueService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "venue:get:7", gomock.Any()).Return(errCacheMiss)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Venue{ID: 7, Name: "Kalyana Mandapam"}, nil)

		res, err := f.svc.Get(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, int64(7), res.ID)
		assert.Equal(t, []string{"venue:get:7"}, f.cachedKeys(t, 1))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Venue{}, nil)

		_, err := f.svc.Get(context.Background(), 99)

		assertFailureCode(t, err, http.StatusNotFound)
	})
}

func TestVenueService_Categories(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), "venue:categories", gomock.Any()).Return(errCacheMiss)
	f.repo.EXPECT().Categories(gomock.Any()).Return([]string{"hall", "mahal"}, nil)

	res, err := f.svc.Categories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"hall", "mahal"}, res)
	assert.Equal(t, []string{"venue:categories"}, f.cachedKeys(t, 1))
}

func TestVenueService_Availability(t *testing.T) {
	t.Run("returns booked days of the month", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "venue:availability:7:2025:2", gomock.Any()).Return(errCacheMiss)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Venue{ID: 7, Name: "Kalyana Mandapam"}, nil)
		f.bookingRepo.EXPECT().
			BookedDatesBetween(gomock.Any(), int64(7),
				time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)).
			Return([]bookingModel.BookedDate{
				{VenueID: 7, BookedDate: time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC)},
				{VenueID: 7, BookedDate: time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC)},
			}, nil)

		res, err := f.svc.Availability(context.Background(), 7, 2025, 2)

		require.NoError(t, err)
		assert.Equal(t, "Kalyana Mandapam", res.Venue.Name)
		assert.Equal(t, []string{"2025-02-14", "2025-02-15"}, res.BookedDates)
		assert.Equal(t, []string{"venue:availability:7:2025:2"}, f.cachedKeys(t, 1))
	})

	t.Run("invalid month", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Availability(context.Background(), 7, 2025, 13)

		assertFailureCode(t, err, http.StatusBadRequest)
	})

	t.Run("unknown venue", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Venue{}, nil)

		_, err := f.svc.Availability(context.Background(), 7, 2025, 2)

		assertFailureCode(t, err, http.StatusNotFound)
	})
}

func TestVenueService_Muhurtham(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
		f.repo.EXPECT().GetMuhurtham(gomock.Any(), int64(7), 2025).Return(model.Muhurtham{
			VenueID:    7,
			Year:       2025,
			Valarpirai: pq.StringArray{"2025-02-10"},
			Theipirai:  pq.StringArray{"2025-02-20", "2025-02-24"},
		}, nil)

		res, err := f.svc.Muhurtham(context.Background(), 7, 2025)

		require.NoError(t, err)
		assert.Equal(t, []string{"2025-02-10"}, res.Valarpirai)
		assert.Len(t, res.Theipirai, 2)
		assert.Len(t, f.cachedKeys(t, 1), 1)
	})

	t.Run("absent", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
		f.repo.EXPECT().GetMuhurtham(gomock.Any(), int64(7), 2030).Return(model.Muhurtham{}, nil)

		_, err := f.svc.Muhurtham(context.Background(), 7, 2030)

		assertFailureCode(t, err, http.StatusNotFound)
	})
}
