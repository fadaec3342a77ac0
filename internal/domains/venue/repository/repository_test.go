package repository_test

import (
	"context"
	"errors"
	"kumbam/infras/otel/mocks"
	"kumbam/infras/postgres"
	"kumbam/internal/domains/venue/repository"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (repository.Venue, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func TestVenueRepository_Categories(t *testing.T) {
	query := regexp.QuoteMeta("SELECT DISTINCT category FROM venues ORDER BY category")

	t.Run("distinct sorted categories", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery(query).
			WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("Hall").AddRow("Lawn"))

		categories, err := repo.Categories(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"Hall", "Lawn"}, categories)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no venues", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"category"}))

		categories, err := repo.Categories(context.Background())

		require.NoError(t, err)
		assert.Empty(t, categories)
	})

	t.Run("query fails", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery(query).WillReturnError(errors.New("connection reset"))

		_, err := repo.Categories(context.Background())

		require.Error(t, err)
	})
}

func TestVenueRepository_GetMuhurtham(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare("SELECT (.+) FROM muhurtham_dates").
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"venue_id", "year", "valarpirai_dates", "theipirai_dates"}).
			AddRow(int64(7), 2025, "{2025-04-10,2025-04-14}", "{2025-04-25}"))

	muhurtham, err := repo.GetMuhurtham(context.Background(), 7, 2025)

	require.NoError(t, err)
	assert.Equal(t, 2025, muhurtham.Year)
	assert.Equal(t, []string{"2025-04-10", "2025-04-14"}, []string(muhurtham.Valarpirai))
	assert.Equal(t, []string{"2025-04-25"}, []string(muhurtham.Theipirai))
}
