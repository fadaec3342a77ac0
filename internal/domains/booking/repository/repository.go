package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"kumbam/infras/otel"
	"kumbam/infras/postgres"
	"kumbam/internal/domains/booking/model"
	"kumbam/shared/constant"
	gDto "kumbam/shared/dto"
	gRepo "kumbam/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrDatesTaken reports that another booking already holds one of the dates.
var ErrDatesTaken = errors.New("dates already booked")

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	CreateWithDates(ctx context.Context, booking model.Booking, dates []time.Time) error
	BookedDates(ctx context.Context, venueID int64, dates []time.Time) ([]model.BookedDate, error)
	BookedDatesBetween(ctx context.Context, venueID int64, from, until time.Time) ([]model.BookedDate, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	bookedDates gRepo.Repository[model.BookedDate]
	db          *postgres.Connection
	otel        otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository:  gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		bookedDates: gRepo.NewRepository[model.BookedDate](model.BookedDateEntityName, model.BookedDateTableName, model.FieldBookedDate, db, otel),
		db:          db,
		otel:        otel,
	}
}

// CreateWithDates writes the booking and one booked_dates row per day in a single
// transaction. The unique (venue_id, booked_date) constraint turns a concurrent
// booking of the same day into ErrDatesTaken.
func (r *repositoryImpl) CreateWithDates(ctx context.Context, booking model.Booking, dates []time.Time) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CreateWithDates")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	rows := make([]model.BookedDate, len(dates))
	for i, date := range dates {
		rows[i] = model.BookedDate{
			BookingID:  booking.ID,
			VenueID:    booking.VenueID,
			BookedDate: date,
		}
	}

	err = r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := r.InsertTx(ctx, tx, booking); err != nil {
			return err //nolint:wrapcheck
		}

		return r.bookedDates.InsertBulkTx(ctx, tx, rows) //nolint:wrapcheck
	})

	if postgres.IsUniqueViolation(err, model.ConstraintVenueDate) {
		return ErrDatesTaken
	}

	if err != nil {
		return fmt.Errorf("failed to create booking with dates: %w", err)
	}

	return nil
}

func (r *repositoryImpl) BookedDates(ctx context.Context, venueID int64, dates []time.Time) ([]model.BookedDate, error) {
	if len(dates) == 0 {
		return []model.BookedDate{}, nil
	}

	return r.bookedDates.GetAll(ctx, gDto.QueryParams{}, gDto.And( //nolint:wrapcheck
		gDto.Eq(model.BookedDateTableName, model.FieldVenueID, venueID),
		gDto.Filter{
			Field:    model.FieldBookedDate,
			Value:    dates,
			Operator: gDto.FilterOperatorIn,
			Table:    model.BookedDateTableName,
		},
	))
}

// BookedDatesBetween lists the booked days in [from, until).
func (r *repositoryImpl) BookedDatesBetween(ctx context.Context, venueID int64, from, until time.Time) ([]model.BookedDate, error) {
	return r.bookedDates.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldBookedDate, SortDir: gDto.SortDirAsc}, gDto.And( //nolint:wrapcheck
		gDto.Eq(model.BookedDateTableName, model.FieldVenueID, venueID),
		gDto.Filter{
			ArgName:  "date_from",
			Field:    model.FieldBookedDate,
			Value:    from,
			Operator: gDto.FilterOperatorGreaterEq,
			Table:    model.BookedDateTableName,
		},
		gDto.Filter{
			ArgName:  "date_until",
			Field:    model.FieldBookedDate,
			Value:    until,
			Operator: gDto.FilterOperatorLess,
			Table:    model.BookedDateTableName,
		},
	))
}
