package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"kumbam/infras/otel"
	"kumbam/infras/postgres"
	"kumbam/internal/domains/venue/model"
	"kumbam/shared/constant"
	gDto "kumbam/shared/dto"
	"kumbam/shared/logger"
	gRepo "kumbam/shared/repository"
)

type Venue interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Venue, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Venue, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Categories(ctx context.Context) ([]string, error)
	GetMuhurtham(ctx context.Context, venueID int64, year int) (model.Muhurtham, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Venue]
	muhurtham gRepo.Repository[model.Muhurtham]
	db        *postgres.Connection
	otel      otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Venue {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Venue](model.EntityName, model.TableName, model.FieldID, db, otel),
		muhurtham:  gRepo.NewRepository[model.Muhurtham](model.MuhurthamEntityName, model.MuhurthamTableName, model.FieldVenueID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) Categories(ctx context.Context) ([]string, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".venue.Categories")
	defer scope.End()

	query := fmt.Sprintf("SELECT DISTINCT %s FROM %s ORDER BY %s", model.FieldCategory, model.TableName, model.FieldCategory)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	categories := []string{}

	if err := r.db.Read.SelectContext(ctx, &categories, query); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get categories (%s): %w", model.EntityName, err)
	}

	return categories, nil
}

// GetMuhurtham returns a zero Muhurtham when the venue has no dates for year.
func (r *repositoryImpl) GetMuhurtham(ctx context.Context, venueID int64, year int) (model.Muhurtham, error) {
	return r.muhurtham.Get(ctx, gDto.And(
		gDto.Eq(model.MuhurthamTableName, model.FieldVenueID, venueID),
		gDto.Eq(model.MuhurthamTableName, model.FieldYear, year),
	))
}
