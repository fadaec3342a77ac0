package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"kumbam/infras/otel"
	"kumbam/infras/postgres"
	"kumbam/internal/domains/user/model"
	gDto "kumbam/shared/dto"
	gRepo "kumbam/shared/repository"
)

type User interface {
	Insert(ctx context.Context, model model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

// User needs nothing beyond the generic table gateway.
type repositoryImpl struct {
	gRepo.Repository[model.User]
}

func New(db *postgres.Connection, otl otel.Otel) User {
	return &repositoryImpl{gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otl)}
}
