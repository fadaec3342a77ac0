package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"kumbam/infras/otel"
	"kumbam/infras/postgres"
	"kumbam/internal/domains/auth/model"
	gDto "kumbam/shared/dto"
	gRepo "kumbam/shared/repository"
	"time"
)

type OTP interface {
	Insert(ctx context.Context, model model.OTPVerification) error
	Latest(ctx context.Context, email string, purpose model.Purpose) (model.OTPVerification, error)
	Consume(ctx context.Context, id string, at time.Time) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.OTPVerification]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) OTP {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.OTPVerification](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Latest returns the newest unconsumed code for email and purpose, or a zero value.
func (r *repositoryImpl) Latest(ctx context.Context, email string, purpose model.Purpose) (model.OTPVerification, error) {
	codes, err := r.GetAll(ctx, gDto.QueryParams{Limit: 1, SortBy: model.FieldCreatedAt, SortDir: gDto.SortDirDesc}, gDto.And(
		gDto.Eq(model.TableName, model.FieldEmail, email),
		gDto.Eq(model.TableName, model.FieldPurpose, purpose),
		gDto.Filter{Field: model.FieldConsumedAt, Operator: gDto.FilterIsNull, Table: model.TableName},
	))
	if err != nil {
		return model.OTPVerification{}, fmt.Errorf("failed to get latest otp: %w", err)
	}

	if len(codes) == 0 {
		return model.OTPVerification{}, nil
	}

	return codes[0], nil
}

// Consume marks a code used. It reports false when another request consumed it first.
func (r *repositoryImpl) Consume(ctx context.Context, id string, at time.Time) (bool, error) {
	affected, err := r.UpdateAffected(ctx, map[string]any{model.FieldConsumedAt: at}, gDto.And(
		gDto.Eq(model.TableName, model.FieldID, id),
		gDto.Filter{Field: model.FieldConsumedAt, Operator: gDto.FilterIsNull, Table: model.TableName},
	))
	if err != nil {
		return false, fmt.Errorf("failed to consume otp: %w", err)
	}

	return affected > 0, nil
}
