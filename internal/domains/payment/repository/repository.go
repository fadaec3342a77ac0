package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"kumbam/infras/otel"
	"kumbam/infras/postgres"
	"kumbam/internal/domains/payment/model"
	"kumbam/shared"
	"kumbam/shared/constant"
	gDto "kumbam/shared/dto"
	gRepo "kumbam/shared/repository"
	"kumbam/shared/timezone"
)

const argCurrentStatus = "current_status"

// ErrAlreadyPaid reports that the booking already has a completed payment.
var ErrAlreadyPaid = errors.New("booking already has a completed payment")

type Payment interface {
	Insert(ctx context.Context, payment model.Payment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (model.Payment, error)
	Resolve(ctx context.Context, transactionID string, status model.Status, actor string) (bool, error)
	Confirm(ctx context.Context, transactionID, bookingID, actor string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Payment]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Payment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Payment](model.EntityName, model.TableName, model.FieldTransactionID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetByTransactionID returns a zero Payment when the transaction is unknown.
func (r *repositoryImpl) GetByTransactionID(ctx context.Context, transactionID string) (model.Payment, error) {
	return r.Get(ctx, shared.FilterByID(transactionID, model.FieldTransactionID, model.TableName)) //nolint:wrapcheck
}

// Resolve moves a PENDING payment to status. It reports false when the payment
// was no longer pending, so a resolved payment is never rewritten.
func (r *repositoryImpl) Resolve(ctx context.Context, transactionID string, status model.Status, actor string) (bool, error) {
	return r.transition(ctx, status, actor, gDto.Eq(model.TableName, model.FieldTransactionID, transactionID))
}

// Confirm completes the PENDING payment matching both ids.
func (r *repositoryImpl) Confirm(ctx context.Context, transactionID, bookingID, actor string) (bool, error) {
	return r.transition(ctx, model.StatusCompleted, actor,
		gDto.Eq(model.TableName, model.FieldTransactionID, transactionID),
		gDto.Eq(model.TableName, model.FieldBookingID, bookingID),
	)
}

func (r *repositoryImpl) transition(ctx context.Context, status model.Status, actor string, filters ...any) (bool, error) {
	filters = append(filters, gDto.Filter{
		ArgName:  argCurrentStatus,
		Field:    model.FieldStatus,
		Value:    model.StatusPending,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	})

	affected, err := r.UpdateAffected(ctx, map[string]any{
		model.FieldStatus:        status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}, gDto.And(filters...))

	if postgres.IsUniqueViolation(err, model.ConstraintOneCompleted) {
		return false, ErrAlreadyPaid
	}

	if err != nil {
		return false, fmt.Errorf("failed to update payment status: %w", err)
	}

	return affected > 0, nil
}
