package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"kumbam/config"
	"kumbam/infras/gateway"
	"kumbam/infras/kafka"
	"kumbam/infras/otel"
	bookingModel "kumbam/internal/domains/booking/model"
	bookingRepo "kumbam/internal/domains/booking/repository"
	"kumbam/internal/domains/payment/model"
	"kumbam/internal/domains/payment/model/dto"
	"kumbam/internal/domains/payment/repository"
	"kumbam/shared/constant"
	gDto "kumbam/shared/dto"
	"kumbam/shared/failure"
	"kumbam/shared/timezone"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	transactionPrefix = "TXN"

	msgBookingDoesNotExist = "booking does not exist"
	msgTransactionNotFound = "transaction not found"
	msgPendingNotFound     = "no pending payment for this transaction and booking"
	msgGatewayRejected     = "payment gateway rejected the request"
	msgAlreadyPaid         = "booking already has a completed payment"
)

var errGatewayUnavailable = errors.New("payment gateway unavailable")

type Payment interface {
	Initiate(ctx context.Context, req dto.InitiatePaymentRequest) (dto.InitiatePaymentResponse, error)
	CheckStatus(ctx context.Context, transactionID string) (dto.PaymentStatusResponse, error)
	Confirm(ctx context.Context, req dto.ConfirmPaymentRequest) error
}

type serviceImpl struct {
	repo        repository.Payment
	bookingRepo bookingRepo.Booking
	gateway     gateway.Gateway
	kafka       kafka.Client
	cfg         *config.Config
	otel        otel.Otel
}

func New(repo repository.Payment, bookingRepo bookingRepo.Booking, gateway gateway.Gateway, kafka kafka.Client, cfg *config.Config, otel otel.Otel) Payment {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		gateway:     gateway,
		kafka:       kafka,
		cfg:         cfg,
		otel:        otel,
	}
}

// NewTransactionID returns "TXN" followed by the hex of a time-ordered UUIDv7.
func NewTransactionID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate transaction id: %w", err)
	}

	return transactionPrefix + strings.ReplaceAll(id.String(), "-", ""), nil
}

// Initiate asks the gateway for a pay page first and stores the PENDING record only
// once the gateway accepted, so a failed call leaves nothing behind.
func (s *serviceImpl) Initiate(ctx context.Context, req dto.InitiatePaymentRequest) (res dto.InitiatePaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".InitiatePayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = req.Validate(); err != nil {
		return res, err //nolint:wrapcheck
	}

	exists, err := s.bookingRepo.Exist(ctx, gDto.And(
		gDto.Eq(bookingModel.TableName, bookingModel.FieldID, req.BookingID),
		gDto.Eq(bookingModel.TableName, bookingModel.FieldVenueID, req.VenueID),
	))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return res, fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exists {
		return res, failure.BadRequestFromString(msgBookingDoesNotExist) // nolint:wrapcheck
	}

	transactionID, err := NewTransactionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate transaction id")

		return res, err
	}

	user := actor(ctx)

	scope.SetAttribute("payment.transaction_id", transactionID)

	paymentURL, err := s.gateway.CreatePayment(ctx, gateway.CreatePaymentRequest{
		TransactionID: transactionID,
		UserID:        user,
		Amount:        req.Amount,
		Phone:         req.Phone,
	})
	if errors.Is(err, gateway.ErrRejected) || errors.Is(err, gateway.ErrMalformedResponse) {
		log.Warn().Err(err).Str("transaction_id", transactionID).Msg("payment gateway refused the payment")

		return res, failure.BadGateway(msgGatewayRejected) // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Str("transaction_id", transactionID).Msg("payment gateway call failed")

		return res, failure.InternalError(errGatewayUnavailable) // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(transactionID, user)); err != nil {
		log.Error().Err(err).Str("transaction_id", transactionID).Msg("failed to store pending payment")

		return res, fmt.Errorf("failed to store pending payment: %w", err)
	}

	res.PaymentURL = paymentURL
	res.TransactionID = transactionID

	return res, nil
}

func (s *serviceImpl) CheckStatus(ctx context.Context, transactionID string) (res dto.PaymentStatusResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckPaymentStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("payment.transaction_id", transactionID)

	payment, err := s.find(ctx, transactionID)
	if err != nil {
		return res, err
	}

	res.TransactionID = payment.TransactionID
	res.Status = payment.Status

	if payment.Status.IsTerminal() {
		return res, nil
	}

	outcome, err := s.gateway.GetStatus(ctx, transactionID)
	if err != nil {
		log.Error().Err(err).Str("transaction_id", transactionID).Msg("failed to query payment status")

		return res, failure.InternalError(errGatewayUnavailable) // nolint:wrapcheck
	}

	status := StatusFromOutcome(outcome)
	if status == model.StatusPending {
		return res, nil
	}

	updated, err := s.repo.Resolve(ctx, transactionID, status, actor(ctx))
	if errors.Is(err, repository.ErrAlreadyPaid) {
		log.Warn().Str("transaction_id", transactionID).Str("booking_id", payment.BookingID).Msg("gateway reports success for an already paid booking")

		return res, failure.Conflict(msgAlreadyPaid) // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Str("transaction_id", transactionID).Msg("failed to update payment status")

		return res, fmt.Errorf("failed to update payment status: %w", err)
	}

	if !updated {
		// resolved concurrently; report what won
		payment, err = s.find(ctx, transactionID)
		if err != nil {
			return res, err
		}

		res.Status = payment.Status

		return res, nil
	}

	payment.Status = status
	res.Status = status

	s.publish(ctx, payment)

	return res, nil
}

func (s *serviceImpl) Confirm(ctx context.Context, req dto.ConfirmPaymentRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ConfirmPayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = req.Validate(); err != nil {
		return err //nolint:wrapcheck
	}

	updated, err := s.repo.Confirm(ctx, req.TransactionID, req.BookingID, actor(ctx))
	if errors.Is(err, repository.ErrAlreadyPaid) {
		return failure.Conflict(msgAlreadyPaid) // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Str("transaction_id", req.TransactionID).Msg("failed to confirm payment")

		return fmt.Errorf("failed to confirm payment: %w", err)
	}

	if !updated {
		return failure.NotFound(msgPendingNotFound) // nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		payment, err := s.repo.GetByTransactionID(c, req.TransactionID)
		if err != nil || payment.TransactionID == constant.Empty {
			log.Error().Err(err).Str("transaction_id", req.TransactionID).Msg("failed to load confirmed payment for event")

			return
		}

		s.send(c, payment)
	}()

	return nil
}

func (s *serviceImpl) find(ctx context.Context, transactionID string) (model.Payment, error) {
	payment, err := s.repo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		log.Error().Err(err).Str("transaction_id", transactionID).Msg("failed to get payment")

		return payment, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.TransactionID == constant.Empty {
		return payment, failure.NotFound(msgTransactionNotFound) // nolint:wrapcheck
	}

	return payment, nil
}

func (s *serviceImpl) publish(ctx context.Context, payment model.Payment) {
	go s.send(context.WithoutCancel(ctx), payment)
}

// send is best-effort: the stored state is authoritative and a lost event only
// costs the receipt mail.
func (s *serviceImpl) send(ctx context.Context, payment model.Payment) {
	event := model.NewEvent(payment, timezone.Now())

	err := s.kafka.SendMessages(ctx, s.cfg.Kafka.PaymentTopic, kafka.Message{
		Key:   payment.BookingID,
		Value: event,
	})
	if err != nil {
		log.Error().Err(err).Str("transaction_id", payment.TransactionID).Str("event", event.Type).Msg("failed to publish payment event")

		return
	}

	log.Info().Str("transaction_id", payment.TransactionID).Str("event", event.Type).Msg("payment event published")
}

// StatusFromOutcome maps a gateway outcome onto the stored payment status.
func StatusFromOutcome(outcome gateway.Outcome) model.Status {
	switch outcome {
	case gateway.OutcomeSuccess:
		return model.StatusCompleted
	case gateway.OutcomePending:
		return model.StatusPending
	default:
		return model.StatusFailed
	}
}

func actor(ctx context.Context) string {
	if user, _ := ctx.Value(constant.ContextKeyUserID).(string); user != constant.Empty {
		return user
	}

	return constant.ContextGuest
}
