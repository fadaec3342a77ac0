package payment

import (
	"kumbam/infras/otel"
	"kumbam/internal/domains/payment/model/dto"
	"kumbam/internal/domains/payment/service"
	"kumbam/shared/constant"
	"kumbam/shared/validator"
	"kumbam/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const msgPaymentConfirmed = "Payment confirmed"

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/initiate", handler.InitiatePayment)
		routerGroup.Get("/{transaction_id}/status", handler.CheckPaymentStatus)
		routerGroup.Post("/confirm", handler.ConfirmPayment)
	})
}

// InitiatePayment starts a UPI payment for a booking.
// @Summary Initiate a payment
// @Description Ask the payment gateway for a pay page. A PENDING payment is stored only once the gateway accepted.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.InitiatePaymentRequest true "Initiate Payment Request"
// @Success 200 {object} dto.InitiatePaymentResponse "Pay page URL"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/payments/initiate [post]
func (handler *Handler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".InitiatePayment")
	defer scope.End()

	req := dto.InitiatePaymentRequest{}

	if err := validator.Decode(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Initiate(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to initiate payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment initiated " + res.TransactionID)

	response.WithPayload(w, http.StatusOK, res)
}

// CheckPaymentStatus resolves a payment against the gateway.
// @Summary Check payment status
// @Description Returns the stored status of a settled payment, or asks the gateway and records the outcome.
// @Tags Payment
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.PaymentStatusResponse "Payment status"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/{transaction_id}/status [get]
func (handler *Handler) CheckPaymentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckPaymentStatus")
	defer scope.End()

	transactionID := chi.URLParam(r, constant.RequestParamTransactionID)

	res, err := handler.service.CheckStatus(ctx, transactionID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("transaction_id", transactionID).Msg("failed to check payment status")

		response.WithError(w, err)

		return
	}

	response.WithPayload(w, http.StatusOK, res)
}

// ConfirmPayment marks a pending payment completed.
// @Summary Confirm a payment
// @Description Server-to-server confirmation; requires the X-API-Key header.
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.ConfirmPaymentRequest true "Confirm Payment Request"
// @Success 200 {object} response.Message "Payment confirmed"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/payments/confirm [post]
// @Security ApiKeyAuth
func (handler *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ConfirmPayment")
	defer scope.End()

	req := dto.ConfirmPaymentRequest{}

	if err := validator.Decode(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Confirm(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("transaction_id", req.TransactionID).Msg("failed to confirm payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment confirmed " + req.TransactionID)

	response.WithMessage(w, http.StatusOK, msgPaymentConfirmed)
}
