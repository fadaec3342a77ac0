package dto

import (
	"kumbam/internal/domains/payment/model"
	gModel "kumbam/shared/model"
	"kumbam/shared/timezone"
	"kumbam/shared/validator"
	"strings"
)

type InitiatePaymentRequest struct {
	Amount    int64  `json:"amount"     validate:"required,gt=0"`
	Phone     string `json:"phone"      validate:"required,phone"`
	Email     string `json:"email"      validate:"required,email"`
	VenueID   int64  `json:"venue_id"   validate:"required,gt=0"`
	BookingID string `json:"booking_id" validate:"required,uuid"`
}

func (r *InitiatePaymentRequest) Validate() error {
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.TrimSpace(r.Email)
	r.BookingID = strings.TrimSpace(r.BookingID)

	return validator.ValidateStruct(r) //nolint:wrapcheck
}

func (r *InitiatePaymentRequest) ToModel(transactionID, user string) model.Payment {
	return model.Payment{
		TransactionID: transactionID,
		BookingID:     r.BookingID,
		Status:        model.StatusPending,
		Amount:        r.Amount,
		Method:        model.MethodUPI,
		Email:         r.Email,
		Phone:         r.Phone,
		Metadata:      gModel.NewMetadata(timezone.Now(), user),
	}
}

type InitiatePaymentResponse struct {
	PaymentURL    string `json:"paymentUrl"`
	TransactionID string `json:"transactionId"`
}

type PaymentStatusResponse struct {
	TransactionID string       `json:"transactionId"`
	Status        model.Status `json:"status"      swaggertype:"string" enums:"PENDING,COMPLETED,FAILED"`
}

type ConfirmPaymentRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	BookingID     string `json:"booking_id"     validate:"required,uuid"`
}

func (r *ConfirmPaymentRequest) Validate() error {
	r.TransactionID = strings.TrimSpace(r.TransactionID)
	r.BookingID = strings.TrimSpace(r.BookingID)

	return validator.ValidateStruct(r) //nolint:wrapcheck
}
