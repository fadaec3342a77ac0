package model

import (
	"kumbam/shared/model"
	"time"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldTransactionID = "transaction_id"
	FieldBookingID     = "booking_id"
	FieldStatus        = "status"
	FieldAmount        = "amount"
	FieldMethod        = "method"
	FieldEmail         = "email"
	FieldPhone         = "phone"

	// ConstraintOneCompleted is the partial unique index allowing one COMPLETED
	// payment per booking.
	ConstraintOneCompleted = "payments_one_completed_per_booking"

	MethodUPI = "UPI"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Payment struct {
	TransactionID string `db:"transaction_id"`
	BookingID     string `db:"booking_id"`
	Status        Status `db:"status"`
	// Amount in rupees.
	Amount int64  `db:"amount"`
	Method string `db:"method"`
	Email  string `db:"email"`
	Phone  string `db:"phone"`
	model.Metadata
}

const (
	EventCompleted = "payment.completed"
	EventFailed    = "payment.failed"
)

// Event is published when a payment reaches a terminal state.
type Event struct {
	Type          string    `json:"type"`
	TransactionID string    `json:"transaction_id"`
	BookingID     string    `json:"booking_id"`
	Status        Status    `json:"status"`
	Amount        int64     `json:"amount"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewEvent(payment Payment, occurredAt time.Time) Event {
	eventType := EventFailed
	if payment.Status == StatusCompleted {
		eventType = EventCompleted
	}

	return Event{
		Type:          eventType,
		TransactionID: payment.TransactionID,
		BookingID:     payment.BookingID,
		Status:        payment.Status,
		Amount:        payment.Amount,
		Email:         payment.Email,
		Phone:         payment.Phone,
		OccurredAt:    occurredAt,
	}
}
