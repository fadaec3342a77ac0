package dto_test

import (
	"kumbam/internal/domains/payment/model"
	"kumbam/internal/domains/payment/model/dto"
	"kumbam/shared/failure"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInitiate() dto.InitiatePaymentRequest {
	return dto.InitiatePaymentRequest{
		Amount:    25000,
		Phone:     " 9876543210 ",
		Email:     "meena@example.com ",
		VenueID:   7,
		BookingID: "2b1e0a43-4a9f-4a37-8d43-7b3c1b0e9f10",
	}
}

func TestInitiatePaymentRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *dto.InitiatePaymentRequest)
		wantErr bool
	}{
		{name: "valid request is trimmed", mutate: func(*dto.InitiatePaymentRequest) {}},
		{name: "zero amount", mutate: func(r *dto.InitiatePaymentRequest) { r.Amount = 0 }, wantErr: true},
		{name: "negative amount", mutate: func(r *dto.InitiatePaymentRequest) { r.Amount = -5 }, wantErr: true},
		{name: "landline phone", mutate: func(r *dto.InitiatePaymentRequest) { r.Phone = "0442345678" }, wantErr: true},
		{name: "bad email", mutate: func(r *dto.InitiatePaymentRequest) { r.Email = "meena" }, wantErr: true},
		{name: "booking id not a uuid", mutate: func(r *dto.InitiatePaymentRequest) { r.BookingID = "b-1" }, wantErr: true},
		{name: "missing venue", mutate: func(r *dto.InitiatePaymentRequest) { r.VenueID = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validInitiate()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				fail, ok := failure.As(err)
				require.True(t, ok)
				assert.Equal(t, http.StatusBadRequest, fail.Code)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "9876543210", req.Phone)
			assert.Equal(t, "meena@example.com", req.Email)
		})
	}
}

func TestInitiatePaymentRequest_ToModel(t *testing.T) {
	req := validInitiate()
	require.NoError(t, req.Validate())

	payment := req.ToModel("TXN01", "guest")

	assert.Equal(t, "TXN01", payment.TransactionID)
	assert.Equal(t, model.StatusPending, payment.Status)
	assert.Equal(t, model.MethodUPI, payment.Method)
	assert.Equal(t, int64(25000), payment.Amount)
	assert.Equal(t, "guest", payment.CreatedBy)
	assert.Equal(t, payment.CreatedAt, payment.ModifiedAt)
}

func TestConfirmPaymentRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.ConfirmPaymentRequest
		wantMsg string
	}{
		{
			name: "valid request is trimmed",
			req:  dto.ConfirmPaymentRequest{TransactionID: " TXN01 ", BookingID: " 2b1e0a43-4a9f-4a37-8d43-7b3c1b0e9f10"},
		},
		{
			name:    "missing booking id",
			req:     dto.ConfirmPaymentRequest{TransactionID: "TXN01"},
			wantMsg: "booking_id is required",
		},
		{
			name:    "booking id not a uuid",
			req:     dto.ConfirmPaymentRequest{TransactionID: "TXN01", BookingID: "not-a-uuid"},
			wantMsg: "booking_id must be a valid UUID",
		},
		{
			name:    "missing transaction id",
			req:     dto.ConfirmPaymentRequest{BookingID: "2b1e0a43-4a9f-4a37-8d43-7b3c1b0e9f10"},
			wantMsg: "transaction_id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantMsg != "" {
				fail, ok := failure.As(err)
				require.True(t, ok)
				assert.Equal(t, http.StatusBadRequest, fail.Code)
				assert.Equal(t, tt.wantMsg, fail.Message)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "TXN01", tt.req.TransactionID)
			assert.Equal(t, "2b1e0a43-4a9f-4a37-8d43-7b3c1b0e9f10", tt.req.BookingID)
		})
	}
}
