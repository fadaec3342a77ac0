package validator_test

import (
	"kumbam/shared/failure"
	"kumbam/shared/validator"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contactRequest struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,phone"`
	Date  string `json:"date"  validate:"omitempty,date"`
	Ref   string `json:"ref"   validate:"omitempty,uuid"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		data    contactRequest
		wantMsg string
	}{
		{
			name: "valid",
			data: contactRequest{Name: "Meena", Email: "meena@example.com", Phone: "9876543210", Date: "2025-05-02"},
		},
		{
			name:    "missing name reports json field name",
			data:    contactRequest{Email: "meena@example.com", Phone: "9876543210"},
			wantMsg: "name is required",
		},
		{
			name:    "invalid email",
			data:    contactRequest{Name: "Meena", Email: "not-an-email", Phone: "9876543210"},
			wantMsg: "email must be a valid email address",
		},
		{
			name:    "phone starting with 5",
			data:    contactRequest{Name: "Meena", Email: "meena@example.com", Phone: "5876543210"},
			wantMsg: "phone must be a valid 10 digit mobile number",
		},
		{
			name:    "date in wrong layout",
			data:    contactRequest{Name: "Meena", Email: "meena@example.com", Phone: "9876543210", Date: "02/05/2025"},
			wantMsg: "date must be a date formatted YYYY-MM-DD",
		},
		{
			name:    "reference not a uuid",
			data:    contactRequest{Name: "Meena", Email: "meena@example.com", Phone: "9876543210", Ref: "b-1"},
			wantMsg: "ref must be a valid UUID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestPhoneTag(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{phone: "9876543210", valid: true},
		{phone: "6000000000", valid: true},
		{phone: "5876543210", valid: false},
		{phone: "987654321", valid: false},
		{phone: "98765432100", valid: false},
		{phone: "98765x3210", valid: false},
		{phone: "+919876543210", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.valid, validator.IsValid(tt.phone, "phone"))
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("2025-02-28", "date"))
	assert.Error(t, validator.ValidateVar("2025-02-30", "date"))
	assert.Error(t, validator.ValidateVar("", "required"))
}

func TestValidate_DecodesBody(t *testing.T) {
	req := contactRequest{}

	err := validator.Validate(strings.NewReader(`{"name":"Meena","email":"meena@example.com","phone":"9876543210"}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "Meena", req.Name)

	err = validator.Validate(strings.NewReader(`{"name":`), &req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}
