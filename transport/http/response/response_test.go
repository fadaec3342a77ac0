package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"kumbam/shared/failure"
	"kumbam/transport/http/response"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestWithPayload(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithPayload(rec, http.StatusCreated, struct {
		BookingID string `json:"bookingId"`
	}{BookingID: "b-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"bookingId":"b-1"}`, rec.Body.String())
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "failure",
			err:      failure.BadRequestFromString("invalid phone"),
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid phone",
		},
		{
			name:     "wrapped failure keeps its own message",
			err:      fmt.Errorf("create booking: %w", failure.Conflict("dates already booked")),
			wantCode: http.StatusConflict,
			wantMsg:  "dates already booked",
		},
		{
			name:     "unclassified error is hidden",
			err:      errors.New("pq: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)

			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}

func TestWithJSONAndMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithJSON(rec, http.StatusOK, []string{"Hall", "Lawn"})
	assert.JSONEq(t, `{"success":true,"data":["Hall","Lawn"]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	response.WithRequestLimitExceeded(rec)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
}
