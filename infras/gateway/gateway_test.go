package gateway_test

import (
	"context"
	"encoding/json"
	"io"
	"kumbam/config"
	"kumbam/infras/gateway"
	"kumbam/shared/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Gateway.BaseURL = baseURL
	cfg.Gateway.MerchantID = "KUMBAM"
	cfg.Gateway.SaltKey = "salt"
	cfg.Gateway.SaltIndex = "1"
	cfg.Gateway.RedirectURL = "https://kumbam.in/payment/result"
	cfg.Gateway.CallbackURL = "https://api.kumbam.in/v1/payments/callback"

	return cfg
}

func TestCreatePayment(t *testing.T) {
	var received map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pg/v1/pay", r.URL.Path)

		var body struct {
			Request string `json:"request"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, gateway.Checksum(body.Request, "/pg/v1/pay", "salt", "1"), r.Header.Get("X-VERIFY"))

		require.NoError(t, base64.DecodeJSON(body.Request, &received))

		_, _ = io.WriteString(w, `{"success":true,"code":"PAYMENT_INITIATED","data":{"instrumentResponse":{"redirectInfo":{"url":"https://pay.example/abc"}}}}`)
	}))
	defer server.Close()

	gw := gateway.New(newConfig(server.URL))

	redirectURL, err := gw.CreatePayment(context.Background(), gateway.CreatePaymentRequest{
		TransactionID: "TXN0001",
		UserID:        "booking-1",
		Amount:        2500,
		Phone:         "9876543210",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/abc", redirectURL)

	assert.Equal(t, "KUMBAM", received["merchantId"])
	assert.Equal(t, "TXN0001", received["merchantTransactionId"])
	assert.InDelta(t, 250000, received["amount"], 0)
	assert.Equal(t, "https://kumbam.in/payment/result?transactionId=TXN0001", received["redirectUrl"])
}

func TestCreatePayment_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "rejected",
			status:  http.StatusBadRequest,
			body:    `{"success":false,"code":"BAD_REQUEST","message":"invalid amount"}`,
			wantErr: gateway.ErrRejected,
		},
		{
			name:    "missing redirect url",
			status:  http.StatusOK,
			body:    `{"success":true,"code":"PAYMENT_INITIATED","data":{}}`,
			wantErr: gateway.ErrMalformedResponse,
		},
		{
			name:    "not json",
			status:  http.StatusOK,
			body:    `<html>oops</html>`,
			wantErr: gateway.ErrMalformedResponse,
		},
		{
			name:    "upstream outage",
			status:  http.StatusBadGateway,
			body:    `bad gateway`,
			wantErr: gateway.ErrRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := gateway.New(newConfig(server.URL)).CreatePayment(context.Background(), gateway.CreatePaymentRequest{TransactionID: "TXN1", Amount: 10})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreatePayment_Timeout(t *testing.T) {
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	gw := gateway.NewWithClient(newConfig(server.URL), &http.Client{Timeout: 50 * time.Millisecond})

	_, err := gw.CreatePayment(context.Background(), gateway.CreatePaymentRequest{TransactionID: "TXN1", Amount: 10})
	require.Error(t, err)
	assert.NotErrorIs(t, err, gateway.ErrRejected)
	assert.NotErrorIs(t, err, gateway.ErrMalformedResponse)
}

func TestGetStatus(t *testing.T) {
	tests := []struct {
		code string
		want gateway.Outcome
	}{
		{code: "PAYMENT_SUCCESS", want: gateway.OutcomeSuccess},
		{code: "PAYMENT_PENDING", want: gateway.OutcomePending},
		{code: "PAYMENT_ERROR", want: gateway.OutcomeFailed},
		{code: "PAYMENT_DECLINED", want: gateway.OutcomeFailed},
		{code: "TIMED_OUT", want: gateway.OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				path := "/pg/v1/status/KUMBAM/TXN0001"
				assert.Equal(t, path, r.URL.Path)
				assert.Equal(t, gateway.Checksum("", path, "salt", "1"), r.Header.Get("X-VERIFY"))
				assert.Equal(t, "KUMBAM", r.Header.Get("X-MERCHANT-ID"))

				_ = json.NewEncoder(w).Encode(map[string]any{"success": tt.want == gateway.OutcomeSuccess, "code": tt.code})
			}))
			defer server.Close()

			got, err := gateway.New(newConfig(server.URL)).GetStatus(context.Background(), "TXN0001")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetStatus_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	_, err := gateway.New(newConfig(baseURL)).GetStatus(context.Background(), "TXN0001")
	assert.Error(t, err)
}

func TestChecksum(t *testing.T) {
	sum := gateway.Checksum("", "/pg/v1/status/M/T", "salt", "1")

	assert.Len(t, sum, 64+len("###1"))
	assert.Equal(t, "###1", sum[64:])
}
