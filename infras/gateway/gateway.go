package gateway

//go:generate go run go.uber.org/mock/mockgen -source=./gateway.go -destination=./mocks/gateway_mock.go -package=mocks

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"kumbam/config"
	"kumbam/shared/base64"
	"kumbam/shared/constant"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	payPath        = "/pg/v1/pay"
	statusPath     = "/pg/v1/status"
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 1 << 20

	headerVerify     = "X-VERIFY"
	headerMerchantID = "X-MERCHANT-ID"
	verifySeparator  = "###"

	codePaymentSuccess   = "PAYMENT_SUCCESS"
	codePaymentPending   = "PAYMENT_PENDING"
	codePaymentInitiated = "PAYMENT_INITIATED"
	codeInternalError    = "INTERNAL_SERVER_ERROR"
)

var (
	// ErrRejected is returned when the gateway answered but refused the request.
	ErrRejected = errors.New("payment gateway rejected the request")
	// ErrMalformedResponse is returned when the gateway answer cannot be used.
	ErrMalformedResponse = errors.New("payment gateway returned a malformed response")
)

// Outcome is the gateway-neutral result of a status query.
type Outcome string

const (
	OutcomePending Outcome = "PENDING"
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailed  Outcome = "FAILED"
)

type CreatePaymentRequest struct {
	TransactionID string
	UserID        string
	// Amount in rupees.
	Amount int64
	Phone  string
}

type Gateway interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (redirectURL string, err error)
	GetStatus(ctx context.Context, transactionID string) (Outcome, error)
}

type payRequest struct {
	MerchantID            string            `json:"merchantId"`
	MerchantTransactionID string            `json:"merchantTransactionId"`
	MerchantUserID        string            `json:"merchantUserId"`
	Amount                int64             `json:"amount"`
	RedirectURL           string            `json:"redirectUrl"`
	RedirectMode          string            `json:"redirectMode"`
	CallbackURL           string            `json:"callbackUrl"`
	MobileNumber          string            `json:"mobileNumber"`
	PaymentInstrument     paymentInstrument `json:"paymentInstrument"`
}

type paymentInstrument struct {
	Type string `json:"type"`
}

type envelope struct {
	Request string `json:"request"`
}

type apiResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		MerchantTransactionID string `json:"merchantTransactionId"`
		State                 string `json:"state"`
		InstrumentResponse    struct {
			RedirectInfo struct {
				URL string `json:"url"`
			} `json:"redirectInfo"`
		} `json:"instrumentResponse"`
	} `json:"data"`
}

type phonePe struct {
	config *config.Config
	client *http.Client
}

func New(config *config.Config) Gateway {
	timeout := defaultTimeout
	if config.Gateway.TimeoutSeconds > 0 {
		timeout = time.Duration(config.Gateway.TimeoutSeconds) * time.Second
	}

	return NewWithClient(config, &http.Client{Timeout: timeout})
}

func NewWithClient(config *config.Config, client *http.Client) Gateway {
	return &phonePe{
		config: config,
		client: client,
	}
}

// Checksum signs payload+path with the salt key: hex(sha256(payload + path + salt)) + "###" + saltIndex.
func Checksum(payload, path, saltKey, saltIndex string) string {
	sum := sha256.Sum256([]byte(payload + path + saltKey))

	return hex.EncodeToString(sum[:]) + verifySeparator + saltIndex
}

func (p *phonePe) timeout() time.Duration {
	if p.client.Timeout > 0 {
		return p.client.Timeout
	}

	return defaultTimeout
}

func (p *phonePe) CreatePayment(ctx context.Context, req CreatePaymentRequest) (string, error) {
	cfg := p.config.Gateway

	encoded, err := base64.EncodeJSON(payRequest{
		MerchantID:            cfg.MerchantID,
		MerchantTransactionID: req.TransactionID,
		MerchantUserID:        req.UserID,
		Amount:                req.Amount * constant.RupeeToPaise,
		RedirectURL:           withTransaction(cfg.RedirectURL, req.TransactionID),
		RedirectMode:          "REDIRECT",
		CallbackURL:           cfg.CallbackURL,
		MobileNumber:          req.Phone,
		PaymentInstrument:     paymentInstrument{Type: "PAY_PAGE"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode payment payload: %w", err)
	}

	body, err := json.Marshal(envelope{Request: encoded})
	if err != nil {
		return "", fmt.Errorf("failed to encode payment request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(cfg.BaseURL, "/")+payPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build payment request: %w", err)
	}

	httpReq.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	httpReq.Header.Set(headerVerify, Checksum(encoded, payPath, cfg.SaltKey, cfg.SaltIndex))

	res, err := p.do(httpReq)
	if err != nil {
		return "", err
	}

	if !res.Success {
		log.Warn().Str("transaction_id", req.TransactionID).Str("code", res.Code).Str("message", res.Message).Msg("Payment rejected by gateway")

		return "", fmt.Errorf("%w: %s", ErrRejected, res.Code)
	}

	redirectURL := res.Data.InstrumentResponse.RedirectInfo.URL
	if redirectURL == "" {
		return "", fmt.Errorf("%w: missing redirect url", ErrMalformedResponse)
	}

	return redirectURL, nil
}

func (p *phonePe) GetStatus(ctx context.Context, transactionID string) (Outcome, error) {
	cfg := p.config.Gateway
	path := fmt.Sprintf("%s/%s/%s", statusPath, url.PathEscape(cfg.MerchantID), url.PathEscape(transactionID))

	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(cfg.BaseURL, "/")+path, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to build status request: %w", err)
	}

	httpReq.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	httpReq.Header.Set(headerVerify, Checksum("", path, cfg.SaltKey, cfg.SaltIndex))
	httpReq.Header.Set(headerMerchantID, cfg.MerchantID)

	res, err := p.do(httpReq)
	if err != nil {
		return "", err
	}

	if res.Code == codeInternalError {
		return "", fmt.Errorf("%w: %s", ErrRejected, res.Code)
	}

	return MapCode(res.Code), nil
}

// MapCode folds the gateway's response codes into an Outcome. Every code that is
// neither success nor in-flight is a failure.
func MapCode(code string) Outcome {
	switch code {
	case codePaymentSuccess:
		return OutcomeSuccess
	case codePaymentPending, codePaymentInitiated:
		return OutcomePending
	default:
		return OutcomeFailed
	}
}

func (p *phonePe) do(req *http.Request) (*apiResponse, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	var res apiResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
		}

		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if res.Code == "" {
		return nil, fmt.Errorf("%w: missing code", ErrMalformedResponse)
	}

	return &res, nil
}

func withTransaction(redirectURL, transactionID string) string {
	if redirectURL == "" {
		return ""
	}

	u, err := url.Parse(redirectURL)
	if err != nil {
		return redirectURL
	}

	q := u.Query()
	q.Set("transactionId", transactionID)
	u.RawQuery = q.Encode()

	return u.String()
}
