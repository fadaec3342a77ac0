package failure

import (
	"errors"
	"net/http"
)

// Failure is an error that already knows which HTTP status it maps to.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ErrInvalidAPIKey is returned for internal calls carrying a wrong X-API-Key.
var ErrInvalidAPIKey = &Failure{Code: http.StatusForbidden, Message: "invalid api key"}

func (e *Failure) Error() string {
	return e.Message
}

func newFailure(code int, msg string) error {
	return &Failure{Code: code, Message: msg}
}

func fromError(code int, err error) error {
	if err == nil {
		return nil
	}

	return newFailure(code, err.Error())
}

// BadRequest keeps the message of err. A nil err stays nil.
func BadRequest(err error) error {
	return fromError(http.StatusBadRequest, err)
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return newFailure(http.StatusForbidden, msg)
}

func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, msg)
}

func Conflict(msg string) error {
	return newFailure(http.StatusConflict, msg)
}

// InternalError keeps the message of err. A nil err stays nil.
func InternalError(err error) error {
	return fromError(http.StatusInternalServerError, err)
}

// BadGateway is for an upstream provider that refused the call or answered with
// something unusable.
func BadGateway(msg string) error {
	return newFailure(http.StatusBadGateway, msg)
}

// As unwraps err into a *Failure when one is present in the chain.
func As(err error) (*Failure, bool) {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail, true
	}

	return nil, false
}

// GetCode falls back to 500 for anything that is not a Failure.
func GetCode(err error) int {
	if fail, ok := As(err); ok {
		return fail.Code
	}

	return http.StatusInternalServerError
}
