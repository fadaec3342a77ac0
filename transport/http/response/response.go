package response

import (
	"bytes"
	"encoding/json"
	"kumbam/shared/constant"
	"kumbam/shared/failure"
	"kumbam/shared/logger"
	"net/http"
)

const fieldSuccess = "success"

type Data[T any] struct {
	Success bool `json:"success"`
	Data    *T   `json:"data,omitempty"`
}

type Error struct {
	Success bool    `json:"success"`
	Error   *string `json:"error,omitempty"`
}

type Message struct {
	Success bool    `json:"success"`
	Message *string `json:"message,omitempty"`
}

// WithMessage sends a response with a simple text message
func WithMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Message{Success: isSuccess(code), Message: &message})
}

// WithJSON sends a response containing a JSON object under "data"
func WithJSON(writer http.ResponseWriter, code int, jsonPayload any) {
	response(writer, code, Data[any]{Success: isSuccess(code), Data: &jsonPayload})
}

// WithPayload writes the fields of payload at the top level next to "success",
// e.g. {"success":true,"bookingId":"..."}.
func WithPayload(writer http.ResponseWriter, code int, payload any) {
	fields := map[string]any{}

	raw, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		WithError(writer, err)

		return
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	if err = decoder.Decode(&fields); err != nil {
		logger.ErrorWithStack(err)
		WithError(writer, err)

		return
	}

	fields[fieldSuccess] = isSuccess(code)

	response(writer, code, fields)
}

// WithError sends a response with an error message. Errors without a Failure in
// their chain are reported as a bare 500 and their text stays in the logs.
func WithError(writer http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	errMsg := http.StatusText(http.StatusInternalServerError)

	if fail, ok := failure.As(err); ok {
		code = fail.Code
		errMsg = fail.Message
	}

	response(writer, code, Error{Error: &errMsg})
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

// WithUnhealthy sends a default response for when the server is unhealthy
func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func isSuccess(code int) bool {
	return code < http.StatusBadRequest
}

func response(writer http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
