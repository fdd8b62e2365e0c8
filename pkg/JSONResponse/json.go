package jsonresponse

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Unaivero/financiera-ancestral/internal/core/domain"
)

// AppError pairs an HTTP status with a message safe to show a caller. The
// wrapped internal error is for logging only and never reaches the wire.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Wrap error with additional context.
func WrapError(err error, message string, code int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// FromQueryError maps the core's error taxonomy onto HTTP statuses. Kinds
// that would leak internal detail collapse to a generic message.
func FromQueryError(err error) *AppError {
	var limited domain.RateLimited
	if errors.As(err, &limited) {
		return &AppError{
			Code:    http.StatusTooManyRequests,
			Message: "rate limit exceeded",
			Err:     err,
		}
	}

	var qe *domain.QueryError
	if errors.As(err, &qe) {
		switch qe.Kind {
		case domain.ErrInvalidFilter, domain.ErrUnsupportedFormat:
			return &AppError{Code: http.StatusBadRequest, Message: qe.Detail, Err: qe.Err}
		case domain.ErrNotFound:
			return &AppError{Code: http.StatusNotFound, Message: qe.Detail, Err: qe.Err}
		case domain.ErrStoreUnavailable:
			return &AppError{Code: http.StatusServiceUnavailable, Message: "record store unavailable", Err: qe.Err}
		case domain.ErrMalformedRecord:
			return &AppError{Code: http.StatusInternalServerError, Message: "internal server error", Err: qe.Err}
		}
	}

	return &AppError{Code: http.StatusInternalServerError, Message: "internal server error", Err: err}
}

// WriteResponse sends a JSON response with the given status code and data.
// Optional headers can be provided to set additional response headers.
func WriteResponse(w http.ResponseWriter, statusCode int, data interface{}, headers ...map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header().Set(key, value)
		}
	}

	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		http.Error(w, `{"error": "Failed to encode JSON response"}`, http.StatusInternalServerError)
	}
}

// WriteError maps any error onto a JSON error body. Rate-limited errors
// additionally carry a Retry-After header with the advisory delay.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = FromQueryError(err)
	}

	var limited domain.RateLimited
	if errors.As(err, &limited) && limited.RetryAfter > 0 {
		seconds := int(limited.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	slog.Error("Error handling request", "error", appErr.Err, "message", appErr.Message)
	WriteResponse(w, appErr.Code, map[string]string{"error": appErr.Message})
}
