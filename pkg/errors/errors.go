package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// The taxonomy is deliberately small: classification failures on required
// event fields, undecodable transport payloads, and failing collaborators.
// Everything else is internal.
var (
	ErrMalformedEvent      = NewError("MALFORMED_EVENT", "event is missing fields required by its type", http.StatusBadRequest)
	ErrTransportDecode     = NewError("TRANSPORT_DECODE", "request body is not a valid chat event", http.StatusBadRequest)
	ErrUpstreamUnavailable = NewError("UPSTREAM_UNAVAILABLE", "external service call failed", http.StatusBadGateway)
	ErrInternal            = NewError("INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
)

type Error struct {
	Code    string
	Message string
	Status  int
	Details map[string]interface{}
	Cause   error
}

func NewError(code, message string, status int) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Status:  status,
		Details: make(map[string]interface{}),
	}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) WithCause(cause error) *Error {
	err := *e
	err.Cause = cause
	return &err
}

func (e *Error) WithDetail(key string, value interface{}) *Error {
	err := *e
	if err.Details == nil {
		err.Details = make(map[string]interface{})
	}
	err.Details[key] = value
	return &err
}

func IsMalformedEvent(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == ErrMalformedEvent.Code
	}
	return false
}

func IsUpstreamUnavailable(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == ErrUpstreamUnavailable.Code
	}
	return false
}

func ToHTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

func ToErrorResponse(err error) map[string]interface{} {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = ErrInternal.WithCause(err)
	}

	response := map[string]interface{}{
		"success":    false,
		"error":      appErr.Message,
		"error_code": appErr.Code,
	}

	if len(appErr.Details) > 0 {
		response["details"] = appErr.Details
	}

	return response
}
