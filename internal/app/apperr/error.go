package apperr

import "net/http"

const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeIdempotencyKeyReuse = "IDEMPOTENCY_KEY_REUSE"
	CodeInternal            = "INTERNAL"
)

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// Validation builds a 400 error. details may be nil.
func Validation(message string, details map[string]any) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: message, Details: details}
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

// IdempotencyKeyReuse is returned when a key is replayed with a different request body.
func IdempotencyKeyReuse() *Error {
	return &Error{
		Status:  http.StatusConflict,
		Code:    CodeIdempotencyKeyReuse,
		Message: "Idempotency-Key was already used with a different request.",
	}
}
