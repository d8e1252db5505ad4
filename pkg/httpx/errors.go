package httpx

import "net/http"

// Error is the only failure type handlers and services are allowed to
// surface to a client. Anything else reaching the dispatcher is treated
// as an internal failure.
type Error struct {
	Code    int      // HTTP status code
	Message string   // client-visible message
	Details []string // optional field-level messages
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// NewError creates an Error with the given status code and message.
func NewError(code int, message string, details ...string) Error {
	return Error{Code: code, Message: message, Details: details}
}

// BadRequest reports a validation failure (missing or malformed input).
func BadRequest(message string, details ...string) Error {
	return NewError(http.StatusBadRequest, message, details...)
}

// Unauthorized reports a failed or missing credential. Every auth-gate
// failure path uses the same message so callers cannot tell which check
// rejected them.
func Unauthorized(message string) Error {
	return NewError(http.StatusUnauthorized, message)
}

// Forbidden reports an ownership or permission failure.
func Forbidden(message string) Error {
	return NewError(http.StatusForbidden, message)
}

// NotFound reports a missing resource.
func NotFound(message string) Error {
	return NewError(http.StatusNotFound, message)
}

// Conflict reports a uniqueness violation such as a duplicate identity.
func Conflict(message string) Error {
	return NewError(http.StatusConflict, message)
}

// TooManyRequests reports a rate-limit rejection.
func TooManyRequests(message string) Error {
	return NewError(http.StatusTooManyRequests, message)
}

// Internal reports an unexpected failure. The message is intentionally
// generic; the underlying cause belongs in logs, not in responses.
func Internal() Error {
	return NewError(http.StatusInternalServerError, "internal server error")
}
