package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Envelope is the uniform response shape. Successful responses carry
// Data and Success=true; failures carry Success=false and optional
// field-level Errors.
type Envelope struct {
	StatusCode int      `json:"statusCode"`
	Data       any      `json:"data,omitempty"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors,omitempty"`
}

// JSON writes a success envelope with the given status code.
func JSON(w http.ResponseWriter, status int, data any, message string) {
	writeEnvelope(w, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// HandlerFunc is an http handler that reports failures by returning an
// error instead of writing them itself.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Wrap converts a HandlerFunc into a standard http.HandlerFunc. It is
// the single point where errors become client-visible envelopes: typed
// Errors keep their status code and message, everything else collapses
// into a generic 500 and is logged with its cause.
func Wrap(log *slog.Logger, h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		var apiErr Error
		if !errors.As(err, &apiErr) {
			log.ErrorContext(r.Context(), "unhandled request error",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
			apiErr = Internal()
		} else if apiErr.Code >= http.StatusInternalServerError {
			log.ErrorContext(r.Context(), "request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
		}

		writeEnvelope(w, Envelope{
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			Success:    false,
			Errors:     apiErr.Details,
		})
	}
}

// Fail writes a failure envelope for a typed Error. Middleware that
// cannot return errors through Wrap uses this directly.
func Fail(w http.ResponseWriter, err Error) {
	writeEnvelope(w, Envelope{
		StatusCode: err.Code,
		Message:    err.Message,
		Success:    false,
		Errors:     err.Details,
	})
}

func writeEnvelope(w http.ResponseWriter, e Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// DecodeJSON unmarshals a JSON request body into v, translating decode
// failures into a client-facing 400.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return BadRequest("invalid request body")
	}
	return nil
}
