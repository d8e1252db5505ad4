package subscription

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/streamvault/streamvault/modules/auth"
	"github.com/streamvault/streamvault/pkg/httpx"
)

// Handler exposes the subscription routes. The toggle is gated; the
// listings are public.
type Handler struct {
	svc  *Service
	gate func(http.Handler) http.Handler
	log  *slog.Logger
}

func NewHandler(svc *Service, gate func(http.Handler) http.Handler, log *slog.Logger) *Handler {
	return &Handler{svc: svc, gate: gate, log: log}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/channel/{channelId}/subscribers", httpx.Wrap(h.log, h.subscribers))
	r.Get("/user/{subscriberId}/channels", httpx.Wrap(h.log, h.channels))

	r.Group(func(r chi.Router) {
		r.Use(h.gate)
		r.Post("/channel/{channelId}", httpx.Wrap(h.log, h.toggle))
	})

	return r
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) error {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return httpx.Unauthorized("unauthorized request")
	}

	status, err := h.svc.Toggle(r.Context(), identity.ID, chi.URLParam(r, "channelId"))
	if err != nil {
		return toAPIError(err)
	}

	message := "unsubscribed successfully"
	if status.Subscribed {
		message = "subscribed successfully"
	}
	httpx.JSON(w, http.StatusOK, status, message)
	return nil
}

func (h *Handler) subscribers(w http.ResponseWriter, r *http.Request) error {
	ids, err := h.svc.Subscribers(r.Context(), chi.URLParam(r, "channelId"))
	if err != nil {
		return toAPIError(err)
	}

	httpx.JSON(w, http.StatusOK, ids, "subscribers fetched successfully")
	return nil
}

func (h *Handler) channels(w http.ResponseWriter, r *http.Request) error {
	ids, err := h.svc.Channels(r.Context(), chi.URLParam(r, "subscriberId"))
	if err != nil {
		return toAPIError(err)
	}

	httpx.JSON(w, http.StatusOK, ids, "subscribed channels fetched successfully")
	return nil
}

func toAPIError(err error) error {
	switch {
	case errors.Is(err, ErrSelfSubscribe):
		return httpx.BadRequest("you cannot subscribe to your own channel")
	case errors.Is(err, ErrChannelNotFound):
		return httpx.NotFound("channel not found")
	case errors.Is(err, ErrInvalidID):
		return httpx.NotFound("channel not found")
	default:
		return err
	}
}
