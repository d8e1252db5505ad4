package tweet

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/streamvault/streamvault/modules/auth"
	"github.com/streamvault/streamvault/pkg/httpx"
)

// Handler exposes the tweet routes. Mutations sit behind the auth
// gate; listing a user's tweets is public.
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

	r.Get("/user/{userId}", httpx.Wrap(h.log, h.listByUser))

	r.Group(func(r chi.Router) {
		r.Use(h.gate)
		r.Post("/", httpx.Wrap(h.log, h.create))
		r.Patch("/{tweetId}", httpx.Wrap(h.log, h.update))
		r.Delete("/{tweetId}", httpx.Wrap(h.log, h.delete))
	})

	return r
}

type contentRequest struct {
	Content string `json:"content"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) error {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return httpx.Unauthorized("unauthorized request")
	}

	var req contentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return err
	}

	created, err := h.svc.Create(r.Context(), identity.ID, req.Content)
	if err != nil {
		return toAPIError(err)
	}

	httpx.JSON(w, http.StatusCreated, created, "tweet created successfully")
	return nil
}

func (h *Handler) listByUser(w http.ResponseWriter, r *http.Request) error {
	tweets, err := h.svc.ListByOwner(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		return toAPIError(err)
	}

	httpx.JSON(w, http.StatusOK, tweets, "tweets fetched successfully")
	return nil
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) error {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return httpx.Unauthorized("unauthorized request")
	}

	var req contentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return err
	}

	updated, err := h.svc.Update(r.Context(), identity.ID, chi.URLParam(r, "tweetId"), req.Content)
	if err != nil {
		return toAPIError(err)
	}

	httpx.JSON(w, http.StatusOK, updated, "tweet updated successfully")
	return nil
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) error {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return httpx.Unauthorized("unauthorized request")
	}

	if err := h.svc.Delete(r.Context(), identity.ID, chi.URLParam(r, "tweetId")); err != nil {
		return toAPIError(err)
	}

	httpx.JSON(w, http.StatusOK, nil, "tweet deleted successfully")
	return nil
}

func toAPIError(err error) error {
	switch {
	case errors.Is(err, ErrEmptyContent):
		return httpx.BadRequest("content must not be blank")
	case errors.Is(err, ErrContentTooLong):
		return httpx.BadRequest(fmt.Sprintf("content exceeds %d characters", MaxContentLength))
	case errors.Is(err, ErrForbidden):
		return httpx.Forbidden("you are not allowed to modify this tweet")
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidID):
		return httpx.NotFound("tweet not found")
	default:
		return err
	}
}
