package auth

import (
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/streamvault/streamvault/pkg/cookie"
	"github.com/streamvault/streamvault/pkg/httpx"
)

const maxRegisterFormMemory = 16 << 20 // 16 MiB, matches the upload cap

// Handler exposes the session lifecycle over HTTP and owns the token
// cookies.
type Handler struct {
	svc     *Service
	cookies *cookie.Manager
	limiter LoginLimiter
	cfg     Config
	log     *slog.Logger
}

func NewHandler(svc *Service, cookies *cookie.Manager, limiter LoginLimiter, cfg Config, log *slog.Logger) *Handler {
	if limiter == nil {
		limiter = NoopLimiter{}
	}
	return &Handler{svc: svc, cookies: cookies, limiter: limiter, cfg: cfg, log: log}
}

// Router mounts the user-facing auth routes. Logout, password change
// and /me sit behind the auth gate; the rest are public.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", httpx.Wrap(h.log, h.register))
	r.Post("/login", httpx.Wrap(h.log, h.login))
	r.Post("/refresh", httpx.Wrap(h.log, h.refresh))

	r.Group(func(r chi.Router) {
		r.Use(Middleware(h.svc, h.cookies))
		r.Post("/logout", httpx.Wrap(h.log, h.logout))
		r.Post("/change-password", httpx.Wrap(h.log, h.changePassword))
		r.Get("/me", httpx.Wrap(h.log, h.me))
	})

	return r
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseMultipartForm(maxRegisterFormMemory); err != nil {
		return httpx.BadRequest("expected multipart form data")
	}

	in := RegisterInput{
		FullName: r.FormValue("fullName"),
		Email:    r.FormValue("email"),
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
	if files := r.MultipartForm.File["avatar"]; len(files) > 0 {
		in.Avatar = files[0]
	}
	if files := r.MultipartForm.File["coverImage"]; len(files) > 0 {
		in.CoverImage = files[0]
	}

	created, err := h.svc.Register(r.Context(), in)
	if err != nil {
		return toAPIError(err)
	}

	httpx.JSON(w, http.StatusCreated, created, "user registered successfully")
	return nil
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return err
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}
	allowed, err := h.limiter.Allow(r.Context(), identifier+"|"+clientIP(r))
	if err != nil {
		// A broken limiter must not take logins down with it.
		h.log.ErrorContext(r.Context(), "login rate limiter failed", slog.Any("error", err))
	} else if !allowed {
		return toAPIError(ErrTooManyAttempts)
	}

	u, pair, err := h.svc.Login(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return toAPIError(err)
	}

	h.setTokenCookies(w, pair)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user":         u,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "user logged in successfully")
	return nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) error {
	presented, _ := h.cookies.Get(r, RefreshTokenCookie)
	if presented == "" {
		var req refreshRequest
		if err := httpx.DecodeJSON(r, &req); err == nil {
			presented = req.RefreshToken
		}
	}

	pair, err := h.svc.Refresh(r.Context(), presented)
	if err != nil {
		return toAPIError(err)
	}

	h.setTokenCookies(w, pair)
	httpx.JSON(w, http.StatusOK, pair, "access token refreshed")
	return nil
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) error {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return httpx.Unauthorized("unauthorized request")
	}

	if err := h.svc.Logout(r.Context(), identity.ID); err != nil {
		return toAPIError(err)
	}

	h.cookies.Delete(w, AccessTokenCookie)
	h.cookies.Delete(w, RefreshTokenCookie)
	httpx.JSON(w, http.StatusOK, nil, "user logged out successfully")
	return nil
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) error {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return httpx.Unauthorized("unauthorized request")
	}

	var req changePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return err
	}

	if err := h.svc.ChangePassword(r.Context(), identity.ID, req.OldPassword, req.NewPassword); err != nil {
		return toAPIError(err)
	}

	httpx.JSON(w, http.StatusOK, nil, "password changed successfully")
	return nil
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) error {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return httpx.Unauthorized("unauthorized request")
	}

	httpx.JSON(w, http.StatusOK, identity, "current user")
	return nil
}

func (h *Handler) setTokenCookies(w http.ResponseWriter, pair TokenPair) {
	h.cookies.Set(w, AccessTokenCookie, pair.AccessToken, h.cfg.AccessTokenTTL)
	h.cookies.Set(w, RefreshTokenCookie, pair.RefreshToken, h.cfg.RefreshTokenTTL)
}

// toAPIError maps service failures onto the HTTP error taxonomy. This
// is the only place auth errors acquire status codes.
func toAPIError(err error) error {
	var valErr ValidationError
	switch {
	case errors.As(err, &valErr):
		return httpx.BadRequest("validation failed", valErr.Fields...)
	case errors.Is(err, ErrInvalidCredentials):
		return httpx.Unauthorized("invalid user credentials")
	case errors.Is(err, ErrUnauthenticated):
		return httpx.Unauthorized("unauthorized request")
	case errors.Is(err, ErrDuplicateIdentity):
		return httpx.Conflict("user with this username or email already exists")
	case errors.Is(err, ErrUserNotFound):
		return httpx.NotFound("user not found")
	case errors.Is(err, ErrTooManyAttempts):
		return httpx.TooManyRequests("too many login attempts, try again later")
	default:
		return err
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
