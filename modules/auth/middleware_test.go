package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamvault/streamvault/modules/auth"
	"github.com/streamvault/streamvault/modules/user"
	"github.com/streamvault/streamvault/pkg/cookie"
)

// gatedEcho records whether the request got past the gate and what
// identity the middleware attached.
type gatedEcho struct {
	called   bool
	identity user.Public
	hasID    bool
}

func (g *gatedEcho) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.called = true
	g.identity, g.hasID = auth.IdentityFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func gate(svc *auth.Service) (http.Handler, *gatedEcho) {
	echo := &gatedEcho{}
	cookies := cookie.New(cookie.Config{Path: "/", HTTPOnly: true})
	return auth.Middleware(svc, cookies)(echo), echo
}

func loginPair(t *testing.T, svc *auth.Service) auth.TokenPair {
	t.Helper()
	_, pair, err := svc.Login(context.Background(), "alice", "", "pw1-very-secret")
	require.NoError(t, err)
	return pair
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("bearer header passes and identity is attached", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t, testConfig())
		created := mustRegister(t, svc)
		pair := loginPair(t, svc)

		handler, echo := gate(svc)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.True(t, echo.called)
		require.True(t, echo.hasID)
		assert.Equal(t, created.ID, echo.identity.ID)
		assert.Equal(t, "alice", echo.identity.Username)
	})

	t.Run("access token cookie passes", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t, testConfig())
		mustRegister(t, svc)
		pair := loginPair(t, svc)

		handler, echo := gate(svc)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: pair.AccessToken})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, echo.called)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t, testConfig())

		handler, echo := gate(svc)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		requireUnauthorizedEnvelope(t, rec)
		assert.False(t, echo.called)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig()
		cfg.AccessTokenTTL = -time.Minute
		svc, _ := newService(t, cfg)
		mustRegister(t, svc)
		pair := loginPair(t, svc)

		handler, echo := gate(svc)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		requireUnauthorizedEnvelope(t, rec)
		assert.False(t, echo.called)
	})

	t.Run("refresh token at the gate", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t, testConfig())
		mustRegister(t, svc)
		pair := loginPair(t, svc)

		handler, echo := gate(svc)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		requireUnauthorizedEnvelope(t, rec)
		assert.False(t, echo.called)
	})

	t.Run("garbage bearer token", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t, testConfig())

		handler, echo := gate(svc)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer definitely.not.ajwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		requireUnauthorizedEnvelope(t, rec)
		assert.False(t, echo.called)
	})

	t.Run("cookie takes precedence over header", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t, testConfig())
		mustRegister(t, svc)
		pair := loginPair(t, svc)

		handler, echo := gate(svc)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: pair.AccessToken})
		req.Header.Set("Authorization", "Bearer stale-garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, echo.called)
	})
}

func requireUnauthorizedEnvelope(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body struct {
		StatusCode int    `json:"statusCode"`
		Message    string `json:"message"`
		Success    bool   `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusUnauthorized, body.StatusCode)
	assert.Equal(t, "unauthorized request", body.Message)
	assert.False(t, body.Success)
}
