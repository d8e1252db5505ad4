package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamvault/streamvault/pkg/cookie"
)

func TestManager(t *testing.T) {
	t.Parallel()

	mgr := cookie.New(cookie.Config{Secure: true, HTTPOnly: true})

	t.Run("set applies the security attributes", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		mgr.Set(rec, "accessToken", "tok", 15*time.Minute)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, "accessToken", c.Name)
		assert.Equal(t, "tok", c.Value)
		assert.Equal(t, "/", c.Path)
		assert.True(t, c.Secure)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Equal(t, int((15 * time.Minute).Seconds()), c.MaxAge)
	})

	t.Run("get returns the value", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "rt"})

		v, err := mgr.Get(req, "refreshToken")
		require.NoError(t, err)
		assert.Equal(t, "rt", v)
	})

	t.Run("get reports missing cookie", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := mgr.Get(req, "accessToken")
		require.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})

	t.Run("delete expires with matching attributes", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		mgr.Delete(rec, "accessToken")

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, -1, c.MaxAge)
		assert.True(t, c.Expires.Before(time.Now()))
		assert.True(t, c.Secure)
		assert.True(t, c.HttpOnly)
	})
}
