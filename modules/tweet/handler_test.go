package tweet_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/streamvault/streamvault/modules/auth"
	"github.com/streamvault/streamvault/modules/tweet"
	"github.com/streamvault/streamvault/modules/user"
)

// stubGate stands in for the auth middleware: it attaches a fixed
// identity, or rejects when none is configured.
func stubGate(identity *user.Public) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), *identity)))
		})
	}
}

func newRouter(t *testing.T, identity *user.Public) (http.Handler, *tweet.Service) {
	t.Helper()
	svc, _ := newService(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return tweet.NewHandler(svc, stubGate(identity), log).Router(), svc
}

func postJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler(t *testing.T) {
	t.Parallel()

	alice := user.Public{ID: bson.NewObjectID().Hex(), Username: "alice"}
	mallory := user.Public{ID: bson.NewObjectID().Hex(), Username: "mallory"}

	t.Run("create and list round trip", func(t *testing.T) {
		t.Parallel()
		router, _ := newRouter(t, &alice)

		rec := postJSON(t, router, http.MethodPost, "/", map[string]string{"content": "hello"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		listRec := httptest.NewRecorder()
		router.ServeHTTP(listRec, httptest.NewRequest(http.MethodGet, "/user/"+alice.ID, nil))
		require.Equal(t, http.StatusOK, listRec.Code)
		assert.Contains(t, listRec.Body.String(), `"content":"hello"`)
	})

	t.Run("mutations are gated", func(t *testing.T) {
		t.Parallel()
		router, _ := newRouter(t, nil)

		rec := postJSON(t, router, http.MethodPost, "/", map[string]string{"content": "hello"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("listing is public", func(t *testing.T) {
		t.Parallel()
		router, _ := newRouter(t, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user/"+alice.ID, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("update by non-owner is 403", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t)
		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		created, err := svc.Create(t.Context(), alice.ID, "mine")
		require.NoError(t, err)

		router := tweet.NewHandler(svc, stubGate(&mallory), log).Router()
		rec := postJSON(t, router, http.MethodPatch, "/"+created.ID, map[string]string{"content": "stolen"})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("delete of a missing tweet is 404", func(t *testing.T) {
		t.Parallel()
		router, _ := newRouter(t, &alice)

		req := httptest.NewRequest(http.MethodDelete, "/"+bson.NewObjectID().Hex(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("blank content is 400", func(t *testing.T) {
		t.Parallel()
		router, _ := newRouter(t, &alice)

		rec := postJSON(t, router, http.MethodPost, "/", map[string]string{"content": "  "})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
