package user_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/streamvault/streamvault/modules/user"
)

func TestPublic(t *testing.T) {
	t.Parallel()

	u := user.User{
		ID:           bson.NewObjectID(),
		Username:     "alice",
		Email:        "alice@example.com",
		FullName:     "Alice Example",
		Avatar:       "https://cdn.test/avatars/a.png",
		CoverImage:   "https://cdn.test/covers/a.png",
		PasswordHash: "$2a$10$somethingsecret",
		RefreshToken: "refresh.token.value",
		CreatedAt:    time.Now().UTC(),
	}

	p := u.Public()
	assert.Equal(t, u.ID.Hex(), p.ID)
	assert.Equal(t, u.Username, p.Username)
	assert.Equal(t, u.Avatar, p.Avatar)

	// The sanitized view must never serialize credential material.
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "somethingsecret")
	assert.NotContains(t, string(raw), "refresh.token.value")
	assert.NotContains(t, string(raw), "passwordHash")
	assert.NotContains(t, string(raw), "refreshToken")
}
