// Package user owns the user document and its MongoDB repository. The
// document carries the two secrets the auth flows depend on, the
// password hash and the current refresh token; the Public view strips
// both before anything leaves the service.
package user

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is the persisted document. Username and email are stored
// lowercased and trimmed; uniqueness is enforced by indexes.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Username     string        `bson:"username"`
	Email        string        `bson:"email"`
	FullName     string        `bson:"fullName"`
	Avatar       string        `bson:"avatar"`
	CoverImage   string        `bson:"coverImage,omitempty"`
	PasswordHash string        `bson:"passwordHash"`
	RefreshToken string        `bson:"refreshToken,omitempty"`
	CreatedAt    time.Time     `bson:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt"`
}

// Public is the sanitized view of a user: no password hash, no refresh
// token, ever.
type Public struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Public returns the sanitized view of u.
func (u User) Public() Public {
	return Public{
		ID:         u.ID.Hex(),
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
	}
}
