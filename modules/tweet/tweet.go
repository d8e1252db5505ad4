// Package tweet implements short text posts: create, list by author,
// edit and delete. Edits and deletes are owner-only.
package tweet

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MaxContentLength caps a tweet's content in runes.
const MaxContentLength = 280

// Tweet is the persisted document.
type Tweet struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Content   string        `bson:"content"`
	OwnerID   bson.ObjectID `bson:"ownerId"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

// Public is the API view of a tweet.
type Public struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t Tweet) Public() Public {
	return Public{
		ID:        t.ID.Hex(),
		Content:   t.Content,
		OwnerID:   t.OwnerID.Hex(),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
