package tweet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var (
	ErrNotFound  = errors.New("tweet: not found")
	ErrInvalidID = errors.New("tweet: invalid id")
)

const collectionName = "tweets"

// Repository persists tweets in MongoDB.
type Repository struct {
	coll *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(collectionName)}
}

// EnsureIndexes creates the owner index that backs the per-user
// listing.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("tweet: create indexes: %w", err)
	}
	return nil
}

// Create inserts t and fills in its generated id.
func (r *Repository) Create(ctx context.Context, t *Tweet) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, t)
	if err != nil {
		return fmt.Errorf("tweet: insert: %w", err)
	}
	t.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

// FindByID returns the tweet with the given hex id.
func (r *Repository) FindByID(ctx context.Context, id string) (*Tweet, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var t Tweet
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("tweet: find by id: %w", err)
	}
	return &t, nil
}

// ListByOwner returns the owner's tweets, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]Tweet, error) {
	oid, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrInvalidID
	}

	cur, err := r.coll.Find(ctx, bson.M{"ownerId": oid},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("tweet: list by owner: %w", err)
	}

	var tweets []Tweet
	if err := cur.All(ctx, &tweets); err != nil {
		return nil, fmt.Errorf("tweet: decode list: %w", err)
	}
	return tweets, nil
}

// UpdateContent replaces the tweet's content.
func (r *Repository) UpdateContent(ctx context.Context, id, content string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"content":   content,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("tweet: update content: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the tweet.
func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("tweet: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
