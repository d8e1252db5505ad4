package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var ErrInvalidID = errors.New("subscription: invalid id")

const collectionName = "subscriptions"

// Repository persists subscription edges in MongoDB.
type Repository struct {
	coll *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(collectionName)}
}

// EnsureIndexes creates the unique compound index that makes the edge
// idempotent and the reverse index for channel listings.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "subscriberId", Value: 1}, {Key: "channelId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "channelId", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("subscription: create indexes: %w", err)
	}
	return nil
}

// Toggle removes the edge when it exists and creates it when it does
// not. Returns true when the caller ends up subscribed. The unique
// index absorbs a concurrent double-insert; the loser's duplicate
// error is reported as already subscribed.
func (r *Repository) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	subOID, err := bson.ObjectIDFromHex(subscriberID)
	if err != nil {
		return false, ErrInvalidID
	}
	chanOID, err := bson.ObjectIDFromHex(channelID)
	if err != nil {
		return false, ErrInvalidID
	}

	filter := bson.M{"subscriberId": subOID, "channelId": chanOID}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("subscription: delete: %w", err)
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	_, err = r.coll.InsertOne(ctx, Subscription{
		SubscriberID: subOID,
		ChannelID:    chanOID,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return true, nil
		}
		return false, fmt.Errorf("subscription: insert: %w", err)
	}
	return true, nil
}

// ListSubscribers returns the ids of users subscribed to the channel.
func (r *Repository) ListSubscribers(ctx context.Context, channelID string) ([]string, error) {
	oid, err := bson.ObjectIDFromHex(channelID)
	if err != nil {
		return nil, ErrInvalidID
	}
	return r.listIDs(ctx, bson.M{"channelId": oid}, func(s Subscription) string {
		return s.SubscriberID.Hex()
	})
}

// ListChannels returns the ids of channels the subscriber follows.
func (r *Repository) ListChannels(ctx context.Context, subscriberID string) ([]string, error) {
	oid, err := bson.ObjectIDFromHex(subscriberID)
	if err != nil {
		return nil, ErrInvalidID
	}
	return r.listIDs(ctx, bson.M{"subscriberId": oid}, func(s Subscription) string {
		return s.ChannelID.Hex()
	})
}

func (r *Repository) listIDs(ctx context.Context, filter bson.M, pick func(Subscription) string) ([]string, error) {
	cur, err := r.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("subscription: list: %w", err)
	}

	var subs []Subscription
	if err := cur.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("subscription: decode list: %w", err)
	}

	ids := make([]string, len(subs))
	for i, s := range subs {
		ids[i] = pick(s)
	}
	return ids, nil
}
