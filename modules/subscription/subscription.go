// Package subscription implements channel subscriptions: a user
// (subscriber) follows another user (channel). Subscribing is a
// toggle, so the same endpoint subscribes and unsubscribes.
package subscription

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Subscription is the persisted edge from subscriber to channel.
type Subscription struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	SubscriberID bson.ObjectID `bson:"subscriberId"`
	ChannelID    bson.ObjectID `bson:"channelId"`
	CreatedAt    time.Time     `bson:"createdAt"`
}

// Status is the API answer to a toggle: whether the caller is now
// subscribed.
type Status struct {
	ChannelID  string `json:"channelId"`
	Subscribed bool   `json:"subscribed"`
}
