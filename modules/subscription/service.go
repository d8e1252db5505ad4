package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streamvault/streamvault/modules/user"
	"github.com/streamvault/streamvault/pkg/logger"
)

var (
	// ErrSelfSubscribe means a user tried to subscribe to their own
	// channel.
	ErrSelfSubscribe = errors.New("subscription: cannot subscribe to yourself")

	ErrChannelNotFound = errors.New("subscription: channel not found")
)

// Store is the persistence the service needs, implemented by
// Repository.
type Store interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	ListSubscribers(ctx context.Context, channelID string) ([]string, error)
	ListChannels(ctx context.Context, subscriberID string) ([]string, error)
}

// Users is the slice of the user repository the service needs to
// confirm a channel exists.
type Users interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// Service validates channels and applies the self-subscribe rule on
// top of the store.
type Service struct {
	store Store
	users Users
	log   *slog.Logger
}

func NewService(store Store, users Users, log *slog.Logger) *Service {
	return &Service{store: store, users: users, log: log}
}

// Toggle flips the subscriber's subscription to the channel and
// returns the resulting state. The channel must be an existing user
// other than the subscriber.
func (s *Service) Toggle(ctx context.Context, subscriberID, channelID string) (Status, error) {
	if subscriberID == channelID {
		return Status{}, ErrSelfSubscribe
	}

	if _, err := s.users.FindByID(ctx, channelID); err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrInvalidID) {
			return Status{}, ErrChannelNotFound
		}
		return Status{}, fmt.Errorf("find channel: %w", err)
	}

	subscribed, err := s.store.Toggle(ctx, subscriberID, channelID)
	if err != nil {
		return Status{}, err
	}

	s.log.InfoContext(ctx, "subscription toggled",
		logger.Component("subscription"),
		logger.UserID(subscriberID),
		slog.String("channel_id", channelID),
		slog.Bool("subscribed", subscribed),
	)
	return Status{ChannelID: channelID, Subscribed: subscribed}, nil
}

// Subscribers lists the ids of users subscribed to the channel.
func (s *Service) Subscribers(ctx context.Context, channelID string) ([]string, error) {
	if _, err := s.users.FindByID(ctx, channelID); err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrInvalidID) {
			return nil, ErrChannelNotFound
		}
		return nil, fmt.Errorf("find channel: %w", err)
	}
	return s.store.ListSubscribers(ctx, channelID)
}

// Channels lists the ids of channels the subscriber follows.
func (s *Service) Channels(ctx context.Context, subscriberID string) ([]string, error) {
	return s.store.ListChannels(ctx, subscriberID)
}
