package tweet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/streamvault/streamvault/pkg/logger"
)

var (
	// ErrForbidden means the caller is not the tweet's owner.
	ErrForbidden = errors.New("tweet: not the owner")

	ErrEmptyContent   = errors.New("tweet: content must not be blank")
	ErrContentTooLong = errors.New("tweet: content too long")
)

// Store is the persistence the service needs, implemented by
// Repository.
type Store interface {
	Create(ctx context.Context, t *Tweet) error
	FindByID(ctx context.Context, id string) (*Tweet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Tweet, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}

// Service applies content validation and ownership checks on top of
// the store.
type Service struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

// Create posts a tweet owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID, content string) (Public, error) {
	content, err := validateContent(content)
	if err != nil {
		return Public{}, err
	}

	oid, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return Public{}, ErrInvalidID
	}

	t := &Tweet{Content: content, OwnerID: oid}
	if err := s.store.Create(ctx, t); err != nil {
		return Public{}, fmt.Errorf("create tweet: %w", err)
	}

	s.log.InfoContext(ctx, "tweet created",
		logger.Component("tweet"),
		logger.UserID(ownerID),
		slog.String("tweet_id", t.ID.Hex()),
	)
	return t.Public(), nil
}

// ListByOwner returns all tweets by a user, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Public, error) {
	tweets, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]Public, len(tweets))
	for i, t := range tweets {
		out[i] = t.Public()
	}
	return out, nil
}

// Update replaces a tweet's content. Only the owner may update; anyone
// else gets ErrForbidden even when the tweet exists.
func (s *Service) Update(ctx context.Context, callerID, tweetID, content string) (Public, error) {
	content, err := validateContent(content)
	if err != nil {
		return Public{}, err
	}

	t, err := s.store.FindByID(ctx, tweetID)
	if err != nil {
		return Public{}, err
	}
	if t.OwnerID.Hex() != callerID {
		return Public{}, ErrForbidden
	}

	if err := s.store.UpdateContent(ctx, tweetID, content); err != nil {
		return Public{}, err
	}

	t.Content = content
	return t.Public(), nil
}

// Delete removes a tweet. Owner-only, like Update.
func (s *Service) Delete(ctx context.Context, callerID, tweetID string) error {
	t, err := s.store.FindByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if t.OwnerID.Hex() != callerID {
		return ErrForbidden
	}

	if err := s.store.Delete(ctx, tweetID); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "tweet deleted",
		logger.Component("tweet"),
		logger.UserID(callerID),
		slog.String("tweet_id", tweetID),
	)
	return nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return "", ErrContentTooLong
	}
	return content, nil
}
