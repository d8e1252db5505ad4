package user

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
	ErrNotFound  = errors.New("user: not found")
	ErrDuplicate = errors.New("user: username or email already taken")
	ErrInvalidID = errors.New("user: invalid id")
)

const collectionName = "users"

// Repository persists users in MongoDB. All mutations after Create are
// field-targeted updates; the document is never rewritten wholesale.
type Repository struct {
	coll *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(collectionName)}
}

// EnsureIndexes creates the unique indexes on username and email.
// Values are lowercased before writes, so plain unique indexes give
// case-insensitive uniqueness.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("user: create indexes: %w", err)
	}
	return nil
}

// Create inserts u and fills in its generated id. A unique index
// violation surfaces as ErrDuplicate.
func (r *Repository) Create(ctx context.Context, u *User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("user: insert: %w", err)
	}
	u.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

// FindByID returns the user with the given hex id.
func (r *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var u User
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user: find by id: %w", err)
	}
	return &u, nil
}

// FindByUsernameOrEmail matches either field. Callers pass normalized
// (lowercased, trimmed) values.
func (r *Repository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}

	var u User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user: find by username or email: %w", err)
	}
	return &u, nil
}

// ExistsByUsernameOrEmail reports whether either normalized value is
// already taken. Used as a pre-check; the unique indexes remain the
// authority under races.
func (r *Repository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}

	count, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("user: exists by username or email: %w", err)
	}
	return count > 0, nil
}

// SetRefreshToken overwrites the stored refresh token. Only this field
// and the update timestamp change.
func (r *Repository) SetRefreshToken(ctx context.Context, id, token string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"refreshToken": token,
		"updatedAt":    time.Now().UTC(),
	}})
}

// ClearRefreshToken removes the refresh token field entirely, leaving
// the document in an explicit token-absent state.
func (r *Repository) ClearRefreshToken(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{
		"$unset": bson.M{"refreshToken": ""},
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("user: clear refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPasswordHash replaces the stored password hash.
func (r *Repository) SetPasswordHash(ctx context.Context, id, hash string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"passwordHash": hash,
		"updatedAt":    time.Now().UTC(),
	}})
}

func (r *Repository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("user: update: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
