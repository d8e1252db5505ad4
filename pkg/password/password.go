// Package password wraps bcrypt hashing and verification behind a small
// Hasher so the cost factor is set once at startup instead of at every
// call site.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is two above the bcrypt library default, tuned to roughly
// 100ms per hash on commodity hardware.
const DefaultCost = bcrypt.DefaultCost + 2

var ErrInvalidCost = errors.New("password: cost out of bcrypt range")

// Hasher produces and verifies salted one-way password hashes.
type Hasher struct {
	cost int
}

// New creates a Hasher with the given bcrypt cost. Cost 0 selects
// DefaultCost.
func New(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCost, cost)
	}
	return &Hasher{cost: cost}, nil
}

// Hash returns the salted hash of plaintext. On failure no partial
// value is returned; callers must not persist anything.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. bcrypt
// performs the comparison in constant time.
func (h *Hasher) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
