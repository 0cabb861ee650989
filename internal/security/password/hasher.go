// Package password hashes and verifies user passwords with bcrypt.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength is the longest password bcrypt accepts, in bytes.
const MaxLength = 72

// Hasher produces salted bcrypt hashes at a fixed cost.
// It holds no mutable state and is safe for concurrent use.
type Hasher struct {
	cost  int
	dummy []byte
}

// NewHasher creates a Hasher. The cost must be within bcrypt's accepted range.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	// A hash of the same cost used to spend equal time on unknown accounts.
	dummy, err := bcrypt.GenerateFromPassword([]byte("hublocal-placeholder-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("generate placeholder hash: %w", err)
	}

	return &Hasher{cost: cost, dummy: dummy}, nil
}

// Hash returns a bcrypt hash of plaintext with a random salt embedded.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. A malformed hash yields false.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// VerifyNone runs a comparison against a placeholder hash and always returns
// false. Login calls it for unknown emails so both failure paths cost the same.
func (h *Hasher) VerifyNone(plaintext string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
	return false
}
