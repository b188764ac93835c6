package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is tuned so hashing takes a few hundred milliseconds on
// current hardware.
const defaultCost = 12

// PasswordHasher wraps bcrypt. The cost is injectable so tests can use the
// minimum cost instead of paying ~250ms per hash.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: defaultCost}
}

// NewPasswordHasherForTest uses bcrypt.MinCost. Not for production.
func NewPasswordHasherForTest() *PasswordHasher {
	return &PasswordHasher{cost: bcrypt.MinCost}
}

// Hash returns a self-contained bcrypt hash (salt and cost embedded).
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(out), nil
}

// Verify reports whether plaintext matches the stored hash.
func (h *PasswordHasher) Verify(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
