package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost mirrors the configured hashing work factor. Raising it only
// affects newly stored hashes; verification reads the cost embedded in each
// stored value.
const DefaultCost = 12

// HashPassword creates a bcrypt hash from the given plaintext password.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyPassword checks the plaintext password against the stored bcrypt
// hash. A malformed stored hash verifies false rather than surfacing an
// error to the caller.
func VerifyPassword(hashedPassword, providedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(providedPassword)) == nil
}
