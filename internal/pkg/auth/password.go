package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the hashing cost used for stored passwords
const BcryptCost = 12

// HashPassword hashes a plain text password
func HashPassword(password string) (string, error) {
	return hashWithCost(password, BcryptCost)
}

func hashWithCost(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword reports whether password matches the stored hash
func CheckPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// PasswordHasher hashes and verifies passwords; services depend on it so tests
// can use a cheap cost
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// BcryptHasher implements PasswordHasher with bcrypt
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher with the default cost
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: BcryptCost}
}

// Hash implements PasswordHasher
func (h *BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = BcryptCost
	}
	return hashWithCost(password, cost)
}

// Compare implements PasswordHasher
func (h *BcryptHasher) Compare(hash, password string) bool {
	return CheckPassword(hash, password)
}
