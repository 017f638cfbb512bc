package utils

import (
	"golang.org/x/crypto/bcrypt"

	"socialfeed/config"
)

// HashPassword returns the bcrypt hash of the password using the configured
// cost factor. The cost is tunable upward for stronger hardware but the
// default of 10 is never lowered for compatibility.
func HashPassword(password string) (string, error) {
	cost := config.Get().BcryptCost
	if cost < bcrypt.DefaultCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares the bcrypt hashed password with its possible
// plaintext equivalent. Raw byte comparison is never used.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
