package utils

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashAPIKey produces the value stored in SERVICE_API_KEY_HASH.
func HashAPIKey(key string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	return string(b), err
}

// CheckAPIKey reports whether key matches the bcrypt hash.
func CheckAPIKey(hash, key string) bool {
	hash = strings.TrimSpace(hash)
	if hash == "" || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
