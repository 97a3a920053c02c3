// Package passhash is the only place plaintext passwords are turned into
// stored hashes or compared against them. Neither plaintext nor hash leaves
// this boundary through logs or errors.
package passhash

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost keeps verification in the tens-of-milliseconds range on commodity
// hardware.
const Cost = bcrypt.DefaultCost

var ErrEmptyPassword = errors.New("password cannot be empty")

// Hash produces a salted bcrypt hash. A fresh salt is generated per call, so
// two identical passwords hash differently.
func Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", fmt.Errorf("hash password failed: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored hash. The comparison is
// constant-time with respect to the outcome.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
