// Package crypto provides session token generation and teacher password
// hashing.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const saltLength = 16

// NewToken generates a random session token (32 bytes, hex encoded).
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("crypto: generate token: %w", err)
	}
	return fmt.Sprintf("%x", b), nil
}

// NewSalt generates a random salt for password hashing.
func NewSalt() ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("crypto: generate salt: %w", err)
	}
	return salt, nil
}

// HashPassword hashes a password using Argon2id.
func HashPassword(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
}

// VerifyPassword reports whether password matches the given Argon2id hash.
// Comparison is constant time.
func VerifyPassword(password string, salt, hash []byte) bool {
	computed := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(computed, hash) == 1
}
