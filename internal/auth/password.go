// Package auth hashes and verifies admin passwords.
//
// Hashes are stored as "scrypt:<hex salt>:<hex key>" with N=16384, r=8, p=1 and a
// 64-byte key, matching the hashes written by the admin scripts of the web app.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltLen      = 16
)

// Scrypt implements app.PasswordHasher.
type Scrypt struct{}

func (Scrypt) Hash(password string) (string, error) {
	return HashPassword(password)
}

func (Scrypt) Verify(password, stored string) bool {
	return VerifyPassword(password, stored)
}

// HashPassword returns a new salted hash of password.
func HashPassword(password string) (string, error) {
	raw := make([]byte, saltLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	salt := hex.EncodeToString(raw)
	key, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}
	return "scrypt:" + salt + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword compares password against a stored hash in constant time.
func VerifyPassword(password, stored string) bool {
	parts := strings.Split(stored, ":")
	if len(parts) != 3 || parts[0] != "scrypt" {
		return false
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) != scryptKeyLen {
		return false
	}
	// the salt is used as its hex text, not decoded bytes
	got, err := scrypt.Key([]byte(password), []byte(parts[1]), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}
