package auth

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

const (
	// argon2id parameters for room passwords. Matching runs on the hub
	// goroutine, so one check must stay well under a millisecond.
	argonTime    = 1
	argonMemory  = 64 // KiB
	argonThreads = 1
	argonKeyLen  = 32

	saltLen = 16
)

// PasswordDigest is a salted argon2id digest of a room password.
// The zero value matches nothing.
type PasswordDigest struct {
	salt []byte
	hash []byte
}

// HashPassword derives a digest for password using a fresh random salt.
// Any string is accepted, including the empty string.
func HashPassword(password string) PasswordDigest {
	salt := make([]byte, saltLen)
	// crypto/rand.Read never returns an error since Go 1.24.
	_, _ = rand.Read(salt)
	return PasswordDigest{
		salt: salt,
		hash: argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen),
	}
}

// IsZero reports whether the digest was never set.
func (d PasswordDigest) IsZero() bool {
	return len(d.hash) == 0
}

// Matches reports whether password is exactly the string the digest was built from.
func (d PasswordDigest) Matches(password string) bool {
	if d.IsZero() {
		return false
	}
	candidate := argon2.IDKey([]byte(password), d.salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return subtle.ConstantTimeCompare(candidate, d.hash) == 1
}
