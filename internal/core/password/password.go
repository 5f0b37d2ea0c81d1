// Package password hashes and verifies account passwords.
//
// Hashes are versioned PBKDF2 blobs stored as base64 text:
// [version:1][salt:16][hash:32], version 0x01 = PBKDF2-SHA256, 100k rounds.
// The version byte allows a future scheme change without rehashing on read.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"
)

const (
	versionPBKDF2 = 0x01
	saltLen       = 16
	hashLen       = 32
	iterations    = 100_000
)

// Hash derives a salted hash of the password and returns the encoded blob.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := pbkdf2.Key([]byte(password), salt, iterations, hashLen, sha256.New)

	blob := make([]byte, 0, 1+saltLen+hashLen)
	blob = append(blob, versionPBKDF2)
	blob = append(blob, salt...)
	blob = append(blob, hash...)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Verify reports whether the password matches the encoded blob. Malformed or
// unknown-version blobs verify as false, never as an error — a corrupt hash
// is indistinguishable from a wrong password to the caller.
func Verify(password, encoded string) bool {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}
	if len(blob) != 1+saltLen+hashLen || blob[0] != versionPBKDF2 {
		return false
	}

	salt := blob[1 : 1+saltLen]
	want := blob[1+saltLen:]
	got := pbkdf2.Key([]byte(password), salt, iterations, hashLen, sha256.New)
	return subtle.ConstantTimeCompare(want, got) == 1
}
