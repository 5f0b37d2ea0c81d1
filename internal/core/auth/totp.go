package auth

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// TOTP parameters per RFC 6238: SHA-1, 30 second steps, 6 digits.
const (
	totpStep   = 30 * time.Second
	totpDigits = 6
)

// VerifyTOTP checks a 6-digit code against a base32 shared secret, allowing
// one step of clock skew in either direction.
func VerifyTOTP(secret, code string, now time.Time) bool {
	key, err := decodeSecret(secret)
	if err != nil || len(key) == 0 {
		return false
	}

	counter := uint64(now.Unix()) / uint64(totpStep/time.Second)
	for _, c := range []uint64{counter - 1, counter, counter + 1} {
		want := hotp(key, c)
		if subtle.ConstantTimeCompare([]byte(want), []byte(code)) == 1 {
			return true
		}
	}
	return false
}

// TOTPCode returns the current code for a base32 secret. Used by tests and
// enrollment tooling.
func TOTPCode(secret string, now time.Time) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	counter := uint64(now.Unix()) / uint64(totpStep/time.Second)
	return hotp(key, counter), nil
}

func decodeSecret(secret string) ([]byte, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(secret, " ", ""))
	return base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(normalized)
}

// hotp implements RFC 4226 dynamic truncation.
func hotp(key []byte, counter uint64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	value := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff
	return fmt.Sprintf("%06d", value%1_000_000)
}
