// internal/pkg/password/password.go
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	saltBytes = 16
	keyLen    = 64

	// scrypt cost parameters
	costN = 16384
	costR = 8
	costP = 1
)

// Hash derives a scrypt key under a fresh random salt and returns "salt:key"
// with both parts hex encoded.
func Hash(plain string) (string, error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	salt := hex.EncodeToString(raw)

	key, err := derive(plain, salt)
	if err != nil {
		return "", err
	}
	return salt + ":" + hex.EncodeToString(key), nil
}

// Verify reports whether plain matches a value produced by Hash.
func Verify(plain, stored string) bool {
	salt, keyHex, ok := strings.Cut(stored, ":")
	if !ok || salt == "" || keyHex == "" {
		return false
	}

	want, err := hex.DecodeString(keyHex)
	if err != nil {
		return false
	}

	got, err := derive(plain, salt)
	if err != nil {
		return false
	}

	if len(want) != len(got) {
		return false
	}
	return subtle.ConstantTimeCompare(want, got) == 1
}

// The hex salt text itself is the KDF salt, which keeps stored hashes
// portable across implementations that treat the salt as a string.
func derive(plain, salt string) ([]byte, error) {
	key, err := scrypt.Key([]byte(plain), []byte(salt), costN, costR, costP, keyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}
