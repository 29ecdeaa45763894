package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Base62 character set: a-z, A-Z, 0-9.
const base62Chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	shortIDLength = 6
	maxIDAttempts = 100
)

// GenerateShortID returns a random base62 string of the default length.
func GenerateShortID() (string, error) {
	id := make([]byte, shortIDLength)
	for i := range id {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(base62Chars))))
		if err != nil {
			return "", err
		}
		id[i] = base62Chars[n.Int64()]
	}
	return string(id), nil
}

// GenerateUniqueID retries until the id is absent from existing. The id
// space is 62^6, so collisions exhaust attempts only if the caller already
// holds a large share of it.
func GenerateUniqueID(existing map[string]bool) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id, err := GenerateShortID()
		if err != nil {
			return "", err
		}
		if !existing[id] {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique id after %d attempts", maxIDAttempts)
}
