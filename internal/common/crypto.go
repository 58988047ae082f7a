package common

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateHexToken returns the hex encoding of n random bytes.
func GenerateHexToken(n int) (string, error) {
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
