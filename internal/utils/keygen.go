package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateConfirmationKey generates an opaque single-use confirmation key.
// Format: 32 char hex from 16 random bytes.
func GenerateConfirmationKey() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
