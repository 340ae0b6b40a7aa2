package cryptox

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex returns size random bytes hex encoded, so the string is
// 2*size characters long. Used for invitation share tokens.
func RandomHex(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Wipe zeroes b. Call it on passwords once they have been sent or hashed.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
