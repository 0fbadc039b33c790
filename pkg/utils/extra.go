// Add utility functions here
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"
)

// GenerateRandomToken generates a random hex token of the specified length.
func GenerateRandomToken(length int) string {
	bytes := make([]byte, length)
	_, err := rand.Read(bytes)
	if err != nil {
		return ""
	}
	return hex.EncodeToString(bytes)[:length]
}

const matchCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateMatchCode generates a human-shareable uppercase code.
// Ambiguous characters (0/O, 1/I) are excluded from the alphabet.
func GenerateMatchCode(length int) string {
	var sb strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(matchCodeAlphabet))))
		if err != nil {
			// crypto/rand failure is unrecoverable here; fall back to a fixed char
			// rather than return a short code.
			sb.WriteByte('A')
			continue
		}
		sb.WriteByte(matchCodeAlphabet[n.Int64()])
	}
	return sb.String()
}
