// Package utils holds small helpers shared by the daemon, the CLI and the
// internal packages.
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// ShortIDLength is the display length of a truncated ID.
const ShortIDLength = 12

// GenerateID returns a 16-character random hex identifier for I/O requests.
// The first ShortIDLength characters are what routine logs and table output
// show.
func GenerateID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// TruncateIDSafe returns the first ShortIDLength characters of id, or id
// itself when it is already short.
func TruncateIDSafe(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[:ShortIDLength]
}
