// Package token generates the unguessable credentials embedded in share URLs.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"regexp"
)

// tokenBytes gives 256 bits of entropy, making collisions negligible. The db
// layer still carries a unique constraint and callers retry on the off chance.
const tokenBytes = 32

// Length is the encoded token length in characters.
const Length = 43 // base64url, no padding: ceil(32*8/6)

// pattern matches the exact shape of a generated token.
var pattern = regexp.MustCompile(`^[A-Za-z0-9_-]{43}$`)

// New returns a cryptographically random URL-safe token.
func New() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Valid reports whether s has the shape of a token this service issued.
// Malformed input can be rejected without a database round trip; the caller
// still reports it as not found.
func Valid(s string) bool {
	return pattern.MatchString(s)
}
