// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateSessionToken creates a random secure token for an
// authenticated voter. The token is handed out after a successful
// fingerprint match and consumed when the ballot is cast.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// ValidateAdminKey checks a provided admin key against the configured
// one in constant time.
func ValidateAdminKey(provided, configured string) error {
	if configured == "" || !hmac.Equal([]byte(provided), []byte(configured)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// FormatVoterID renders the canonical external voter identifier for a
// sequence number, e.g. FormatVoterID(7) == "V000007".
func FormatVoterID(n int) string {
	return fmt.Sprintf("V%06d", n)
}

// NextVoterID derives the next sequential voter identifier from the
// highest existing one. Unparseable identifiers restart the sequence.
func NextVoterID(last string) string {
	if !strings.HasPrefix(last, "V") {
		return FormatVoterID(1)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(last, "V"))
	if err != nil || n < 0 {
		return FormatVoterID(1)
	}
	return FormatVoterID(n + 1)
}
