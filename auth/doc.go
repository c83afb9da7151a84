// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token generation and key validation utilities.

# Admin Key

Operator endpoints require a shared admin key in the X-Admin-Key
header, compared in constant time:

	err := auth.ValidateAdminKey(provided, cfg.AdminKey)

An empty configured key always fails validation, so a misconfigured
deployment rejects admin requests instead of accepting everything.

# Session Tokens

Session tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateSessionToken()

Tokens are URL-safe base64 encoded without padding. One is issued per
successful fingerprint authentication and deleted when the ballot is
cast, making it single-use.

# Voter Identifiers

External voter identifiers follow the V%06d convention:

	auth.FormatVoterID(7)        // "V000007"
	auth.NextVoterID("V000007")  // "V000008"

NextVoterID restarts the sequence at V000001 when the previous
identifier is missing or unparseable.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
