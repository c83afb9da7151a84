// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Voters
CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    fingerprint_id TEXT UNIQUE,
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    last_vote_attempt TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_voter_voter_id ON voter(voter_id);
CREATE INDEX IF NOT EXISTS idx_voter_fingerprint_id ON voter(fingerprint_id);

-- Fingerprint templates (at most one active row per enrolled voter;
-- rows with a NULL voter are temporary captures awaiting enrollment)
CREATE TABLE IF NOT EXISTS fingerprint_template (
    id TEXT PRIMARY KEY,
    voter_id TEXT REFERENCES voter(id) ON DELETE CASCADE,
    template BYTEA NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_template_voter_id ON fingerprint_template(voter_id);

-- Posts (contests)
CREATE TABLE IF NOT EXISTS post (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT
);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    post_id TEXT NOT NULL REFERENCES post(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    bio TEXT
);

CREATE INDEX IF NOT EXISTS idx_candidate_post_id ON candidate(post_id);

-- Votes: one ballot row per (voter, post), enforced here and not only
-- by application-level pre-checks
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL REFERENCES voter(id) ON DELETE CASCADE,
    post_id TEXT NOT NULL REFERENCES post(id) ON DELETE CASCADE,
    candidate_id TEXT NOT NULL REFERENCES candidate(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (voter_id, post_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_voter_id ON vote(voter_id);
CREATE INDEX IF NOT EXISTS idx_vote_candidate_id ON vote(candidate_id);

-- Voting sessions
CREATE TABLE IF NOT EXISTS voting_session (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    start_time TIMESTAMP NOT NULL,
    end_time TIMESTAMP NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);

-- Scan triggers: single-use work items claimed by the sensor device
CREATE TABLE IF NOT EXISTS scan_trigger (
    id TEXT PRIMARY KEY,
    action TEXT NOT NULL CHECK (action IN ('register', 'match')),
    voter_id TEXT REFERENCES voter(id) ON DELETE CASCADE,
    consumed BOOLEAN NOT NULL DEFAULT FALSE,
    result_status TEXT CHECK (result_status IN ('success', 'already_voted', 'not_found')),
    result_voter_id TEXT REFERENCES voter(id) ON DELETE SET NULL,
    result_score REAL,
    result_message TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_scan_trigger_pending ON scan_trigger(consumed, created_at);

-- Voter sessions issued on successful fingerprint authentication
CREATE TABLE IF NOT EXISTS voter_session (
    token TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL REFERENCES voter(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_voter_session_voter ON voter_session(voter_id);

-- Activity log
CREATE TABLE IF NOT EXISTS activity_log (
    id SERIAL PRIMARY KEY,
    action TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
`
