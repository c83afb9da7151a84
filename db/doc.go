// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - voter: Registration records with one-ballot flag
  - fingerprint_template: Enrolled and temporary captures (BYTEA)
  - post: Contests
  - candidate: Options per post
  - vote: One row per (voter, post), UNIQUE constrained
  - voting_session: Active voting windows
  - scan_trigger: Single-use scan work items for the sensor device
  - voter_session: Session tokens issued on authentication
  - activity_log: Append-only audit trail

# Relationships

	voter 1──1 fingerprint_template (enrolled; NULL voter = temporary)
	post 1──* candidate
	voter 1──* vote *──1 candidate
	voter 1──* voter_session
	scan_trigger *──1 voter (register triggers and results)

Foreign keys use ON DELETE CASCADE, except scan_trigger.result_voter_id
which uses ON DELETE SET NULL so resolved triggers survive voter removal.

# Constraints

  - vote UNIQUE (voter_id, post_id): the database backs the
    one-ballot-per-post guarantee, not just the application
  - scan_trigger.action CHECK: register | match
  - scan_trigger.result_status CHECK: success | already_voted | not_found
*/
package db
