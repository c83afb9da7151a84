// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the fingerprint
voting API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - EnrollHandler: Voter creation and template enrollment
  - AuthHandler: Fingerprint authentication and verification
  - TriggerHandler: Scan trigger lifecycle for the sensor device
  - VoteHandler: Ballot casting
  - ResultsHandler: Tallies, dashboard, and voting sessions

Handlers are created via constructor functions that accept *sql.DB and Config:

	enrollHandler := handlers.NewEnrollHandler(db, cfg)

# Enrollment Flow

An operator registers a voter, requests a scan, and the sensor device
delivers the capture:

	POST /api/voters         → CreateVoter (admin, auto voter_id)
	POST /api/triggers       → Create register trigger (admin)
	GET  /api/triggers/next  → device claims the trigger
	POST /api/templates      → device submits the capture

A capture bound to a register trigger (or an explicit voter_id) is
validated, scored for quality, and becomes the voter's single active
template. Unbound captures are stored as temporary rows with a NULL
voter.

# Authentication Flow

A live capture is matched one-to-many against every enrolled template:

	POST /api/authenticate → authenticated / already_voted / not_found

On authenticated, a single-use session token is issued. The token is
spent by ballot submission:

	POST /api/votes (X-Session-Token)

# Exactly-Once Semantics

Two properties are enforced in the database rather than in memory:

  - A pending scan trigger is claimed by at most one device poll.
    The claim is a single UPDATE over a FOR UPDATE SKIP LOCKED
    subselect.
  - A voter casts at most one ballot. CastBallot locks the voter row
    FOR UPDATE before checking has_voted, and UNIQUE(voter_id,
    post_id) on the vote table backs the application check.
*/
package handlers
