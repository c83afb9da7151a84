// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateVoterRequest: voter_id (optional), name, fingerprint_id
  - UploadTemplateRequest: voter_id, template (base64/hex), trigger_id
  - AuthenticateRequest: template
  - VerifyQualityRequest: template
  - VerifyVoterRequest: template, voter_id
  - CheckDuplicateRequest: fingerprint_id
  - CreateTriggerRequest: action, voter_id
  - ResolveTriggerRequest: status, voter_id, score, message
  - CastBallotRequest: votes ([]BallotChoice)
  - CreateSessionRequest: name, hours

# Response Types

Types for JSON responses:

  - CreateVoterResponse: id, voter_id
  - UploadTemplateResponse: status, template_id, quality_score
  - AuthenticateResponse: status, voter_name, score, match_type, session_token
  - VerifyQualityResponse: valid, quality_score, reason
  - VerifyVoterResponse: is_match, score
  - CheckDuplicateResponse: is_duplicate, message
  - CreateTriggerResponse: trigger_id, action
  - PollTriggerResponse: status, trigger
  - TriggerResultResponse: status, voter_name, score, message
  - CastBallotResponse: status, voter_name, accepted, skipped, timestamp
  - PostResult / CandidateResult: tally rows
  - DashboardResponse: totals and active session
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Voter: registration record with has_voted flag
  - Post: a contest being voted on
  - Candidate: an option within a post
  - VotingSession: active voting time window

# Constants

Scan trigger actions:

	ActionRegister = "register"
	ActionMatch    = "match"

Trigger result statuses:

	TriggerPending      = "pending"
	TriggerExpired      = "expired"
	TriggerSuccess      = "success"
	TriggerAlreadyVoted = "already_voted"
	TriggerNotFound     = "not_found"

Authentication statuses:

	StatusAuthenticated = "authenticated"
	StatusAlreadyVoted  = "already_voted"
	StatusNotFound      = "not_found"

Match confidence tiers:

	MatchExact  = "exact_match"
	MatchHigh   = "high_confidence"
	MatchMedium = "medium_confidence"
	MatchLow    = "low_confidence"
	MatchNone   = "no_match"
*/
package models
