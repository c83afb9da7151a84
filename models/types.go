package models

import "time"

// Scan trigger action constants
const (
	ActionRegister = "register"
	ActionMatch    = "match"
)

// Trigger result status constants
const (
	TriggerPending      = "pending"
	TriggerExpired      = "expired"
	TriggerSuccess      = "success"
	TriggerAlreadyVoted = "already_voted"
	TriggerNotFound     = "not_found"
)

// Authentication status constants
const (
	StatusAuthenticated = "authenticated"
	StatusAlreadyVoted  = "already_voted"
	StatusNotFound      = "not_found"
)

// Match type constants (confidence tiers)
const (
	MatchExact  = "exact_match"
	MatchHigh   = "high_confidence"
	MatchMedium = "medium_confidence"
	MatchLow    = "low_confidence"
	MatchNone   = "no_match"
)

// Request types

type CreateVoterRequest struct {
	VoterID       string `json:"voter_id"`
	Name          string `json:"name"`
	FingerprintID string `json:"fingerprint_id"`
}

// template is the base64-encoded raw capture from the sensor
type UploadTemplateRequest struct {
	VoterID   string `json:"voter_id"`
	Template  string `json:"template"`
	TriggerID string `json:"trigger_id"`
}

type AuthenticateRequest struct {
	Template string `json:"template"` // base64 or hex
}

type VerifyQualityRequest struct {
	Template string `json:"template"`
}

type VerifyVoterRequest struct {
	Template string `json:"template"`
	VoterID  string `json:"voter_id"`
}

type CheckDuplicateRequest struct {
	FingerprintID string `json:"fingerprint_id"`
}

type CreateTriggerRequest struct {
	Action  string `json:"action"`
	VoterID string `json:"voter_id"`
}

type ResolveTriggerRequest struct {
	Status  string  `json:"status"`
	VoterID string  `json:"voter_id"`
	Score   float64 `json:"score"`
	Message string  `json:"message"`
}

type BallotChoice struct {
	Post      string `json:"post"`
	Candidate string `json:"candidate"`
}

type CastBallotRequest struct {
	Votes []BallotChoice `json:"votes"`
}

type CreateSessionRequest struct {
	Name  string `json:"name"`
	Hours int    `json:"hours"`
}

// Response types

type CreateVoterResponse struct {
	ID      string `json:"id"`
	VoterID string `json:"voter_id"`
}

type UploadTemplateResponse struct {
	Status     string  `json:"status"`
	TemplateID string  `json:"template_id"`
	VoterID    string  `json:"voter_id,omitempty"`
	Quality    float64 `json:"quality_score"`
}

type AuthenticateResponse struct {
	Status          string  `json:"status"`
	VoterName       string  `json:"voter_name,omitempty"`
	Score           float64 `json:"score"`
	MatchType       string  `json:"match_type"`
	ConfidenceLevel string  `json:"confidence_level"`
	SessionToken    string  `json:"session_token,omitempty"`
}

// ConfidenceLevel collapses a match type into the coarse level shown to
// operators.
func ConfidenceLevel(matchType string) string {
	switch matchType {
	case MatchExact, MatchHigh:
		return "high"
	case MatchMedium:
		return "medium"
	default:
		return "low"
	}
}

type VerifyQualityResponse struct {
	Valid   bool    `json:"valid"`
	Quality float64 `json:"quality_score"`
	Reason  string  `json:"reason,omitempty"`
}

type VerifyVoterResponse struct {
	IsMatch bool    `json:"is_match"`
	Score   float64 `json:"score"`
}

type CheckDuplicateResponse struct {
	IsDuplicate bool   `json:"is_duplicate"`
	Message     string `json:"message"`
}

type CreateTriggerResponse struct {
	TriggerID string `json:"trigger_id"`
	Action    string `json:"action"`
}

type ScanTriggerInfo struct {
	TriggerID string `json:"trigger_id"`
	Action    string `json:"action"`
	VoterID   string `json:"voter_id,omitempty"`
}

type PollTriggerResponse struct {
	Status  string           `json:"status"` // "trigger_active" or "none"
	Trigger *ScanTriggerInfo `json:"trigger,omitempty"`
}

type TriggerResultResponse struct {
	Status    string  `json:"status"` // pending, expired, success, already_voted, not_found
	VoterName string  `json:"voter_name,omitempty"`
	Score     float64 `json:"score,omitempty"`
	Message   string  `json:"message,omitempty"`
}

type CastBallotResponse struct {
	Status    string    `json:"status"`
	VoterName string    `json:"voter_name"`
	Accepted  int       `json:"accepted"`
	Skipped   int       `json:"skipped"`
	Timestamp time.Time `json:"timestamp"`
}

type CandidateResult struct {
	Candidate Candidate `json:"candidate"`
	Votes     int       `json:"votes"`
}

type PostResult struct {
	Post       Post              `json:"post"`
	Candidates []CandidateResult `json:"candidates"`
}

type DashboardResponse struct {
	TotalVoters    int            `json:"total_voters"`
	TotalVotes     int            `json:"total_votes"`
	TotalTemplates int            `json:"total_templates"`
	Session        *VotingSession `json:"voting_session"`
}

// Domain types

type Voter struct {
	ID              string     `json:"id"`
	VoterID         string     `json:"voter_id"`
	Name            string     `json:"name"`
	FingerprintID   *string    `json:"fingerprint_id,omitempty"`
	HasVoted        bool       `json:"has_voted"`
	LastVoteAttempt *time.Time `json:"last_vote_attempt,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type Post struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type Candidate struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
	Name   string `json:"name"`
	Bio    string `json:"bio,omitempty"`
}

type VotingSession struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	IsActive  bool      `json:"is_active"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
