// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/auth"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/cliparse"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/metrics"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/middleware"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/models"
)

type VoteHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{db: db, cfg: cfg}
}

// CastBallot handles POST /api/votes
// The whole ballot is applied in one transaction with the voter row
// locked, so two concurrent submissions from the same voter cannot
// both get through: the second blocks on the lock, then sees
// has_voted and is turned away.
func (h *VoteHandler) CastBallot(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Session-Token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Missing session token")
		return
	}

	var req models.CastBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Votes) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "votes must not be empty")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var voterRowID string
	err = tx.QueryRow(`
		SELECT voter_id FROM voter_session WHERE token = $1
	`, token).Scan(&voterRowID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired session")
		return
	}
	if err != nil {
		slog.Error("failed to look up session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Lock the voter row for the rest of the transaction.
	var (
		voterName string
		hasVoted  bool
	)
	err = tx.QueryRow(`
		SELECT name, has_voted FROM voter WHERE id = $1 FOR UPDATE
	`, voterRowID).Scan(&voterName, &hasVoted)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	}
	if err != nil {
		slog.Error("failed to lock voter row", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if hasVoted {
		// Record the attempt outside the doomed transaction.
		tx.Rollback()
		if _, err := h.db.Exec(`
			UPDATE voter SET last_vote_attempt = NOW() WHERE id = $1
		`, voterRowID); err != nil {
			slog.Warn("failed to record vote attempt", "error", err)
		}
		logActivity(h.db, "Double-vote attempt by "+voterName)
		middleware.ErrorResponse(w, http.StatusConflict, "Voter has already cast a ballot")
		return
	}

	var sessionOpen bool
	err = tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM voting_session
			WHERE is_active = TRUE AND start_time <= NOW() AND end_time > NOW()
		)
	`).Scan(&sessionOpen)
	if err != nil {
		slog.Error("failed to check voting session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !sessionOpen {
		middleware.ErrorResponse(w, http.StatusForbidden, "No active voting session")
		return
	}

	accepted := 0
	skipped := 0
	for _, choice := range req.Votes {
		// The candidate must exist and belong to the named post;
		// anything else is skipped, not fatal.
		var ok bool
		err := tx.QueryRow(`
			SELECT EXISTS(
				SELECT 1 FROM candidate WHERE id = $1 AND post_id = $2
			)
		`, choice.Candidate, choice.Post).Scan(&ok)
		if err != nil {
			slog.Error("failed to check candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !ok {
			skipped++
			continue
		}

		var alreadyVotedPost bool
		err = tx.QueryRow(`
			SELECT EXISTS(
				SELECT 1 FROM vote WHERE voter_id = $1 AND post_id = $2
			)
		`, voterRowID, choice.Post).Scan(&alreadyVotedPost)
		if err != nil {
			slog.Error("failed to check existing vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if alreadyVotedPost {
			skipped++
			continue
		}

		voteID, err := auth.GenerateID(16)
		if err != nil {
			slog.Error("failed to generate vote id", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
			return
		}

		if _, err := tx.Exec(`
			INSERT INTO vote (id, voter_id, post_id, candidate_id)
			VALUES ($1, $2, $3, $4)
		`, voteID, voterRowID, choice.Post, choice.Candidate); err != nil {
			slog.Error("failed to insert vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
			return
		}
		accepted++
	}

	if accepted == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "No valid votes in ballot")
		return
	}

	now := time.Now()
	if _, err := tx.Exec(`
		UPDATE voter SET has_voted = TRUE, last_vote_attempt = $1 WHERE id = $2
	`, now, voterRowID); err != nil {
		slog.Error("failed to mark voter as voted", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	// The token is single-use; it dies with the ballot.
	if _, err := tx.Exec(`
		DELETE FROM voter_session WHERE token = $1
	`, token); err != nil {
		slog.Error("failed to delete session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	metrics.BallotsCast.Inc()
	slog.Info("ballot cast", "voter", voterRowID, "accepted", accepted, "skipped", skipped)
	logActivity(h.db, "Ballot cast by "+voterName)

	middleware.JSONResponse(w, http.StatusCreated, models.CastBallotResponse{
		Status:    "success",
		VoterName: voterName,
		Accepted:  accepted,
		Skipped:   skipped,
		Timestamp: now,
	})
}
