// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/auth"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/cliparse"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/fingerprint"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/metrics"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/middleware"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/models"
)

type AuthHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// Authenticate handles POST /api/authenticate
// Identifies a live capture against the enrolled population and, on
// success, issues a single-use session token for ballot casting.
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req models.AuthenticateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	tmpl, err := decodeTemplate(req.Template)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "template must be hex or base64 encoded")
		return
	}

	outcome, err := matchAgainstEnrolled(h.db, h.cfg, tmpl)
	if err != nil {
		slog.Error("authentication match failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	switch outcome.status {
	case models.TriggerSuccess:
		token, err := auth.GenerateSessionToken()
		if err != nil {
			slog.Error("failed to generate session token", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
			return
		}

		if _, err := h.db.Exec(`
			INSERT INTO voter_session (token, voter_id) VALUES ($1, $2)
		`, token, outcome.voterRowID); err != nil {
			slog.Error("failed to store session", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
			return
		}

		metrics.Authentications.WithLabelValues(models.StatusAuthenticated).Inc()
		slog.Info("voter authenticated", "voter", outcome.voterRowID, "score", outcome.score, "match_type", outcome.matchType)
		logActivity(h.db, "Authenticated "+outcome.voterName)

		middleware.JSONResponse(w, http.StatusOK, models.AuthenticateResponse{
			Status:          models.StatusAuthenticated,
			VoterName:       outcome.voterName,
			Score:           outcome.score,
			MatchType:       outcome.matchType,
			ConfidenceLevel: models.ConfidenceLevel(outcome.matchType),
			SessionToken:    token,
		})

	case models.TriggerAlreadyVoted:
		metrics.Authentications.WithLabelValues(models.StatusAlreadyVoted).Inc()
		slog.Info("repeat authentication by voted voter", "voter", outcome.voterRowID, "score", outcome.score)
		logActivity(h.db, "Rejected repeat authentication by "+outcome.voterName)

		middleware.JSONResponse(w, http.StatusConflict, models.AuthenticateResponse{
			Status:          models.StatusAlreadyVoted,
			VoterName:       outcome.voterName,
			Score:           outcome.score,
			MatchType:       outcome.matchType,
			ConfidenceLevel: models.ConfidenceLevel(outcome.matchType),
		})

	default:
		metrics.Authentications.WithLabelValues(models.StatusNotFound).Inc()
		slog.Info("authentication failed", "score", outcome.score, "ip", middleware.GetClientIP(r))
		logActivity(h.db, "Failed authentication from "+middleware.GetClientIP(r))

		middleware.JSONResponse(w, http.StatusNotFound, models.AuthenticateResponse{
			Status:          models.StatusNotFound,
			Score:           outcome.score,
			MatchType:       outcome.matchType,
			ConfidenceLevel: models.ConfidenceLevel(outcome.matchType),
		})
	}
}

// VerifyQuality handles POST /api/verify-quality
// Pre-checks a capture so the operator can re-scan immediately instead
// of discovering a bad template at enrollment time.
func (h *AuthHandler) VerifyQuality(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyQualityRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	tmpl, err := decodeTemplate(req.Template)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "template must be hex or base64 encoded")
		return
	}

	resp := models.VerifyQualityResponse{
		Quality: fingerprint.QualityScore(tmpl),
	}

	if err := fingerprint.ValidateTemplate(tmpl); err != nil {
		resp.Reason = err.Error()
	} else if resp.Quality < h.cfg.QualityFloor {
		resp.Reason = "quality below enrollment floor"
	} else {
		resp.Valid = true
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// VerifyVoter handles POST /api/verify
// One-to-one check of a capture against a single voter's enrolled
// template.
func (h *AuthHandler) VerifyVoter(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.VoterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	}

	tmpl, err := decodeTemplate(req.Template)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "template must be hex or base64 encoded")
		return
	}

	voterRowID, err := lookupVoterByExternalID(h.db, req.VoterID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
		return
	}
	if err != nil {
		slog.Error("failed to look up voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var stored []byte
	err = h.db.QueryRow(`
		SELECT template FROM fingerprint_template WHERE voter_id = $1
	`, voterRowID).Scan(&stored)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter has no enrolled template")
		return
	}
	if err != nil {
		slog.Error("failed to load template", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	score := fingerprint.Similarity(tmpl, stored)
	middleware.JSONResponse(w, http.StatusOK, models.VerifyVoterResponse{
		IsMatch: score >= h.cfg.MatchThreshold,
		Score:   score,
	})
}
