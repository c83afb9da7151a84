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
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/middleware"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/models"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// GetResults handles GET /api/results
// Returns vote tallies per post, every candidate included even at
// zero votes.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT p.id, p.title, COALESCE(p.description, ''),
		       c.id, c.name, COALESCE(c.bio, ''),
		       COUNT(v.id)
		FROM post p
		JOIN candidate c ON c.post_id = p.id
		LEFT JOIN vote v ON v.candidate_id = c.id
		GROUP BY p.id, p.title, p.description, c.id, c.name, c.bio
		ORDER BY p.title, c.name
	`)
	if err != nil {
		slog.Error("failed to query results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	results := []models.PostResult{}
	index := map[string]int{}

	for rows.Next() {
		var (
			post      models.Post
			candidate models.Candidate
			votes     int
		)
		if err := rows.Scan(&post.ID, &post.Title, &post.Description,
			&candidate.ID, &candidate.Name, &candidate.Bio, &votes); err != nil {
			slog.Error("failed to scan result row", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		candidate.PostID = post.ID

		i, seen := index[post.ID]
		if !seen {
			i = len(results)
			index[post.ID] = i
			results = append(results, models.PostResult{Post: post})
		}
		results[i].Candidates = append(results[i].Candidates, models.CandidateResult{
			Candidate: candidate,
			Votes:     votes,
		})
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read result rows", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetDashboard handles GET /api/dashboard
func (h *ResultsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	var resp models.DashboardResponse

	err := h.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM voter),
			(SELECT COUNT(*) FROM vote),
			(SELECT COUNT(*) FROM fingerprint_template WHERE voter_id IS NOT NULL)
	`).Scan(&resp.TotalVoters, &resp.TotalVotes, &resp.TotalTemplates)
	if err != nil {
		slog.Error("failed to query dashboard counts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var session models.VotingSession
	err = h.db.QueryRow(`
		SELECT id, name, start_time, end_time, is_active
		FROM voting_session
		WHERE is_active = TRUE AND start_time <= NOW() AND end_time > NOW()
		ORDER BY start_time DESC
		LIMIT 1
	`).Scan(&session.ID, &session.Name, &session.StartTime, &session.EndTime, &session.IsActive)
	if err == nil {
		resp.Session = &session
	} else if err != sql.ErrNoRows {
		slog.Error("failed to query voting session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// CreateSession handles POST /api/sessions
// Opens a new voting window. Any session still marked active is
// closed first; exactly one session may be active.
func (h *ResultsHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), h.cfg.AdminKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Hours <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "hours must be positive")
		return
	}

	id, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate session id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		UPDATE voting_session SET is_active = FALSE WHERE is_active = TRUE
	`); err != nil {
		slog.Error("failed to deactivate sessions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	start := time.Now()
	end := start.Add(time.Duration(req.Hours) * time.Hour)

	if _, err := tx.Exec(`
		INSERT INTO voting_session (id, name, start_time, end_time, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`, id, req.Name, start, end); err != nil {
		slog.Error("failed to insert session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("voting session opened", "name", req.Name, "until", end)

	middleware.JSONResponse(w, http.StatusCreated, models.VotingSession{
		ID:        id,
		Name:      req.Name,
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	})
}
