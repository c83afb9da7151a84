// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/auth"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/cliparse"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/metrics"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/middleware"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/models"
)

type TriggerHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewTriggerHandler(db *sql.DB, cfg cliparse.Config) *TriggerHandler {
	return &TriggerHandler{db: db, cfg: cfg}
}

// Create handles POST /api/triggers
// An operator requests a scan from the sensor device. Only one trigger
// may be pending at a time, so every pending trigger is invalidated
// before the new one is inserted.
func (h *TriggerHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), h.cfg.AdminKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.CreateTriggerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Action != models.ActionRegister && req.Action != models.ActionMatch {
		middleware.ErrorResponse(w, http.StatusBadRequest, "action must be register or match")
		return
	}

	var voterRef sql.NullString
	if req.Action == models.ActionRegister {
		if req.VoterID == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "register trigger requires voter_id")
			return
		}
		rowID, err := lookupVoterByExternalID(h.db, req.VoterID)
		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
			return
		}
		if err != nil {
			slog.Error("failed to look up voter", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		voterRef = sql.NullString{String: rowID, Valid: true}
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		UPDATE scan_trigger SET consumed = TRUE WHERE consumed = FALSE
	`); err != nil {
		slog.Error("failed to invalidate pending triggers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	triggerID := uuid.NewString()
	if _, err := tx.Exec(`
		INSERT INTO scan_trigger (id, action, voter_id) VALUES ($1, $2, $3)
	`, triggerID, req.Action, voterRef); err != nil {
		slog.Error("failed to insert trigger", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit trigger", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("trigger created", "trigger_id", triggerID, "action", req.Action)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateTriggerResponse{
		TriggerID: triggerID,
		Action:    req.Action,
	})
}

// Poll handles GET /api/triggers/next
// The sensor device polls for work. The oldest unexpired pending
// trigger is claimed in a single statement so that two concurrent
// polls can never receive the same trigger.
func (h *TriggerHandler) Poll(w http.ResponseWriter, r *http.Request) {
	metrics.TriggerPolls.Inc()

	cutoff := time.Now().Add(-h.cfg.TriggerTTL)

	// Expired pending triggers are dead; retire them so the claim
	// below only ever sees live work.
	if _, err := h.db.Exec(`
		UPDATE scan_trigger SET consumed = TRUE
		WHERE consumed = FALSE AND created_at <= $1
	`, cutoff); err != nil {
		slog.Error("failed to retire expired triggers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var (
		triggerID string
		action    string
		voterRef  sql.NullString
	)
	err := h.db.QueryRow(`
		UPDATE scan_trigger SET consumed = TRUE
		WHERE id = (
			SELECT id FROM scan_trigger
			WHERE consumed = FALSE AND created_at > $1
			ORDER BY created_at ASC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, action, voter_id
	`, cutoff).Scan(&triggerID, &action, &voterRef)

	if err == sql.ErrNoRows {
		middleware.JSONResponse(w, http.StatusOK, models.PollTriggerResponse{Status: "none"})
		return
	}
	if err != nil {
		slog.Error("failed to claim trigger", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	info := &models.ScanTriggerInfo{
		TriggerID: triggerID,
		Action:    action,
	}
	if voterRef.Valid {
		// The device wants the external voter id, not our row id.
		var external string
		if err := h.db.QueryRow(`SELECT voter_id FROM voter WHERE id = $1`, voterRef.String).Scan(&external); err == nil {
			info.VoterID = external
		}
	}

	slog.Info("trigger claimed", "trigger_id", triggerID, "action", action)

	middleware.JSONResponse(w, http.StatusOK, models.PollTriggerResponse{
		Status:  "trigger_active",
		Trigger: info,
	})
}

// Resolve handles POST /api/triggers/{id}/resolve
// The device reports the outcome of a claimed scan.
func (h *TriggerHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	triggerID := r.PathValue("id")

	var req models.ResolveTriggerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch req.Status {
	case models.TriggerSuccess, models.TriggerAlreadyVoted, models.TriggerNotFound:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be success, already_voted, or not_found")
		return
	}

	voterRowID := ""
	if req.VoterID != "" {
		rowID, err := lookupVoterByExternalID(h.db, req.VoterID)
		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
			return
		}
		if err != nil {
			slog.Error("failed to look up voter", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		voterRowID = rowID
	}

	err := resolveTrigger(h.db, triggerID, req.Status, voterRowID, req.Score, req.Message)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Trigger not found")
		return
	}
	if err != nil {
		slog.Error("failed to resolve trigger", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("trigger resolved", "trigger_id", triggerID, "status", req.Status)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": "resolved"})
}

// GetResult handles GET /api/triggers/{id}
// The operator console polls here after creating a trigger. Purely a
// read: expiry is reported, never written, so polling has no side
// effects.
func (h *TriggerHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	if err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), h.cfg.AdminKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	triggerID := r.PathValue("id")

	var (
		resultStatus sql.NullString
		resultVoter  sql.NullString
		resultScore  sql.NullFloat64
		resultMsg    sql.NullString
		createdAt    time.Time
	)
	err := h.db.QueryRow(`
		SELECT t.result_status, v.name, t.result_score, t.result_message, t.created_at
		FROM scan_trigger t
		LEFT JOIN voter v ON v.id = t.result_voter_id
		WHERE t.id = $1
	`, triggerID).Scan(&resultStatus, &resultVoter, &resultScore, &resultMsg, &createdAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Trigger not found")
		return
	}
	if err != nil {
		slog.Error("failed to query trigger result", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.TriggerResultResponse{Status: models.TriggerPending}
	if resultStatus.Valid {
		resp.Status = resultStatus.String
		resp.VoterName = resultVoter.String
		resp.Score = resultScore.Float64
		resp.Message = resultMsg.String
	} else if time.Since(createdAt) > h.cfg.TriggerTTL {
		resp.Status = models.TriggerExpired
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
