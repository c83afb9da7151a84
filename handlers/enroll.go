// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lib/pq"

	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/auth"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/cliparse"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/fingerprint"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/metrics"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/middleware"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/models"
)

type EnrollHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewEnrollHandler(db *sql.DB, cfg cliparse.Config) *EnrollHandler {
	return &EnrollHandler{db: db, cfg: cfg}
}

// CreateVoter handles POST /api/voters
// Creates a voter record, auto-assigning the next sequential voter_id
// when none is supplied.
func (h *EnrollHandler) CreateVoter(w http.ResponseWriter, r *http.Request) {
	if err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), h.cfg.AdminKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.CreateVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	voterID := req.VoterID
	if voterID == "" {
		var last sql.NullString
		err := h.db.QueryRow(`
			SELECT MAX(voter_id) FROM voter WHERE voter_id LIKE 'V%'
		`).Scan(&last)
		if err != nil {
			slog.Error("failed to query last voter id", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		voterID = auth.NextVoterID(last.String)
	}

	id, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate voter row id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create voter")
		return
	}

	var fingerprintID sql.NullString
	if req.FingerprintID != "" {
		fingerprintID = sql.NullString{String: req.FingerprintID, Valid: true}
	}

	_, err = h.db.Exec(`
		INSERT INTO voter (id, voter_id, name, fingerprint_id)
		VALUES ($1, $2, $3, $4)
	`, id, voterID, req.Name, fingerprintID)

	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Voter or fingerprint already registered")
			return
		}
		slog.Error("failed to insert voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create voter")
		return
	}

	slog.Info("voter created", "voter_id", voterID, "name", req.Name)
	logActivity(h.db, "Voter registered: "+voterID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateVoterResponse{
		ID:      id,
		VoterID: voterID,
	})
}

// UploadTemplate handles POST /api/templates
// The sensor device submits a captured template. With a voter_id (or a
// register trigger) the capture becomes the voter's enrolled template,
// replacing any previous one. Without one it is stored as a temporary
// unassigned capture; a match trigger additionally runs authentication
// and records the outcome on the trigger.
func (h *EnrollHandler) UploadTemplate(w http.ResponseWriter, r *http.Request) {
	var req models.UploadTemplateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Template == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "template is required")
		return
	}

	tmpl, err := decodeTemplate(req.Template)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "template must be hex or base64 encoded")
		return
	}

	// A trigger id ties this capture back to the operator action that
	// requested it.
	targetVoter := "" // internal voter row id
	triggerAction := ""
	if req.TriggerID != "" {
		var voterRef sql.NullString
		err := h.db.QueryRow(`
			SELECT action, voter_id FROM scan_trigger WHERE id = $1
		`, req.TriggerID).Scan(&triggerAction, &voterRef)
		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusNotFound, "Trigger not found")
			return
		}
		if err != nil {
			slog.Error("failed to query trigger", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if triggerAction == models.ActionRegister {
			targetVoter = voterRef.String
		}
	}

	if targetVoter == "" && req.VoterID != "" {
		targetVoter, err = lookupVoterByExternalID(h.db, req.VoterID)
		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found")
			return
		}
		if err != nil {
			slog.Error("failed to look up voter", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	if targetVoter != "" {
		h.enrollTemplate(w, r, tmpl, targetVoter, req.TriggerID)
		return
	}

	h.storeTemporaryTemplate(w, r, tmpl, req.TriggerID)
}

// enrollTemplate validates the capture and replaces the voter's active
// template in one transaction.
func (h *EnrollHandler) enrollTemplate(w http.ResponseWriter, r *http.Request, tmpl []byte, voterRowID, triggerID string) {
	if err := fingerprint.ValidateTemplate(tmpl); err != nil {
		logActivity(h.db, "Enrollment rejected (invalid template): "+err.Error())
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid template: "+err.Error())
		return
	}

	quality := fingerprint.QualityScore(tmpl)
	if quality < h.cfg.QualityFloor {
		logActivity(h.db, fmt.Sprintf("Enrollment rejected (quality %.1f below floor)", quality))
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Template quality %.1f below required %.1f", quality, h.cfg.QualityFloor))
		return
	}

	templateID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate template id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store template")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Re-enrollment replaces, never accumulates: a voter has at most
	// one active template.
	if _, err := tx.Exec(`DELETE FROM fingerprint_template WHERE voter_id = $1`, voterRowID); err != nil {
		slog.Error("failed to delete prior templates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store template")
		return
	}

	if _, err := tx.Exec(`
		INSERT INTO fingerprint_template (id, voter_id, template)
		VALUES ($1, $2, $3)
	`, templateID, voterRowID, tmpl); err != nil {
		slog.Error("failed to insert template", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store template")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit enrollment", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store template")
		return
	}

	metrics.TemplatesEnrolled.Inc()
	slog.Info("template enrolled", "voter", voterRowID, "quality", quality)
	logActivity(h.db, "Template enrolled for voter "+voterRowID)

	if triggerID != "" {
		if err := resolveTrigger(h.db, triggerID, models.TriggerSuccess, voterRowID, quality, "template enrolled"); err != nil {
			slog.Warn("failed to resolve register trigger", "error", err, "trigger_id", triggerID)
		}
	}

	middleware.JSONResponse(w, http.StatusCreated, models.UploadTemplateResponse{
		Status:     "success",
		TemplateID: templateID,
		Quality:    quality,
	})
}

// storeTemporaryTemplate keeps an unassigned capture and, when a match
// trigger is attached, runs authentication and records its outcome.
func (h *EnrollHandler) storeTemporaryTemplate(w http.ResponseWriter, r *http.Request, tmpl []byte, triggerID string) {
	templateID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate template id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store template")
		return
	}

	if _, err := h.db.Exec(`
		INSERT INTO fingerprint_template (id, voter_id, template)
		VALUES ($1, NULL, $2)
	`, templateID, tmpl); err != nil {
		slog.Error("failed to insert temporary template", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store template")
		return
	}

	if triggerID != "" {
		outcome := matchForTrigger(h.db, h.cfg, tmpl)
		if err := resolveTrigger(h.db, triggerID, outcome.status, outcome.voterRowID, outcome.score, outcome.message); err != nil {
			slog.Warn("failed to resolve match trigger", "error", err, "trigger_id", triggerID)
		}
	}

	middleware.JSONResponse(w, http.StatusCreated, models.UploadTemplateResponse{
		Status:     "success",
		TemplateID: templateID,
		Quality:    fingerprint.QualityScore(tmpl),
	})
}

// CheckDuplicate handles POST /api/check-duplicate
// Reports whether a hardware fingerprint id is already registered.
func (h *EnrollHandler) CheckDuplicate(w http.ResponseWriter, r *http.Request) {
	var req models.CheckDuplicateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.FingerprintID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "fingerprint_id is required")
		return
	}

	var exists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM voter WHERE fingerprint_id = $1)
	`, req.FingerprintID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check fingerprint id", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	message := "Fingerprint is unique"
	if exists {
		message = "Fingerprint already registered"
	}

	middleware.JSONResponse(w, http.StatusOK, models.CheckDuplicateResponse{
		IsDuplicate: exists,
		Message:     message,
	})
}

// isUniqueViolation reports whether a database error is a unique
// constraint failure (postgres error code 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
