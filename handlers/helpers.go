// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"log/slog"

	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/cliparse"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/fingerprint"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/models"
)

var errEmptyTemplate = errors.New("empty template")

// decodeTemplate decodes a submitted template blob. The sensor device
// sends base64; older operator tooling sends hex. Hex is tried first
// so that an all-hex payload is never misread as base64.
func decodeTemplate(s string) ([]byte, error) {
	if s == "" {
		return nil, errEmptyTemplate
	}

	if b, err := hex.DecodeString(s); err == nil {
		return b, nil
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, errEmptyTemplate
	}
	return b, nil
}

// logActivity appends an audit row. Logging failures are reported but
// never fail the request that triggered them.
func logActivity(db *sql.DB, action string) {
	_, err := db.Exec(`
		INSERT INTO activity_log (action) VALUES ($1)
	`, action)
	if err != nil {
		slog.Warn("failed to write activity log", "error", err, "action", action)
	}
}

// loadEnrolledTemplates returns every voter-linked template in
// first-enrolled order. Unassigned temporary captures are excluded
// from the matching population.
func loadEnrolledTemplates(db *sql.DB) ([]fingerprint.StoredTemplate, error) {
	rows, err := db.Query(`
		SELECT id, voter_id, template
		FROM fingerprint_template
		WHERE voter_id IS NOT NULL
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stored []fingerprint.StoredTemplate
	for rows.Next() {
		var t fingerprint.StoredTemplate
		if err := rows.Scan(&t.ID, &t.VoterID, &t.Data); err != nil {
			// One unreadable row must not block matching for everyone.
			slog.Warn("skipping unreadable template row", "error", err)
			continue
		}
		stored = append(stored, t)
	}

	return stored, rows.Err()
}

// lookupVoterByExternalID resolves an external voter identifier
// (e.g. "V000001") to the internal row id.
func lookupVoterByExternalID(db *sql.DB, voterID string) (string, error) {
	var id string
	err := db.QueryRow(`
		SELECT id FROM voter WHERE voter_id = $1
	`, voterID).Scan(&id)
	return id, err
}

// matchOutcome is the result of running a captured template against
// the enrolled population on behalf of a trigger or an authentication
// request.
type matchOutcome struct {
	status     string
	voterRowID string
	voterName  string
	score      float64
	matchType  string
	message    string
}

// matchAgainstEnrolled identifies a captured template. The caller gets
// a terminal status: success, already_voted, or not_found.
func matchAgainstEnrolled(db *sql.DB, cfg cliparse.Config, tmpl []byte) (matchOutcome, error) {
	stored, err := loadEnrolledTemplates(db)
	if err != nil {
		return matchOutcome{}, err
	}

	result := fingerprint.Match(tmpl, stored)
	if !result.Matched || result.Score < cfg.MatchThreshold {
		return matchOutcome{
			status:    models.TriggerNotFound,
			score:     result.Score,
			matchType: result.MatchType,
			message:   "no matching voter",
		}, nil
	}

	var name string
	var hasVoted bool
	err = db.QueryRow(`
		SELECT name, has_voted FROM voter WHERE id = $1
	`, result.VoterID).Scan(&name, &hasVoted)
	if err == sql.ErrNoRows {
		// Template row outlived its voter.
		return matchOutcome{
			status:    models.TriggerNotFound,
			score:     result.Score,
			matchType: result.MatchType,
			message:   "matched template has no voter",
		}, nil
	}
	if err != nil {
		return matchOutcome{}, err
	}

	if hasVoted {
		return matchOutcome{
			status:     models.TriggerAlreadyVoted,
			voterRowID: result.VoterID,
			voterName:  name,
			score:      result.Score,
			matchType:  result.MatchType,
			message:    "voter has already cast a ballot",
		}, nil
	}

	return matchOutcome{
		status:     models.TriggerSuccess,
		voterRowID: result.VoterID,
		voterName:  name,
		score:      result.Score,
		matchType:  result.MatchType,
		message:    "matched " + name,
	}, nil
}

// matchForTrigger is matchAgainstEnrolled with database errors folded
// into a not_found outcome, for call sites that must resolve the
// trigger no matter what.
func matchForTrigger(db *sql.DB, cfg cliparse.Config, tmpl []byte) matchOutcome {
	outcome, err := matchAgainstEnrolled(db, cfg, tmpl)
	if err != nil {
		slog.Error("match failed", "error", err)
		return matchOutcome{status: models.TriggerNotFound, message: "internal error during match"}
	}
	return outcome
}

// resolveTrigger records the outcome of a scan on its trigger row.
func resolveTrigger(db *sql.DB, triggerID, status, voterRowID string, score float64, message string) error {
	var voterRef sql.NullString
	if voterRowID != "" {
		voterRef = sql.NullString{String: voterRowID, Valid: true}
	}

	res, err := db.Exec(`
		UPDATE scan_trigger
		SET result_status = $1, result_voter_id = $2, result_score = $3, result_message = $4
		WHERE id = $5
	`, status, voterRef, score, message, triggerID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
