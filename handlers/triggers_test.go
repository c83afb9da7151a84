// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/models"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/testutil"
)

func TestCreateTrigger(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewTriggerHandler(db, testutil.GetTestConfig())

	testutil.CreateTestVoter(t, db, "V000001", "Alice")

	tests := []struct {
		name           string
		body           interface{}
		headers        map[string]string
		expectedStatus int
	}{
		{
			name:           "match trigger",
			body:           models.CreateTriggerRequest{Action: models.ActionMatch},
			headers:        adminHeaders(),
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "register trigger with voter",
			body:           models.CreateTriggerRequest{Action: models.ActionRegister, VoterID: "V000001"},
			headers:        adminHeaders(),
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "register trigger without voter",
			body:           models.CreateTriggerRequest{Action: models.ActionRegister},
			headers:        adminHeaders(),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "register trigger unknown voter",
			body:           models.CreateTriggerRequest{Action: models.ActionRegister, VoterID: "V009999"},
			headers:        adminHeaders(),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid action",
			body:           models.CreateTriggerRequest{Action: "scan"},
			headers:        adminHeaders(),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing admin key",
			body:           models.CreateTriggerRequest{Action: models.ActionMatch},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/triggers", tt.body, tt.headers)
			w := httptest.NewRecorder()

			handler.Create(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusCreated {
				var resp models.CreateTriggerResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.TriggerID == "" {
					t.Error("Expected non-empty trigger_id")
				}
			}
		})
	}
}

func TestCreateTriggerInvalidatesPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewTriggerHandler(db, testutil.GetTestConfig())

	first := testutil.CreateTestTrigger(t, db, models.ActionMatch, "")

	req := testutil.MakeRequest("POST", "/api/triggers", models.CreateTriggerRequest{
		Action: models.ActionMatch,
	}, adminHeaders())
	w := httptest.NewRecorder()

	handler.Create(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var consumed bool
	if err := db.QueryRow(`
		SELECT consumed FROM scan_trigger WHERE id = $1
	`, first).Scan(&consumed); err != nil {
		t.Fatalf("Failed to read first trigger: %v", err)
	}
	if !consumed {
		t.Error("Creating a new trigger should invalidate the pending one")
	}

	var pending int
	if err := db.QueryRow(`
		SELECT COUNT(*) FROM scan_trigger WHERE consumed = FALSE
	`).Scan(&pending); err != nil {
		t.Fatalf("Failed to count pending triggers: %v", err)
	}
	if pending != 1 {
		t.Errorf("Expected exactly 1 pending trigger, got %d", pending)
	}
}

func TestPollTrigger(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewTriggerHandler(db, testutil.GetTestConfig())

	// Nothing pending
	w := httptest.NewRecorder()
	handler.Poll(w, testutil.MakeRequest("GET", "/api/triggers/next", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.PollTriggerResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != "none" {
		t.Errorf("Expected status none, got %s", resp.Status)
	}

	voterRowID := testutil.CreateTestVoter(t, db, "V000001", "Alice")
	triggerID := testutil.CreateTestTrigger(t, db, models.ActionRegister, voterRowID)

	// First poll claims the trigger
	w = httptest.NewRecorder()
	handler.Poll(w, testutil.MakeRequest("GET", "/api/triggers/next", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	resp = models.PollTriggerResponse{}
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != "trigger_active" {
		t.Fatalf("Expected status trigger_active, got %s", resp.Status)
	}
	if resp.Trigger == nil {
		t.Fatal("Expected trigger payload")
	}
	if resp.Trigger.TriggerID != triggerID {
		t.Errorf("Expected trigger %s, got %s", triggerID, resp.Trigger.TriggerID)
	}
	if resp.Trigger.Action != models.ActionRegister {
		t.Errorf("Expected action register, got %s", resp.Trigger.Action)
	}
	if resp.Trigger.VoterID != "V000001" {
		t.Errorf("Expected external voter id V000001, got %s", resp.Trigger.VoterID)
	}

	// Second poll finds nothing: the claim is single-use
	w = httptest.NewRecorder()
	handler.Poll(w, testutil.MakeRequest("GET", "/api/triggers/next", nil, nil))

	resp = models.PollTriggerResponse{}
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != "none" {
		t.Errorf("Expected status none after claim, got %s", resp.Status)
	}
}

func TestPollClaimsOldestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewTriggerHandler(db, testutil.GetTestConfig())

	older := testutil.CreateTestTrigger(t, db, models.ActionMatch, "")
	newer := testutil.CreateTestTrigger(t, db, models.ActionMatch, "")
	if _, err := db.Exec(`
		UPDATE scan_trigger SET created_at = NOW() - INTERVAL '1 minute' WHERE id = $1
	`, older); err != nil {
		t.Fatalf("Failed to age trigger: %v", err)
	}

	w := httptest.NewRecorder()
	handler.Poll(w, testutil.MakeRequest("GET", "/api/triggers/next", nil, nil))

	var resp models.PollTriggerResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Trigger == nil || resp.Trigger.TriggerID != older {
		t.Errorf("Expected oldest trigger %s first, got %+v", older, resp.Trigger)
	}
	_ = newer
}

func TestPollSkipsExpiredTriggers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewTriggerHandler(db, cfg)

	triggerID := testutil.CreateTestTrigger(t, db, models.ActionMatch, "")
	if _, err := db.Exec(`
		UPDATE scan_trigger SET created_at = $1 WHERE id = $2
	`, time.Now().Add(-cfg.TriggerTTL-time.Minute), triggerID); err != nil {
		t.Fatalf("Failed to age trigger: %v", err)
	}

	w := httptest.NewRecorder()
	handler.Poll(w, testutil.MakeRequest("GET", "/api/triggers/next", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.PollTriggerResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != "none" {
		t.Errorf("Expected status none for expired trigger, got %s", resp.Status)
	}

	// The expired trigger is retired, not left pending
	var consumed bool
	if err := db.QueryRow(`
		SELECT consumed FROM scan_trigger WHERE id = $1
	`, triggerID).Scan(&consumed); err != nil {
		t.Fatalf("Failed to read trigger: %v", err)
	}
	if !consumed {
		t.Error("Expired trigger should be marked consumed")
	}
}

func TestResolveTrigger(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewTriggerHandler(db, testutil.GetTestConfig())

	testutil.CreateTestVoter(t, db, "V000001", "Alice")
	triggerID := testutil.CreateTestTrigger(t, db, models.ActionMatch, "")

	req := testutil.MakeRequest("POST", "/api/triggers/"+triggerID+"/resolve", models.ResolveTriggerRequest{
		Status:  models.TriggerSuccess,
		VoterID: "V000001",
		Score:   97.5,
		Message: "matched on device",
	}, nil)
	req.SetPathValue("id", triggerID)
	w := httptest.NewRecorder()

	handler.Resolve(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var (
		status  string
		score   float64
		message string
	)
	if err := db.QueryRow(`
		SELECT result_status, result_score, result_message FROM scan_trigger WHERE id = $1
	`, triggerID).Scan(&status, &score, &message); err != nil {
		t.Fatalf("Failed to read trigger: %v", err)
	}
	if status != models.TriggerSuccess {
		t.Errorf("Expected status success, got %s", status)
	}
	if score != 97.5 {
		t.Errorf("Expected score 97.5, got %f", score)
	}
	if message != "matched on device" {
		t.Errorf("Unexpected message: %s", message)
	}
}

func TestResolveTriggerErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewTriggerHandler(db, testutil.GetTestConfig())

	triggerID := testutil.CreateTestTrigger(t, db, models.ActionMatch, "")

	tests := []struct {
		name           string
		triggerID      string
		body           models.ResolveTriggerRequest
		expectedStatus int
	}{
		{
			name:           "unknown trigger",
			triggerID:      "nonexistent",
			body:           models.ResolveTriggerRequest{Status: models.TriggerNotFound},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid status",
			triggerID:      triggerID,
			body:           models.ResolveTriggerRequest{Status: "maybe"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown result voter",
			triggerID:      triggerID,
			body:           models.ResolveTriggerRequest{Status: models.TriggerSuccess, VoterID: "V009999"},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/triggers/"+tt.triggerID+"/resolve", tt.body, nil)
			req.SetPathValue("id", tt.triggerID)
			w := httptest.NewRecorder()

			handler.Resolve(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestGetTriggerResult(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewTriggerHandler(db, cfg)

	voterRowID := testutil.CreateTestVoter(t, db, "V000001", "Alice")

	pending := testutil.CreateTestTrigger(t, db, models.ActionMatch, "")

	resolved := testutil.CreateTestTrigger(t, db, models.ActionMatch, "")
	if _, err := db.Exec(`
		UPDATE scan_trigger
		SET result_status = 'success', result_voter_id = $1, result_score = 91.2, result_message = 'ok'
		WHERE id = $2
	`, voterRowID, resolved); err != nil {
		t.Fatalf("Failed to resolve trigger: %v", err)
	}

	expired := testutil.CreateTestTrigger(t, db, models.ActionMatch, "")
	if _, err := db.Exec(`
		UPDATE scan_trigger SET created_at = $1 WHERE id = $2
	`, time.Now().Add(-cfg.TriggerTTL-time.Minute), expired); err != nil {
		t.Fatalf("Failed to age trigger: %v", err)
	}

	tests := []struct {
		name       string
		triggerID  string
		wantStatus string
		wantVoter  string
	}{
		{"pending trigger", pending, models.TriggerPending, ""},
		{"resolved trigger", resolved, models.TriggerSuccess, "Alice"},
		{"expired trigger", expired, models.TriggerExpired, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/api/triggers/"+tt.triggerID, nil, adminHeaders())
			req.SetPathValue("id", tt.triggerID)
			w := httptest.NewRecorder()

			handler.GetResult(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)

			var resp models.TriggerResultResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Status != tt.wantStatus {
				t.Errorf("Expected status %s, got %s", tt.wantStatus, resp.Status)
			}
			if resp.VoterName != tt.wantVoter {
				t.Errorf("Expected voter name %q, got %q", tt.wantVoter, resp.VoterName)
			}
		})
	}

	t.Run("unknown trigger", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/triggers/nonexistent", nil, adminHeaders())
		req.SetPathValue("id", "nonexistent")
		w := httptest.NewRecorder()

		handler.GetResult(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("missing admin key", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/triggers/"+pending, nil, nil)
		req.SetPathValue("id", pending)
		w := httptest.NewRecorder()

		handler.GetResult(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("result poll has no side effects", func(t *testing.T) {
		// Polling the expired trigger must not mutate the row
		var resultStatus *string
		if err := db.QueryRow(`
			SELECT result_status FROM scan_trigger WHERE id = $1
		`, expired).Scan(&resultStatus); err != nil {
			t.Fatalf("Failed to read trigger: %v", err)
		}
		if resultStatus != nil {
			t.Errorf("Expired trigger should have no stored result, got %s", *resultStatus)
		}
	})
}
