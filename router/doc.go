// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the fingerprint voting API.

# Route Registration

NewRouter creates a configured handler with all endpoints behind the
CORS middleware chain:

	handler := router.NewRouter(db, cfg)

# Endpoints

Health and observability:

	GET /health
	GET /metrics

Enrollment (admin, requires X-Admin-Key):

	POST /api/voters          - Create voter
	POST /api/check-duplicate - Check hardware fingerprint id

Sensor device:

	POST /api/templates              - Submit captured template
	GET  /api/triggers/next          - Claim pending scan trigger
	POST /api/triggers/{id}/resolve  - Report scan outcome

Scan triggers (admin):

	POST /api/triggers      - Request a scan
	GET  /api/triggers/{id} - Poll for the outcome

Authentication and voting (public kiosk):

	POST /api/authenticate   - Identify a live capture
	POST /api/verify-quality - Pre-check capture quality
	POST /api/verify         - One-to-one template check
	POST /api/votes          - Cast ballot (X-Session-Token)

Results:

	GET  /api/results   - Per-post tallies
	GET  /api/dashboard - Totals and active session
	POST /api/sessions  - Open a voting window (admin)

# Handler Initialization

The router creates handler instances with dependency injection:

	enrollHandler := handlers.NewEnrollHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(db, cfg)
	triggerHandler := handlers.NewTriggerHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
