// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/justinas/alice"

	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/cliparse"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/handlers"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/metrics"
	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	enrollHandler := handlers.NewEnrollHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(db, cfg)
	triggerHandler := handlers.NewTriggerHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", metrics.Handler())

	// Voter enrollment (admin operations)
	mux.HandleFunc("POST /api/voters", middleware.WithLogging(enrollHandler.CreateVoter))
	mux.HandleFunc("POST /api/check-duplicate", middleware.WithLogging(enrollHandler.CheckDuplicate))

	// Template submission (sensor device)
	mux.HandleFunc("POST /api/templates", middleware.WithLogging(enrollHandler.UploadTemplate))

	// Authentication
	mux.HandleFunc("POST /api/authenticate", middleware.WithLogging(authHandler.Authenticate))
	mux.HandleFunc("POST /api/verify-quality", middleware.WithLogging(authHandler.VerifyQuality))
	mux.HandleFunc("POST /api/verify", middleware.WithLogging(authHandler.VerifyVoter))

	// Scan triggers
	mux.HandleFunc("POST /api/triggers", middleware.WithLogging(triggerHandler.Create))
	mux.HandleFunc("GET /api/triggers/next", middleware.WithLogging(triggerHandler.Poll))
	mux.HandleFunc("POST /api/triggers/{id}/resolve", middleware.WithLogging(triggerHandler.Resolve))
	mux.HandleFunc("GET /api/triggers/{id}", middleware.WithLogging(triggerHandler.GetResult))

	// Voting
	mux.HandleFunc("POST /api/votes", middleware.WithLogging(voteHandler.CastBallot))

	// Results and administration
	mux.HandleFunc("GET /api/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /api/dashboard", middleware.WithLogging(resultsHandler.GetDashboard))
	mux.HandleFunc("POST /api/sessions", middleware.WithLogging(resultsHandler.CreateSession))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fingerprint voting API v1"))
	})

	return alice.New(middleware.CORS).Then(mux)
}
