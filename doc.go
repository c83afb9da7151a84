// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the fingerprint voting API
server.

The service is the backend of a fingerprint-verified election system:
voters are enrolled with a fingerprint template captured by a dedicated
sensor device, authenticated one-to-many against the enrolled
population, and allowed to cast exactly one ballot.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... ADMIN_KEY=... go run main.go

Or with flags:

	go run main.go -p 8742 -d "postgres://..." -admin-key "..."

A .env file in the working directory is loaded automatically.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string
  - ADMIN_KEY (-admin-key): Shared secret for operator endpoints

Optional settings:

  - PORT (-p): Server port (default: 8742)
  - TRIGGER_TTL_MINUTES (-trigger-ttl): Scan trigger lifetime (default: 5)
  - -quality-floor: Minimum enrollment quality score (default: 30)
  - -match-threshold: Minimum accepted match score (default: 55)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - fingerprint: Template validation, similarity scoring, matching
  - handlers: HTTP request handlers (enroll, auth, triggers, votes, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - metrics: Prometheus counters
  - models: Request/response types
  - auth: Token generation and validation
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
