// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8742)
  - DatabaseURL: PostgreSQL connection string (required)
  - AdminKey: Shared secret for operator endpoints (required)
  - TriggerTTL: Scan trigger lifetime (default: 5m)
  - QualityFloor: Minimum enrollment quality score (default: 30)
  - MatchThreshold: Minimum accepted match score (default: 55)

# CLI Flags

	-p               Server port
	-d               Database URL
	-admin-key       Admin API key
	-trigger-ttl     Trigger lifetime in minutes
	-quality-floor   Enrollment quality floor
	-match-threshold Match acceptance threshold

# Environment Variables

Flags fall back to environment variables:

	PORT                → -p
	DATABASE_URL        → -d
	ADMIN_KEY           → -admin-key
	TRIGGER_TTL_MINUTES → -trigger-ttl

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - ADMIN_KEY must be provided

# Example

	// In main.go
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	// ...
	handler := router.NewRouter(db, cfg)
*/
package cliparse
