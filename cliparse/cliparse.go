package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/DVS-Fingerprint/Digital-Voting-System-via-Fingerprint/fingerprint"
)

type Config struct {
	Port           int
	DatabaseURL    string
	AdminKey       string
	TriggerTTL     time.Duration
	QualityFloor   float64
	MatchThreshold float64
}

// ParseFlags validates flags, applying env-variable fallbacks
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var ttlMinutes int

	fs := flag.NewFlagSet("fingervote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKey, "admin-key", "", "Admin API key (prefer env)")

	// Matching knobs
	fs.IntVar(&ttlMinutes, "trigger-ttl", 0, "Scan trigger lifetime in minutes")
	fs.Float64Var(&cfg.QualityFloor, "quality-floor", 0, "Minimum enrollment quality score")
	fs.Float64Var(&cfg.MatchThreshold, "match-threshold", 0, "Minimum accepted match score")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8742 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	// Secrets - MUST be provided
	if cfg.AdminKey == "" {
		cfg.AdminKey = os.Getenv("ADMIN_KEY")
	}
	if cfg.AdminKey == "" {
		return Config{}, errors.New("ADMIN_KEY required")
	}

	if ttlMinutes == 0 {
		if s := os.Getenv("TRIGGER_TTL_MINUTES"); s != "" {
			m, err := strconv.Atoi(s)
			if err != nil || m < 1 {
				return Config{}, errors.New("invalid TRIGGER_TTL_MINUTES env variable")
			}
			ttlMinutes = m
		} else {
			ttlMinutes = 5
		}
	}
	cfg.TriggerTTL = time.Duration(ttlMinutes) * time.Minute

	if cfg.QualityFloor == 0 {
		cfg.QualityFloor = fingerprint.DefaultQualityFloor
	}
	if cfg.MatchThreshold == 0 {
		cfg.MatchThreshold = fingerprint.DefaultMatchThreshold
	}

	return cfg, nil
}
