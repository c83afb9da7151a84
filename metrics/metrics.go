// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics registers the service's prometheus collectors and
// exposes the /metrics handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricNamePrefix = "fingervote_"

var (
	// RequestsTotal counts handled HTTP requests.
	RequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: metricNamePrefix + "http_requests_total",
		Help: "Total number of HTTP requests handled",
	})

	// Authentications counts fingerprint authentication attempts by
	// outcome (authenticated, already_voted, not_found).
	Authentications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: metricNamePrefix + "authentications_total",
		Help: "Total fingerprint authentication attempts by outcome",
	}, []string{"status"})

	// BallotsCast counts successfully committed ballots.
	BallotsCast = promauto.NewCounter(prometheus.CounterOpts{
		Name: metricNamePrefix + "ballots_cast_total",
		Help: "Total ballots committed",
	})

	// TriggerPolls counts device polls for pending scan triggers.
	TriggerPolls = promauto.NewCounter(prometheus.CounterOpts{
		Name: metricNamePrefix + "trigger_polls_total",
		Help: "Total scan trigger polls from the sensor device",
	})

	// TemplatesEnrolled counts templates accepted at enrollment.
	TemplatesEnrolled = promauto.NewCounter(prometheus.CounterOpts{
		Name: metricNamePrefix + "templates_enrolled_total",
		Help: "Total fingerprint templates accepted at enrollment",
	})
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
