package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts API requests by method, route and status class
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wedding_http_requests_total",
		Help: "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration observes request latency per route
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wedding_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// RosterUploadsTotal counts reconciliation runs by outcome
	RosterUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wedding_roster_uploads_total",
		Help: "Roster reconciliation runs",
	}, []string{"outcome"})

	// RosterGuestsCreated counts guests created by reconciliation runs
	RosterGuestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wedding_roster_guests_created_total",
		Help: "Guests created by roster uploads",
	})

	// RosterGuestsFailed counts guests that failed during reconciliation runs
	RosterGuestsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wedding_roster_guests_failed_total",
		Help: "Guests that failed during roster uploads",
	})

	// RSVPSubmissionsTotal counts self-serve RSVP answers by status
	RSVPSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wedding_rsvp_submissions_total",
		Help: "Self-serve RSVP submissions",
	}, []string{"status"})

	// InvitationResolvesTotal counts invitation-code lookups by outcome
	InvitationResolvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wedding_invitation_resolves_total",
		Help: "Invitation code resolution attempts",
	}, []string{"outcome"})

	// RealtimeClients tracks connected websocket subscribers
	RealtimeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wedding_realtime_clients",
		Help: "Connected realtime subscribers",
	})
)
