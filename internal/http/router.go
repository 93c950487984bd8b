package http

import (
	"net/http"
	"time"

	"wedding-backend/internal/handlers"
	"wedding-backend/internal/middleware"
	"wedding-backend/internal/realtime"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Auth         *handlers.AuthHandler
	Household    *handlers.HouseholdHandler
	Guest        *handlers.GuestHandler
	Event        *handlers.EventHandler
	RSVP         *handlers.RSVPHandler
	Roster       *handlers.RosterHandler
	Contribution *handlers.ContributionHandler
	Photo        *handlers.PhotoHandler
	AuditLog     *handlers.AuditLogHandler
	Health       *handlers.HealthHandler
}

// NewRouter builds the full route table. Public endpoints carry rate limits
// on anything that accepts an invitation code or credentials; everything
// under /api/admin requires a valid token and the admin role.
func NewRouter(h Handlers, authMW *middleware.AuthMiddleware, hub *realtime.Hub, photoDir string) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Metrics)

	// Code guessing and credential stuffing get slowed down hard
	resolveLimiter := middleware.NewRateLimiter(20, time.Minute)
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Public API
	r.Handle("/api/invitations/resolve",
		resolveLimiter.Middleware(http.HandlerFunc(h.RSVP.Resolve))).Methods(http.MethodPost)
	r.Handle("/api/rsvp/{code}",
		resolveLimiter.Middleware(http.HandlerFunc(h.RSVP.HouseholdView))).Methods(http.MethodGet)
	r.HandleFunc("/api/rsvp", h.RSVP.Submit).Methods(http.MethodPost)
	r.HandleFunc("/api/events", h.Event.List).Methods(http.MethodGet)
	r.HandleFunc("/api/contributions", h.Contribution.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/photos", h.Photo.List).Methods(http.MethodGet)

	r.Handle("/api/auth/login",
		loginLimiter.Middleware(http.HandlerFunc(h.Auth.Login))).Methods(http.MethodPost)
	r.Handle("/api/auth/logout",
		authMW.RequireAuth(http.HandlerFunc(h.Auth.Logout))).Methods(http.MethodPost)

	// Operational endpoints
	r.HandleFunc("/health", h.Health.Check).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Realtime change feed for the admin dashboard
	r.Handle("/api/realtime", authMW.RequireAuth(http.HandlerFunc(hub.ServeWS)))

	// Admin API
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(authMW.RequireAuth, authMW.RequireAdmin)

	admin.HandleFunc("/me", h.Auth.Me).Methods(http.MethodGet)
	admin.HandleFunc("/health", h.Health.Detailed).Methods(http.MethodGet)

	admin.HandleFunc("/households", h.Household.List).Methods(http.MethodGet)
	admin.HandleFunc("/households", h.Household.Create).Methods(http.MethodPost)
	admin.HandleFunc("/households/duplicates", h.Household.Duplicates).Methods(http.MethodGet)
	admin.HandleFunc("/households/consolidate", h.Household.Consolidate).Methods(http.MethodPost)
	admin.HandleFunc("/households/{id:[0-9]+}", h.Household.Get).Methods(http.MethodGet)
	admin.HandleFunc("/households/{id:[0-9]+}", h.Household.Update).Methods(http.MethodPut)
	admin.HandleFunc("/households/{id:[0-9]+}", h.Household.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/guests", h.Guest.List).Methods(http.MethodGet)
	admin.HandleFunc("/guests", h.Guest.Create).Methods(http.MethodPost)
	admin.HandleFunc("/guests/bulk-delete", h.Guest.BulkDelete).Methods(http.MethodPost)
	admin.HandleFunc("/guests/{id:[0-9]+}", h.Guest.Get).Methods(http.MethodGet)
	admin.HandleFunc("/guests/{id:[0-9]+}", h.Guest.Update).Methods(http.MethodPut)
	admin.HandleFunc("/guests/{id:[0-9]+}", h.Guest.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/events", h.Event.Create).Methods(http.MethodPost)
	admin.HandleFunc("/events/{id:[0-9]+}", h.Event.Get).Methods(http.MethodGet)
	admin.HandleFunc("/events/{id:[0-9]+}", h.Event.Update).Methods(http.MethodPut)
	admin.HandleFunc("/events/{id:[0-9]+}", h.Event.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/rsvps", h.RSVP.SetStatus).Methods(http.MethodPost)
	admin.HandleFunc("/rsvps", h.RSVP.Remove).Methods(http.MethodDelete)
	admin.HandleFunc("/events/{eventId:[0-9]+}/rsvps", h.RSVP.ListByEvent).Methods(http.MethodGet)

	admin.HandleFunc("/roster/upload", h.Roster.Upload).Methods(http.MethodPost)

	admin.HandleFunc("/contributions", h.Contribution.List).Methods(http.MethodGet)

	admin.HandleFunc("/photos", h.Photo.Upload).Methods(http.MethodPost)
	admin.HandleFunc("/photos", h.Photo.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/audit-logs", h.AuditLog.List).Methods(http.MethodGet)

	// Local storage serves the gallery directly; behind a CDN for s3
	if photoDir != "" {
		r.PathPrefix("/photos/").Handler(
			http.StripPrefix("/photos/", http.FileServer(http.Dir(photoDir))))
	}

	return r
}
