package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/handler"
	apimiddleware "github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/middleware"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/response"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/events/sse"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/middleware"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/directory"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/session"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/viewstate"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	SessionManager   *session.Manager
	DirectoryService *directory.Service
	ViewStateService *viewstate.Service
	HubManager       *sse.HubManager

	// MetricsHandler serves /metrics when set
	MetricsHandler http.Handler

	// APIToken or APITokenHash, when set, is required as a bearer token
	// on every /api/v1 route except health
	APIToken     string
	APITokenHash string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	seatingHandler := handler.NewSeatingHandler(cfg.SessionManager, cfg.HubManager, cfg.Logger)
	attendeeHandler := handler.NewAttendeeHandler(cfg.DirectoryService, cfg.SessionManager)
	viewStateHandler := handler.NewViewStateHandler(cfg.ViewStateService)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)
	authMiddleware := apimiddleware.BearerToken(apimiddleware.TokenConfig{Token: cfg.APIToken, Hash: cfg.APITokenHash})

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(loggingMiddleware)
	api.Use(recoveryMiddleware)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler(cfg.SessionManager)).Methods(http.MethodGet)

	events := api.PathPrefix("/events/{event}").Subrouter()
	events.Use(authMiddleware)

	// Seating routes
	events.HandleFunc("/seating", seatingHandler.Get).Methods(http.MethodGet)
	events.HandleFunc("/seating/reload", seatingHandler.Reload).Methods(http.MethodPost)
	events.HandleFunc("/seating/assign", seatingHandler.Assign).Methods(http.MethodPost)
	events.HandleFunc("/seating/remove", seatingHandler.Remove).Methods(http.MethodPost)
	events.HandleFunc("/seating/auto-assign", seatingHandler.AutoAssign).Methods(http.MethodPost)
	events.HandleFunc("/seating/clear", seatingHandler.Clear).Methods(http.MethodPost)
	events.HandleFunc("/seating/save", seatingHandler.Save).Methods(http.MethodPost)
	events.HandleFunc("/seating/tables", seatingHandler.AddTable).Methods(http.MethodPost)
	events.HandleFunc("/seating/tables/{table}", seatingHandler.MoveTable).Methods(http.MethodPatch)
	events.HandleFunc("/seating/layout", seatingHandler.GenerateLayout).Methods(http.MethodPost)
	events.HandleFunc("/seating/metadata", seatingHandler.UpdateMetadata).Methods(http.MethodPatch)
	events.HandleFunc("/seating/unassigned", seatingHandler.Unassigned).Methods(http.MethodGet)
	events.HandleFunc("/seating/stream", seatingHandler.Stream).Methods(http.MethodGet)

	// Attendee routes
	events.HandleFunc("/attendees", attendeeHandler.Import).Methods(http.MethodPut)
	events.HandleFunc("/attendees/{attendee}/confirmation", attendeeHandler.SetConfirmation).Methods(http.MethodPatch)

	// View state routes
	events.HandleFunc("/view-state", viewStateHandler.Get).Methods(http.MethodGet)
	events.HandleFunc("/view-state", viewStateHandler.Put).Methods(http.MethodPut)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, response.Health{Status: "ok", ActiveSessions: manager.Count()})
	}
}
