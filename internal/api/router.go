// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/weekgrid/backend/internal/api/handlers"
	"github.com/weekgrid/backend/internal/api/middleware"
	"github.com/weekgrid/backend/internal/calendar"
	"github.com/weekgrid/backend/internal/grid"
	"github.com/weekgrid/backend/internal/schedule"
	"github.com/weekgrid/backend/internal/storage"
	"github.com/weekgrid/backend/internal/websocket"
)

// Services holds the dependencies shared by the API handlers.
type Services struct {
	DB          *storage.DB
	Hub         *websocket.Hub
	Store       *schedule.Store
	Mapper      grid.Mapper
	Broadcaster *websocket.EventBroadcaster
	Journal     *storage.JournalRepository
	Exporter    *calendar.Exporter

	StaticDir string
	Version   string

	// Now is the clock used to pick the default week. Nil means time.Now.
	Now func() time.Time
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(s Services) *mux.Router {
	now := s.Now
	if now == nil {
		now = time.Now
	}

	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	// API subrouter
	api := r.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = http.HandlerFunc(middleware.NotFound)

	// Health endpoint
	api.HandleFunc("/health", handlers.HealthCheck(s.DB, s.Hub, s.Store, s.Version)).Methods("GET")

	// WebSocket endpoint
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(s.Hub, s.Store, s.Mapper, s.Broadcaster)).Methods("GET")

	// Event endpoints
	api.HandleFunc("/events", handlers.ListEvents(s.Store, s.Broadcaster)).Methods("GET")
	api.HandleFunc("/events/{id}/move", handlers.MoveEvent(s.Store, s.Mapper, s.Broadcaster)).Methods("POST")
	api.HandleFunc("/events/{id}/resize", handlers.ResizeEvent(s.Store, s.Mapper, s.Broadcaster)).Methods("POST")

	// Calendar endpoints
	api.HandleFunc("/week", handlers.GetWeek(s.Store, s.Mapper, s.Broadcaster, now)).Methods("GET")
	api.HandleFunc("/week.ics", handlers.ExportWeek(s.Store, s.Exporter, now)).Methods("GET")

	// Mutation journal
	api.HandleFunc("/history", handlers.ListHistory(s.Journal)).Methods("GET")

	// Serve static frontend files
	if s.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.StaticDir)))
	}

	return r
}
