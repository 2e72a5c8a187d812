package handlers

import (
	"net/http"

	"github.com/weekgrid/backend/internal/api/middleware"
	"github.com/weekgrid/backend/internal/schedule"
	"github.com/weekgrid/backend/internal/storage"
	"github.com/weekgrid/backend/internal/websocket"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status           string `json:"status"`
	Version          string `json:"version"`
	DBConnected      bool   `json:"db_connected"`
	ConnectedClients int    `json:"connected_clients"`
	Events           int    `json:"events"`
	ScheduleVersion  uint64 `json:"schedule_version"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db *storage.DB, hub *websocket.Hub, store *schedule.Store, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Check database connection
		dbConnected := db.PingContext(r.Context()) == nil

		// Determine overall status
		status := "healthy"
		code := http.StatusOK
		if !dbConnected {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		snap := store.Snapshot()
		middleware.WriteJSON(w, code, HealthResponse{
			Status:           status,
			Version:          version,
			DBConnected:      dbConnected,
			ConnectedClients: hub.ClientCount(),
			Events:           snap.Len(),
			ScheduleVersion:  snap.Version(),
		})
	}
}
