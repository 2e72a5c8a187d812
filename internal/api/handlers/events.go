// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/weekgrid/backend/internal/api/middleware"
	"github.com/weekgrid/backend/internal/grid"
	"github.com/weekgrid/backend/internal/schedule"
	ws "github.com/weekgrid/backend/internal/websocket"
)

// apiSource tags mutations requested over HTTP.
const apiSource = "api"

// MoveRequest is the body of POST /api/events/{id}/move.
type MoveRequest struct {
	Day  int `json:"day"`
	Hour int `json:"hour"`
}

// ResizeRequest is the body of POST /api/events/{id}/resize. Either Duration
// is set, or the pointer positions of a resize gesture are.
type ResizeRequest struct {
	Duration      *int     `json:"duration,omitempty"`
	StartY        *float64 `json:"start_y,omitempty"`
	CurrentY      *float64 `json:"current_y,omitempty"`
	InitialHeight *float64 `json:"initial_height,omitempty"`
}

// MutationResponse reports whether a mutation changed an event, along with
// the resulting schedule.
type MutationResponse struct {
	Applied  bool               `json:"applied"`
	Schedule ws.SchedulePayload `json:"schedule"`
}

// ListEvents returns a handler that lists the current schedule.
func ListEvents(store *schedule.Store, broadcaster *ws.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, broadcaster.SchedulePayload(store.Snapshot()))
	}
}

// MoveEvent returns a handler that places an event at a grid cell.
// A cell outside the grid cancels the move and leaves the schedule untouched.
func MoveEvent(store *schedule.Store, mapper grid.Mapper, broadcaster *ws.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MoveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		id, ok := eventID(r)
		if !ok {
			writeUnchanged(w, store, broadcaster)
			return
		}

		cell, ok := mapper.ColumnDrop(req.Day, req.Hour)
		if !ok {
			zap.L().Debug("move to invalid cell cancelled",
				zap.Int("event_id", id), zap.Int("day", req.Day), zap.Int("hour", req.Hour))
			writeUnchanged(w, store, broadcaster)
			return
		}

		snap := store.Source(apiSource).MoveEvent(id, cell.Day, cell.Hour)
		writeMutation(w, snap, id, broadcaster)
	}
}

// ResizeEvent returns a handler that changes an event's duration. Durations
// below one hour are raised to one.
func ResizeEvent(store *schedule.Store, mapper grid.Mapper, broadcaster *ws.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		id, ok := eventID(r)
		if !ok {
			writeUnchanged(w, store, broadcaster)
			return
		}

		var duration int
		switch {
		case req.Duration != nil:
			duration = grid.ClampDuration(*req.Duration)
		case req.StartY != nil && req.CurrentY != nil:
			ev, found := store.Snapshot().Get(id)
			if !found {
				writeUnchanged(w, store, broadcaster)
				return
			}
			initial := float64(mapper.DurationToHeight(ev.Duration))
			if req.InitialHeight != nil {
				initial = *req.InitialHeight
			}
			duration = mapper.ResizeDelta(*req.StartY, *req.CurrentY, initial)
		default:
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation,
				"Either duration or start_y and current_y are required")
			return
		}

		snap := store.Source(apiSource).ResizeEvent(id, duration)
		writeMutation(w, snap, id, broadcaster)
	}
}

// eventID reads the {id} path variable. A malformed id is not an error: the
// request becomes a no-op, like a drag payload that does not parse.
func eventID(r *http.Request) (int, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.Atoi(raw)
	if err != nil {
		zap.L().Debug("malformed event id", zap.String("id", raw))
		return 0, false
	}
	return id, true
}

func writeUnchanged(w http.ResponseWriter, store *schedule.Store, broadcaster *ws.EventBroadcaster) {
	middleware.WriteJSON(w, http.StatusOK, MutationResponse{
		Applied:  false,
		Schedule: broadcaster.SchedulePayload(store.Snapshot()),
	})
}

func writeMutation(w http.ResponseWriter, snap *schedule.Snapshot, id int, broadcaster *ws.EventBroadcaster) {
	// Events are never removed, so presence after the mutation means it matched.
	_, applied := snap.Get(id)
	middleware.WriteJSON(w, http.StatusOK, MutationResponse{
		Applied:  applied,
		Schedule: broadcaster.SchedulePayload(snap),
	})
}
