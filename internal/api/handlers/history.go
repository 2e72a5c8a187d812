package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/weekgrid/backend/internal/api/middleware"
	"github.com/weekgrid/backend/internal/storage"
	"github.com/weekgrid/backend/internal/storage/models"
)

// maxHistoryLimit caps a single history listing.
const maxHistoryLimit = 1000

// ListHistory returns a handler that lists recent schedule mutations, newest first.
func ListHistory(journal *storage.JournalRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var filter models.JournalFilter

		if raw := q.Get("event_id"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Invalid event_id")
				return
			}
			filter.EventID = &id
		}

		if raw := q.Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 1 {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Invalid limit")
				return
			}
			filter.Limit = min(limit, maxHistoryLimit)
		}

		entries, err := journal.List(r.Context(), filter)
		if err != nil {
			zap.L().Error("listing history", zap.Error(err))
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to list history")
			return
		}
		if entries == nil {
			entries = []models.JournalEntry{}
		}

		middleware.WriteJSON(w, http.StatusOK, entries)
	}
}
