package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/weekgrid/backend/internal/api/middleware"
	"github.com/weekgrid/backend/internal/calendar"
	"github.com/weekgrid/backend/internal/grid"
	"github.com/weekgrid/backend/internal/schedule"
	ws "github.com/weekgrid/backend/internal/websocket"
)

// WeekResponse describes the visible week and the events laid out on it.
type WeekResponse struct {
	Year         int                `json:"year"`
	Month        int                `json:"month"` // 0-11
	Week         int                `json:"week"`
	WeeksInMonth int                `json:"weeks_in_month"`
	Dates        []string           `json:"dates"` // YYYY-MM-DD, Monday first
	Labels       []string           `json:"labels"`
	Hours        []int              `json:"hours"`
	HourLabels   []string           `json:"hour_labels"`
	TodayColumn  int                `json:"today_column"` // -1 when today is not visible
	Schedule     ws.SchedulePayload `json:"schedule"`
}

// GetWeek returns a handler that resolves the week selected by the year,
// month (0-11) and week query parameters. Missing parameters default to the
// week containing today.
func GetWeek(
	store *schedule.Store,
	mapper grid.Mapper,
	broadcaster *ws.EventBroadcaster,
	now func() time.Time,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		today := now()
		week, err := weekFromQuery(r, today)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())
			return
		}

		resp := WeekResponse{
			Year:         week.Year,
			Month:        int(week.Month) - 1,
			Week:         week.WeekOffset,
			WeeksInMonth: calendar.WeeksInMonth(week.Year, week.Month),
			Labels:       week.Labels(),
			Hours:        calendar.ResolveHourLabels(mapper.StartHour),
			TodayColumn:  week.IndexOf(today),
			Schedule:     broadcaster.SchedulePayload(store.Snapshot()),
		}
		for _, d := range week.Days {
			resp.Dates = append(resp.Dates, d.Format("2006-01-02"))
		}
		for _, h := range resp.Hours {
			resp.HourLabels = append(resp.HourLabels, calendar.FormatHour(h))
		}

		middleware.WriteJSON(w, http.StatusOK, resp)
	}
}

// ExportWeek returns a handler that serves the selected week as iCalendar.
func ExportWeek(store *schedule.Store, exporter *calendar.Exporter, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		week, err := weekFromQuery(r, now())
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())
			return
		}

		var buf bytes.Buffer
		if err := exporter.Export(&buf, week, store.Snapshot().Events()); err != nil {
			zap.L().Error("exporting week", zap.Error(err))
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to export calendar")
			return
		}

		filename := fmt.Sprintf("week-%s.ics", week.Start().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Write(buf.Bytes())
	}
}

// maxWeeksAhead is how far past the month's own weeks an offset may reach.
const maxWeeksAhead = 52

// weekFromQuery resolves the week named by the query string. Each missing
// parameter falls back to today's value; a negative week is treated as 0 and
// a week more than a year past the month is rejected.
func weekFromQuery(r *http.Request, today time.Time) (calendar.Week, error) {
	current, _ := calendar.Locate(today)
	q := r.URL.Query()

	year, err := intParam(q.Get("year"), current.Year)
	if err != nil {
		return calendar.Week{}, fmt.Errorf("invalid year: %w", err)
	}
	if year < 1 || year > 9999 {
		return calendar.Week{}, fmt.Errorf("year %d out of range", year)
	}

	month, err := intParam(q.Get("month"), int(current.Month)-1)
	if err != nil {
		return calendar.Week{}, fmt.Errorf("invalid month: %w", err)
	}
	if month < 0 || month > 11 {
		return calendar.Week{}, fmt.Errorf("month %d out of range 0-11", month)
	}

	defaultOffset := 0
	if year == current.Year && month == int(current.Month)-1 {
		defaultOffset = current.WeekOffset
	}
	offset, err := intParam(q.Get("week"), defaultOffset)
	if err != nil {
		return calendar.Week{}, fmt.Errorf("invalid week: %w", err)
	}
	if limit := calendar.WeeksInMonth(year, time.Month(month+1)) + maxWeeksAhead; offset > limit {
		return calendar.Week{}, fmt.Errorf("week %d out of range 0-%d", offset, limit)
	}

	return calendar.ResolveWeek(year, time.Month(month+1), offset), nil
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
