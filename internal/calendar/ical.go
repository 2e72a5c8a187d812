package calendar

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/weekgrid/backend/internal/grid"
	"github.com/weekgrid/backend/internal/schedule"
)

// floatingLayout is an iCalendar local date-time without a zone suffix.
const floatingLayout = "20060102T150405"

// Exporter renders the visible week as an iCalendar feed.
type Exporter struct {
	productID string
	now       func() time.Time
}

// NewExporter creates an exporter stamping events with the given product id.
func NewExporter(productID string) *Exporter {
	return &Exporter{
		productID: productID,
		now:       time.Now,
	}
}

// Export writes one VEVENT per event whose day column lies in the week.
// Times are floating: the grid has no time zone.
func (e *Exporter) Export(w io.Writer, week Week, events []schedule.Event) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(e.productID)

	stamp := e.now().UTC()
	for _, ev := range events {
		date, ok := week.Date(ev.Day)
		if !ok {
			continue
		}
		start := date.Add(time.Duration(ev.Start) * time.Hour)
		end := start.Add(time.Duration(grid.ClampDuration(ev.Duration)) * time.Hour)

		vevent := cal.AddEvent(EventUID(week, ev.ID))
		vevent.SetDtStampTime(stamp)
		vevent.SetProperty(ical.ComponentPropertyDtStart, start.Format(floatingLayout))
		vevent.SetProperty(ical.ComponentPropertyDtEnd, end.Format(floatingLayout))
		vevent.SetSummary(ev.Title)
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("serializing calendar: %w", err)
	}
	return nil
}

// EventUID identifies an event within a given week.
func EventUID(week Week, eventID int) string {
	return fmt.Sprintf("%d-%s@weekgrid", eventID, week.Start().Format("20060102"))
}
