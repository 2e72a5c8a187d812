// Package grid translates between pixel geometry and calendar units.
package grid

import (
	"math"

	"github.com/weekgrid/backend/internal/schedule"
)

const (
	// DefaultPixelsPerHour is the height of one hour row.
	DefaultPixelsPerHour = 60
	// HoursPerDay is the number of rows in a day column.
	HoursPerDay = 24
	// DaysPerWeek is the number of columns in the week variant.
	DaysPerWeek = 7
	// MaxDuration is the longest event, one full day column.
	MaxDuration = HoursPerDay
)

// Cell is a single (day column, hour row) drop target.
type Cell struct {
	Day  int `json:"day"`
	Hour int `json:"hour"`
}

// Mapper converts between pixels and (day, hour, duration).
type Mapper struct {
	PixelsPerHour int
	// StartHour is the hour shown in the top row. Zero gives the absolute
	// midnight-to-midnight grid.
	StartHour int
	// Days is the number of day columns: 7 for the week view, 1 for a single day.
	Days int
}

// NewMapper returns a mapper with defaults for unset fields.
func NewMapper(pixelsPerHour, startHour, days int) Mapper {
	if pixelsPerHour <= 0 {
		pixelsPerHour = DefaultPixelsPerHour
	}
	if days <= 0 {
		days = DaysPerWeek
	}
	return Mapper{
		PixelsPerHour: pixelsPerHour,
		StartHour:     wrapHour(startHour),
		Days:          days,
	}
}

// Row returns the display row of an absolute hour.
func (m Mapper) Row(hour int) int {
	return wrapHour(hour - m.StartHour)
}

// HourToOffset returns the top offset in pixels of an event starting at hour.
func (m Mapper) HourToOffset(hour int) int {
	return m.Row(hour) * m.PixelsPerHour
}

// DurationToHeight returns the block height in pixels for a duration in hours.
func (m Mapper) DurationToHeight(duration int) int {
	return duration * m.PixelsPerHour
}

// ColumnDrop identifies the cell that received a drop. ok is false when the
// cell lies outside the grid, which callers treat as a cancelled drop.
func (m Mapper) ColumnDrop(day, hour int) (Cell, bool) {
	if day < 0 || day >= m.Days || hour < 0 || hour >= HoursPerDay {
		return Cell{}, false
	}
	return Cell{Day: day, Hour: hour}, true
}

// ResizeDelta computes the duration for a resize gesture that started at
// startY with a block of initialHeight pixels and is now at currentY.
// The result lies in 1..MaxDuration.
func (m Mapper) ResizeDelta(startY, currentY, initialHeight float64) int {
	hours := math.Round((initialHeight + (currentY - startY)) / float64(m.PixelsPerHour))
	switch {
	case math.IsNaN(hours) || hours < 1:
		return 1
	case hours > MaxDuration:
		return MaxDuration
	}
	return int(hours)
}

// ClampDuration limits a requested duration to 1..MaxDuration hours.
func ClampDuration(duration int) int {
	switch {
	case duration < 1:
		return 1
	case duration > MaxDuration:
		return MaxDuration
	}
	return duration
}

// Block is the rendered position of one event.
type Block struct {
	EventID int `json:"event_id"`
	Column  int `json:"column"`
	Top     int `json:"top"`
	Height  int `json:"height"`
}

// Layout positions every event in the collection.
func (m Mapper) Layout(events []schedule.Event) []Block {
	blocks := make([]Block, 0, len(events))
	for _, ev := range events {
		blocks = append(blocks, Block{
			EventID: ev.ID,
			Column:  ev.Day,
			Top:     m.HourToOffset(ev.Start),
			Height:  m.DurationToHeight(ev.Duration),
		})
	}
	return blocks
}

func wrapHour(h int) int {
	return ((h % HoursPerDay) + HoursPerDay) % HoursPerDay
}
