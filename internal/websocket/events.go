package websocket

import (
	"time"

	"go.uber.org/zap"

	"github.com/weekgrid/backend/internal/grid"
	"github.com/weekgrid/backend/internal/schedule"
)

// EventBroadcaster handles broadcasting WebSocket events.
type EventBroadcaster struct {
	hub    *Hub
	mapper grid.Mapper
}

// NewEventBroadcaster creates a new event broadcaster. The mapper lays out
// event blocks sent with every schedule update.
func NewEventBroadcaster(hub *Hub, mapper grid.Mapper) *EventBroadcaster {
	return &EventBroadcaster{hub: hub, mapper: mapper}
}

// SchedulePayload builds the schedule.updated payload for a snapshot.
func (b *EventBroadcaster) SchedulePayload(snap *schedule.Snapshot) SchedulePayload {
	events := snap.Events()
	return SchedulePayload{
		Version: snap.Version(),
		Events:  events,
		Blocks:  b.mapper.Layout(events),
	}
}

// BroadcastSchedule sends the snapshot to every connected page.
func (b *EventBroadcaster) BroadcastSchedule(snap *schedule.Snapshot) {
	b.broadcast(NewMessage(TypeScheduleUpdated, b.SchedulePayload(snap)))
}

// BroadcastDayChanged tells pages which week and column now hold today.
func (b *EventBroadcaster) BroadcastDayChanged(today time.Time, weekOffset, column int) {
	payload := DayChangedPayload{
		Today:      today.Format("2006-01-02"),
		Year:       today.Year(),
		Month:      int(today.Month()) - 1,
		WeekOffset: weekOffset,
		Column:     column,
	}
	b.broadcast(NewMessage(TypeCalendarDayChanged, payload))
}

// broadcast sends a message to all connected clients.
func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		zap.L().Error("encoding websocket message", zap.Error(err), zap.String("type", string(msg.Type)))
		return
	}

	b.hub.Broadcast(data)
}
