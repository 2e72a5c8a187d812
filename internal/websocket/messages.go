package websocket

import (
	"encoding/json"
	"time"

	"github.com/weekgrid/backend/internal/grid"
	"github.com/weekgrid/backend/internal/schedule"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeScheduleUpdated    MessageType = "schedule.updated"
	TypeCalendarDayChanged MessageType = "calendar.day_changed"

	// Client -> Server gesture input
	TypeDragStart   MessageType = "drag.start"
	TypeDragOver    MessageType = "drag.over"
	TypeDrop        MessageType = "drop"
	TypeDragEnd     MessageType = "drag.end"
	TypeResizeStart MessageType = "resize.start"
	TypePointerMove MessageType = "pointer.move"
	TypePointerUp   MessageType = "pointer.up"
	TypePing        MessageType = "ping"

	// Server -> Client response types
	TypeDragOverAck MessageType = "drag.over.ack"
	TypePong        MessageType = "pong"
	TypeError       MessageType = "error"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// Inbound is a client message whose payload is decoded once its type is known.
type Inbound struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeInbound parses a raw client frame.
func DecodeInbound(data []byte) (Inbound, error) {
	var in Inbound
	err := json.Unmarshal(data, &in)
	return in, err
}

// DragStartPayload carries the drag data set by the page, the event id as text.
type DragStartPayload struct {
	Data DragData `json:"data"`
}

// DragData is drag data as the page sent it. A JSON string is taken as is;
// any other JSON value keeps its raw text, so a bare number still names an
// event and anything else fails to parse as an id downstream.
type DragData string

// UnmarshalJSON accepts any JSON value.
func (d *DragData) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*d = DragData(s)
		return nil
	}
	*d = DragData(b)
	return nil
}

// CellPayload names a grid cell. A nil cell on drop means the pointer was
// released outside the grid.
type CellPayload struct {
	Cell *grid.Cell `json:"cell"`
}

// ResizeStartPayload starts a resize gesture on an event's handle.
type ResizeStartPayload struct {
	EventID int     `json:"event_id"`
	ClientY float64 `json:"client_y"`
}

// PointerPayload is a pointer position in page pixels.
type PointerPayload struct {
	ClientY float64 `json:"client_y"`
}

// SchedulePayload is the payload for schedule.updated events.
type SchedulePayload struct {
	Version uint64           `json:"version"`
	Events  []schedule.Event `json:"events"`
	Blocks  []grid.Block     `json:"blocks"`
}

// DragOverAckPayload answers drag.over with whether the cell accepts a drop.
type DragOverAckPayload struct {
	Accept bool `json:"accept"`
}

// DayChangedPayload is the payload for calendar.day_changed events.
type DayChangedPayload struct {
	Today      string `json:"today"` // YYYY-MM-DD
	Year       int    `json:"year"`
	Month      int    `json:"month"` // 0-11
	WeekOffset int    `json:"week"`
	Column     int    `json:"column"`
}

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	OriginalType string `json:"original_type,omitempty"`
}
