package gesture

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/weekgrid/backend/internal/grid"
	"github.com/weekgrid/backend/internal/schedule"
)

// State is the gesture phase of one page.
type State int

const (
	Idle State = iota
	Resizing
	PendingDrop
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Resizing:
		return "resizing"
	case PendingDrop:
		return "pending_drop"
	default:
		return "unknown"
	}
}

// Controller runs the resize and drag-to-move gestures of a single page.
// Only one gesture is active at a time; input that does not fit the current
// state is ignored. A Controller is not safe for concurrent use: feed it from
// one goroutine, in the order the input arrived.
type Controller struct {
	store  schedule.Mutator
	mapper grid.Mapper
	doc    *Listeners
	log    *zap.Logger

	state   State
	eventID int

	// Resizing
	originY      float64
	originHeight float64
	duration     int
	moved        bool
	moveID       ListenerID
	upID         ListenerID
}

// NewController creates an idle controller mutating store.
func NewController(store schedule.Mutator, mapper grid.Mapper) *Controller {
	return &Controller{
		store:  store,
		mapper: mapper,
		doc:    &Listeners{},
		log:    zap.L().Named("gesture"),
	}
}

// State returns the current gesture phase.
func (c *Controller) State() State {
	return c.state
}

// Listeners exposes the document-level handlers installed by the active gesture.
func (c *Controller) Listeners() *Listeners {
	return c.doc
}

// BeginResize starts a resize gesture on the event's handle with the pointer
// at clientY. It reports whether a gesture started.
func (c *Controller) BeginResize(eventID int, clientY float64) bool {
	if c.state != Idle {
		c.log.Debug("resize start ignored", zap.Stringer("state", c.state))
		return false
	}
	ev, ok := c.store.Snapshot().Get(eventID)
	if !ok {
		c.log.Debug("resize start for unknown event", zap.Int("event_id", eventID))
		return false
	}

	c.state = Resizing
	c.eventID = eventID
	c.originY = clientY
	c.originHeight = float64(c.mapper.DurationToHeight(ev.Duration))
	c.duration = ev.Duration
	c.moveID = c.doc.Add(PointerMove, c.onResizeMove)
	c.upID = c.doc.Add(PointerUp, c.onResizeUp)
	return true
}

// PointerMove forwards a document pointer-move.
func (c *Controller) PointerMove(clientY float64) {
	c.doc.Dispatch(PointerMove, PointerEvent{ClientY: clientY})
}

// PointerUp forwards a document pointer-up.
func (c *Controller) PointerUp(clientY float64) {
	c.doc.Dispatch(PointerUp, PointerEvent{ClientY: clientY})
}

func (c *Controller) onResizeMove(ev PointerEvent) {
	c.duration = c.mapper.ResizeDelta(c.originY, ev.ClientY, c.originHeight)
	c.moved = true
	c.apply()
}

func (c *Controller) onResizeUp(PointerEvent) {
	// The last computed duration wins, even over a change from another source.
	if c.moved {
		c.apply()
	}
	c.log.Debug("resize committed", zap.Int("event_id", c.eventID), zap.Int("duration", c.duration))
	c.endResize()
}

// apply writes the computed duration unless the stored event already has it.
func (c *Controller) apply() {
	if ev, ok := c.store.Snapshot().Get(c.eventID); ok && ev.Duration == c.duration {
		return
	}
	c.store.ResizeEvent(c.eventID, c.duration)
}

func (c *Controller) endResize() {
	c.doc.Remove(c.moveID)
	c.doc.Remove(c.upID)
	c.moveID, c.upID = 0, 0
	c.reset()
}

// DragStart begins a drag-to-move gesture. data is the drag payload set by
// the page, the event id as decimal text. Malformed or unknown ids leave the
// controller idle.
func (c *Controller) DragStart(data string) bool {
	if c.state != Idle {
		c.log.Debug("drag start ignored", zap.Stringer("state", c.state))
		return false
	}
	id, ok := ParseDragData(data)
	if !ok {
		c.log.Debug("malformed drag payload", zap.String("data", data))
		return false
	}
	if _, ok := c.store.Snapshot().Get(id); !ok {
		c.log.Debug("drag start for unknown event", zap.Int("event_id", id))
		return false
	}

	c.state = PendingDrop
	c.eventID = id
	return true
}

// DragOver reports whether the cell under the pointer accepts the drop.
func (c *Controller) DragOver(cell grid.Cell) bool {
	if c.state != PendingDrop {
		return false
	}
	_, ok := c.mapper.ColumnDrop(cell.Day, cell.Hour)
	return ok
}

// Drop ends a drag over cell. A nil or off-grid cell cancels the gesture and
// leaves the schedule untouched. It returns the new snapshot when the event moved.
func (c *Controller) Drop(cell *grid.Cell) (*schedule.Snapshot, bool) {
	if c.state != PendingDrop {
		return nil, false
	}
	defer c.reset()

	if cell == nil {
		c.log.Debug("drop outside grid cancelled", zap.Int("event_id", c.eventID))
		return nil, false
	}
	target, ok := c.mapper.ColumnDrop(cell.Day, cell.Hour)
	if !ok {
		c.log.Debug("drop on invalid cell cancelled", zap.Int("event_id", c.eventID), zap.Int("day", cell.Day), zap.Int("hour", cell.Hour))
		return nil, false
	}
	return c.store.MoveEvent(c.eventID, target.Day, target.Hour), true
}

// DragEnd closes a drag. If no drop was delivered the gesture is cancelled.
func (c *Controller) DragEnd() {
	if c.state == PendingDrop {
		c.log.Debug("drag ended without drop", zap.Int("event_id", c.eventID))
		c.reset()
	}
}

// Close ends whatever gesture is active, as when the page goes away. A resize
// commits as on pointer-up; a pending drag is cancelled.
func (c *Controller) Close() {
	switch c.state {
	case Resizing:
		c.onResizeUp(PointerEvent{})
	case PendingDrop:
		c.reset()
	}
}

func (c *Controller) reset() {
	c.state = Idle
	c.eventID = 0
	c.originY, c.originHeight = 0, 0
	c.duration = 0
	c.moved = false
}

// ParseDragData reads an event id from a drag payload.
func ParseDragData(data string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(data))
	if err != nil {
		return 0, false
	}
	return id, true
}
