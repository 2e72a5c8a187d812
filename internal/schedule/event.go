// Package schedule holds the authoritative event collection and its mutations.
package schedule

// Event is a timed block on the week grid.
type Event struct {
	ID       int    `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Start    int    `json:"start" yaml:"start"`       // absolute hour of day, 0-23
	Duration int    `json:"duration" yaml:"duration"` // hours, >= 1
	Day      int    `json:"day" yaml:"day"`           // column of the visible week
}

// MutationKind names the operation recorded in a Mutation.
type MutationKind string

const (
	KindMove   MutationKind = "move"
	KindResize MutationKind = "resize"
)

// Mutation describes one applied store operation.
type Mutation struct {
	Kind     MutationKind `json:"kind"`
	EventID  int          `json:"event_id"`
	Day      int          `json:"day"`
	Start    int          `json:"start"`
	Duration int          `json:"duration"`
	// Matched is false when EventID did not name any event.
	Matched bool `json:"matched"`
	// Source names who requested the mutation, e.g. "api" or a websocket client.
	Source string `json:"source,omitempty"`
}

// MoveEvent returns a new collection where the event with the given id sits at
// (day, hour). Every other event is copied unchanged. An unknown id yields a
// content-equal copy.
func MoveEvent(events []Event, id, day, hour int) []Event {
	out := make([]Event, len(events))
	for i, ev := range events {
		if ev.ID == id {
			ev.Day = day
			ev.Start = hour
		}
		out[i] = ev
	}
	return out
}

// ResizeEvent returns a new collection where the event with the given id has
// the new duration. The caller is responsible for clamping.
func ResizeEvent(events []Event, id, duration int) []Event {
	out := make([]Event, len(events))
	for i, ev := range events {
		if ev.ID == id {
			ev.Duration = duration
		}
		out[i] = ev
	}
	return out
}

// DefaultSeed returns the events present when no seed is configured.
func DefaultSeed() []Event {
	return []Event{
		{ID: 1, Title: "Meeting 1", Start: 9, Duration: 1, Day: 0},
		{ID: 2, Title: "Appointment", Start: 14, Duration: 2, Day: 2},
	}
}
