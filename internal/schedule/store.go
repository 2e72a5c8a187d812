package schedule

import (
	"sync"

	"go.uber.org/zap"
)

// Snapshot is an immutable view of the event collection. Every mutation of a
// Store produces a new *Snapshot, so consumers detect change by pointer.
type Snapshot struct {
	version uint64
	events  []Event
}

// Version increases by one with every mutation, matched or not.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// Events returns a copy of the collection in seed order.
func (s *Snapshot) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Len returns the number of events.
func (s *Snapshot) Len() int {
	return len(s.events)
}

// Get returns the event with the given id.
func (s *Snapshot) Get(id int) (Event, bool) {
	for _, ev := range s.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return Event{}, false
}

// Observer is notified after every mutation, in mutation order.
type Observer func(snap *Snapshot, m Mutation)

// Store owns the current snapshot. Mutations are serialized so that callers
// on different goroutines observe them in a single total order.
type Store struct {
	mu        sync.Mutex
	current   *Snapshot
	observers []Observer
}

// NewStore creates a store seeded with the given events. Duplicate ids are
// dropped, keeping the first, and durations below one hour are raised to one.
func NewStore(seed []Event) *Store {
	seen := make(map[int]bool, len(seed))
	events := make([]Event, 0, len(seed))
	for _, ev := range seed {
		if seen[ev.ID] {
			zap.L().Warn("dropping duplicate seed event", zap.Int("event_id", ev.ID))
			continue
		}
		seen[ev.ID] = true
		if ev.Duration < 1 {
			ev.Duration = 1
		}
		events = append(events, ev)
	}
	return &Store{current: &Snapshot{events: events}}
}

// Subscribe registers an observer. Observers run while the store lock is held
// and must not call back into the store.
func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Mutator is the mutation surface shared by a Store and its sourced views.
type Mutator interface {
	Snapshot() *Snapshot
	MoveEvent(id, day, hour int) *Snapshot
	ResizeEvent(id, duration int) *Snapshot
}

// MoveEvent places the event at (day, hour) and returns the new snapshot.
func (s *Store) MoveEvent(id, day, hour int) *Snapshot {
	return s.move("", id, day, hour)
}

// ResizeEvent sets the event's duration and returns the new snapshot.
func (s *Store) ResizeEvent(id, duration int) *Snapshot {
	return s.resize("", id, duration)
}

// Source returns a Mutator that tags its mutations with the given source.
func (s *Store) Source(name string) Mutator {
	return sourced{store: s, name: name}
}

type sourced struct {
	store *Store
	name  string
}

func (v sourced) Snapshot() *Snapshot { return v.store.Snapshot() }

func (v sourced) MoveEvent(id, day, hour int) *Snapshot {
	return v.store.move(v.name, id, day, hour)
}

func (v sourced) ResizeEvent(id, duration int) *Snapshot {
	return v.store.resize(v.name, id, duration)
}

func (s *Store) move(source string, id, day, hour int) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, matched := s.current.Get(id)
	next := s.commit(MoveEvent(s.current.events, id, day, hour))
	ev, _ := next.Get(id)
	s.notify(next, Mutation{
		Kind:     KindMove,
		EventID:  id,
		Day:      day,
		Start:    hour,
		Duration: ev.Duration,
		Matched:  matched,
		Source:   source,
	})
	return next
}

func (s *Store) resize(source string, id, duration int) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, matched := s.current.Get(id)
	next := s.commit(ResizeEvent(s.current.events, id, duration))
	ev, _ := next.Get(id)
	s.notify(next, Mutation{
		Kind:     KindResize,
		EventID:  id,
		Day:      ev.Day,
		Start:    ev.Start,
		Duration: duration,
		Matched:  matched,
		Source:   source,
	})
	return next
}

func (s *Store) commit(events []Event) *Snapshot {
	next := &Snapshot{version: s.current.version + 1, events: events}
	s.current = next
	return next
}

func (s *Store) notify(snap *Snapshot, m Mutation) {
	if !m.Matched {
		zap.L().Debug("mutation for unknown event", zap.String("kind", string(m.Kind)), zap.Int("event_id", m.EventID))
	}
	for _, o := range s.observers {
		o(snap, m)
	}
}
