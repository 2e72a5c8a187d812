// Package models contains the journal records stored by the storage package.
package models

import (
	"time"
)

// JournalEntry records one applied schedule mutation.
type JournalEntry struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq"` // snapshot version produced by the mutation
	Kind      string    `json:"kind"`
	EventID   int       `json:"event_id"`
	Day       int       `json:"day"`
	Start     int       `json:"start"`
	Duration  int       `json:"duration"`
	Matched   bool      `json:"matched"`
	Source    string    `json:"source,omitempty"` // "api", "ws:<client id>"
	AppliedAt time.Time `json:"applied_at"`
}

// JournalFilter narrows a journal listing.
type JournalFilter struct {
	// EventID restricts the listing to one event when non-nil.
	EventID *int
	// Limit caps the number of entries; zero means DefaultJournalLimit.
	Limit int
}

// DefaultJournalLimit is the listing size used when no limit is given.
const DefaultJournalLimit = 100
