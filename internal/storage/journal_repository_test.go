package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/weekgrid/backend/internal/storage/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := NewDB(name)
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	return db
}

func record(t *testing.T, repo *JournalRepository, seq uint64, eventID int) {
	t.Helper()
	e := &models.JournalEntry{
		Seq:      seq,
		Kind:     "move",
		EventID:  eventID,
		Day:      2,
		Start:    14,
		Duration: 1,
		Matched:  true,
		Source:   "api",
	}
	if err := repo.Record(context.Background(), e); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if e.ID == "" || e.AppliedAt.IsZero() {
		t.Fatalf("Record() did not fill ID/AppliedAt: %+v", e)
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := newTestDB(t)
	if err := RunMigrations(db); err != nil {
		t.Fatalf("second RunMigrations() error = %v", err)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("counting migrations: %v", err)
	}
	if n != 1 {
		t.Fatalf("schema_migrations has %d rows, want 1", n)
	}
}

func TestJournalListNewestFirst(t *testing.T) {
	repo := NewJournalRepository(newTestDB(t))
	ctx := context.Background()

	for seq := uint64(1); seq <= 5; seq++ {
		record(t, repo, seq, int(seq%2)+1)
	}

	all, err := repo.List(ctx, models.JournalFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("List() len = %d, want 5", len(all))
	}
	if all[0].Seq != 5 || all[4].Seq != 1 {
		t.Fatalf("List() order = %d..%d, want 5..1", all[0].Seq, all[4].Seq)
	}
	if !all[0].Matched || all[0].Kind != "move" || all[0].Start != 14 {
		t.Fatalf("List()[0] = %+v", all[0])
	}

	id := 1
	filtered, err := repo.List(ctx, models.JournalFilter{EventID: &id, Limit: 1})
	if err != nil {
		t.Fatalf("List(event 1) error = %v", err)
	}
	if len(filtered) != 1 || filtered[0].EventID != 1 || filtered[0].Seq != 4 {
		t.Fatalf("List(event 1, limit 1) = %+v", filtered)
	}
}

func TestJournalTrim(t *testing.T) {
	repo := NewJournalRepository(newTestDB(t))
	ctx := context.Background()

	for seq := uint64(1); seq <= 10; seq++ {
		record(t, repo, seq, 1)
	}

	removed, err := repo.Trim(ctx, 3)
	if err != nil {
		t.Fatalf("Trim() error = %v", err)
	}
	if removed != 7 {
		t.Fatalf("Trim() removed %d, want 7", removed)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 3 {
		t.Fatalf("Count() = %d, want 3", n)
	}

	left, _ := repo.List(ctx, models.JournalFilter{})
	if left[len(left)-1].Seq != 8 {
		t.Fatalf("oldest kept seq = %d, want 8", left[len(left)-1].Seq)
	}
}

func TestNewDBIsolatedByName(t *testing.T) {
	a := newTestDB(t)
	record(t, NewJournalRepository(a), 1, 1)

	b, err := NewDB(a.Name() + "_other")
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	defer b.Close()

	var n int
	err = b.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE name = 'mutations'").Scan(&n)
	if err != nil {
		t.Fatalf("querying schema: %v", err)
	}
	if n != 0 {
		t.Fatalf("second database shares schema with the first")
	}
}
