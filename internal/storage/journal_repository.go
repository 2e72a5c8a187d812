package storage

import (
	"context"
	"fmt"

	"github.com/weekgrid/backend/internal/storage/models"
)

// JournalRepository provides data access for the mutation journal.
type JournalRepository struct {
	BaseRepository
}

// NewJournalRepository creates a new journal repository.
func NewJournalRepository(db *DB) *JournalRepository {
	return &JournalRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Record inserts a journal entry, filling in its ID and timestamp.
func (r *JournalRepository) Record(ctx context.Context, e *models.JournalEntry) error {
	e.ID = GenerateID()
	if e.AppliedAt.IsZero() {
		e.AppliedAt = r.Now()
	}

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO mutations (
			id, seq, kind, event_id, day, start_hour, duration, matched, source, applied_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID, e.Seq, e.Kind, e.EventID, e.Day, e.Start,
		e.Duration, e.Matched, e.Source, e.AppliedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting journal entry: %w", err)
	}

	return nil
}

// List returns the most recent entries, newest first.
func (r *JournalRepository) List(ctx context.Context, f models.JournalFilter) ([]models.JournalEntry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = models.DefaultJournalLimit
	}

	query := `
		SELECT id, seq, kind, event_id, day, start_hour, duration, matched, source, applied_at
		FROM mutations`
	args := []any{}
	if f.EventID != nil {
		query += " WHERE event_id = ?"
		args = append(args, *f.EventID)
	}
	query += " ORDER BY seq DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(
			&e.ID, &e.Seq, &e.Kind, &e.EventID, &e.Day, &e.Start,
			&e.Duration, &e.Matched, &e.Source, &e.AppliedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Count returns the number of journal entries.
func (r *JournalRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM mutations").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting journal: %w", err)
	}
	return n, nil
}

// Trim deletes all but the newest keep entries and returns how many were removed.
func (r *JournalRepository) Trim(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	res, err := r.DB().ExecContext(ctx, `
		DELETE FROM mutations WHERE seq NOT IN (
			SELECT seq FROM mutations ORDER BY seq DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("trimming journal: %w", err)
	}

	return res.RowsAffected()
}
