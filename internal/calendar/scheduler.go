package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/weekgrid/backend/internal/storage"
	"github.com/weekgrid/backend/internal/websocket"
)

// midnightSpec fires at 00:00:00 every day.
const midnightSpec = "0 0 0 * * *"

// Scheduler runs the periodic housekeeping jobs: announcing the new day to
// connected pages and trimming the mutation journal.
type Scheduler struct {
	cron        *cron.Cron
	journal     *storage.JournalRepository
	broadcaster *websocket.EventBroadcaster

	keep     int
	trimSpec string
	now      func() time.Time
}

// NewScheduler creates a scheduler. journal and broadcaster may be nil, which
// disables the corresponding job.
func NewScheduler(
	journal *storage.JournalRepository,
	broadcaster *websocket.EventBroadcaster,
	keep int,
	trimSpec string,
) *Scheduler {
	if keep <= 0 {
		keep = 1000
	}

	return &Scheduler{
		cron:        cron.New(cron.WithSeconds()),
		journal:     journal,
		broadcaster: broadcaster,
		keep:        keep,
		trimSpec:    trimSpec,
		now:         time.Now,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.broadcaster != nil {
		if _, err := s.cron.AddFunc(midnightSpec, s.announceDay); err != nil {
			return fmt.Errorf("scheduling day change: %w", err)
		}
	}

	if s.journal != nil && s.trimSpec != "" {
		_, err := s.cron.AddFunc(s.trimSpec, func() {
			s.trimJournal(ctx)
		})
		if err != nil {
			return fmt.Errorf("scheduling journal trim %q: %w", s.trimSpec, err)
		}
	}

	s.cron.Start()
	zap.L().Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.L().Info("scheduler stopped")
}

// announceDay tells every page which week and column hold today.
func (s *Scheduler) announceDay() {
	today := s.now()
	week, column := Locate(today)
	zap.L().Info("day changed",
		zap.String("today", today.Format("2006-01-02")),
		zap.Int("week", week.WeekOffset),
		zap.Int("column", column),
	)
	s.broadcaster.BroadcastDayChanged(today, week.WeekOffset, column)
}

// trimJournal keeps only the newest entries.
func (s *Scheduler) trimJournal(ctx context.Context) {
	removed, err := s.journal.Trim(ctx, s.keep)
	if err != nil {
		zap.L().Error("journal trim failed", zap.Error(err))
		return
	}
	if removed > 0 {
		zap.L().Debug("journal trimmed", zap.Int64("removed", removed), zap.Int("keep", s.keep))
	}
}

// NextRuns returns the next scheduled time of every job.
func (s *Scheduler) NextRuns() []time.Time {
	entries := s.cron.Entries()
	runs := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		runs = append(runs, e.Next)
	}
	return runs
}
