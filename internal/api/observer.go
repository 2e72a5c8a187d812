package api

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/weekgrid/backend/internal/schedule"
	"github.com/weekgrid/backend/internal/storage"
	"github.com/weekgrid/backend/internal/storage/models"
	"github.com/weekgrid/backend/internal/websocket"
)

// journalTimeout bounds a single journal write.
const journalTimeout = 5 * time.Second

// Observe subscribes the journal and the broadcaster to every store mutation.
// Either may be nil. Entries are written in mutation order since observers run
// under the store lock.
func Observe(store *schedule.Store, journal *storage.JournalRepository, broadcaster *websocket.EventBroadcaster) {
	if journal != nil {
		store.Subscribe(func(snap *schedule.Snapshot, m schedule.Mutation) {
			ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
			defer cancel()

			err := journal.Record(ctx, &models.JournalEntry{
				Seq:      snap.Version(),
				Kind:     string(m.Kind),
				EventID:  m.EventID,
				Day:      m.Day,
				Start:    m.Start,
				Duration: m.Duration,
				Matched:  m.Matched,
				Source:   m.Source,
			})
			if err != nil {
				zap.L().Error("recording mutation", zap.Error(err), zap.Uint64("seq", snap.Version()))
			}
		})
	}

	if broadcaster != nil {
		store.Subscribe(func(snap *schedule.Snapshot, _ schedule.Mutation) {
			broadcaster.BroadcastSchedule(snap)
		})
	}
}
