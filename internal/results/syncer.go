package results

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/vitaly/internal/clock"
	"github.com/2beens/vitaly/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_syncer_test.go -package=results

const DefaultSyncBatchSize = 100

type localResults interface {
	Unsynced(ctx context.Context, limit int) ([]Result, error)
	MarkSynced(ctx context.Context, id string) error
}

type centralResults interface {
	Add(ctx context.Context, result Result) (bool, error)
}

// Syncer pushes unsynced local results into the central repo.
type Syncer struct {
	local     localResults
	central   centralResults
	batchSize int
	metrics   *metrics.Manager
}

func NewSyncer(local localResults, central centralResults, batchSize int, metricsManager *metrics.Manager) *Syncer {
	if batchSize <= 0 {
		batchSize = DefaultSyncBatchSize
	}
	return &Syncer{
		local:     local,
		central:   central,
		batchSize: batchSize,
		metrics:   metricsManager,
	}
}

// Sync drains the unsynced backlog batch by batch. A row is marked synced only
// after the central repo holds it. The first batch with failures ends the pass,
// so failing rows are retried on the next one.
func (s *Syncer) Sync(ctx context.Context) (int, error) {
	synced := 0
	for {
		batch, err := s.local.Unsynced(ctx, s.batchSize)
		if err != nil {
			return synced, fmt.Errorf("get unsynced: %w", err)
		}
		if len(batch) == 0 {
			return synced, nil
		}

		var batchErr error
		for _, r := range batch {
			if err := s.syncOne(ctx, r); err != nil {
				batchErr = multierr.Append(batchErr, err)
				continue
			}
			synced++
			if s.metrics != nil {
				s.metrics.CounterResultsSynced.Inc()
			}
		}
		if batchErr != nil {
			return synced, batchErr
		}
		if len(batch) < s.batchSize {
			return synced, nil
		}
	}
}

func (s *Syncer) syncOne(ctx context.Context, r Result) error {
	added, err := s.central.Add(ctx, r)
	if err != nil {
		return fmt.Errorf("add result %s: %w", r.ID, err)
	}
	if !added {
		log.Debugf("result %s already synced, marking local row", r.ID)
	}
	if err := s.local.MarkSynced(ctx, r.ID); err != nil {
		return fmt.Errorf("mark synced %s: %w", r.ID, err)
	}
	return nil
}

// Task runs Sync every period. Failures are logged and retried on the next run.
func (s *Syncer) Task(period time.Duration) clock.Task {
	return clock.Task{
		Name:      "results-sync",
		Period:    period,
		Immediate: true,
		Run: func(ctx context.Context) {
			synced, err := s.Sync(ctx)
			if err != nil {
				log.Errorf("sync results: %s", err)
			}
			if synced > 0 {
				log.Debugf("synced %d results", synced)
			}
		},
	}
}
