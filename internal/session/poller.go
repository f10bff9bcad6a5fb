package session

import (
	"context"
	"sync"
	"time"

	"github.com/2beens/vitaly/internal/clock"
	"github.com/2beens/vitaly/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

const DefaultPollInterval = 10 * time.Second

// Poller feeds a Store from a Source. Failed polls leave the store as it was;
// the next tick is the only retry.
type Poller struct {
	source   Source
	store    *Store
	interval time.Duration
	metrics  *metrics.Manager

	mutex sync.Mutex
	job   clock.Job
}

func NewPoller(source Source, store *Store, interval time.Duration, metricsManager *metrics.Manager) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		source:   source,
		store:    store,
		interval: interval,
		metrics:  metricsManager,
	}
}

// Start polls once right away, then on every interval. Starting a running poller is a no-op.
func (p *Poller) Start(scheduler clock.Scheduler) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.job != nil {
		return
	}

	p.job = scheduler.Schedule(clock.Task{
		Name:      "session-poll",
		Period:    p.interval,
		Immediate: true,
		Run:       p.Poll,
	})
}

// Stop cancels the schedule and any request in flight.
func (p *Poller) Stop() {
	p.mutex.Lock()
	job := p.job
	p.job = nil
	p.mutex.Unlock()

	if job != nil {
		job.Stop()
	}
}

func (p *Poller) Running() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.job != nil
}

// Poll runs a single fetch and stores the result on success.
func (p *Poller) Poll(ctx context.Context) {
	start := time.Now()
	snapshot, err := p.source.Latest(ctx)
	if p.metrics != nil {
		p.metrics.HistPollDuration.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		// stopped mid request, not a backend failure
		if ctx.Err() != nil {
			log.Debugf("poll latest session snapshot cancelled: %s", err)
			return
		}
		log.Warnf("poll latest session snapshot: %s", err)
		p.countPoll(metrics.PollOutcomeFailed)
		return
	}

	p.store.Replace(snapshot)
	p.countPoll(metrics.PollOutcomeOK)
	log.Tracef("session snapshot replaced: %s", snapshot.SessionID)
}

func (p *Poller) countPoll(outcome string) {
	if p.metrics == nil {
		return
	}
	p.metrics.CounterPolls.WithLabelValues(outcome).Inc()
}
