package signals

import (
	"context"
	"sync"

	"github.com/2beens/vitaly/internal/clock"

	log "github.com/sirupsen/logrus"
)

// Bank groups the generators of one view and ties their timers to its lifetime.
type Bank struct {
	EMG         *EMG
	Correlation *LoadCorrelation
	Effort      *Effort
	ForceTrend  ForceTrend

	onTick func(generator string)

	mutex sync.Mutex
	jobs  []clock.Job
}

// NewBank creates the generators of a view. onTick, if set, is called after every tick.
func NewBank(src Source, onTick func(generator string)) *Bank {
	return &Bank{
		EMG:         NewEMG(src),
		Correlation: NewLoadCorrelation(src),
		Effort:      NewEffort(src),
		ForceTrend:  NewForceTrend(src),
		onTick:      onTick,
	}
}

func (b *Bank) Generators() []Generator {
	return []Generator{b.EMG, b.Correlation, b.Effort}
}

// Start schedules every generator. Calling Start on a running bank is a no-op.
func (b *Bank) Start(scheduler clock.Scheduler) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if len(b.jobs) > 0 {
		return
	}

	for _, g := range b.Generators() {
		g := g
		task := TaskFor(g)
		tick := task.Run
		task.Run = func(ctx context.Context) {
			tick(ctx)
			if b.onTick != nil {
				b.onTick(g.Name())
			}
			log.Tracef("generator [%s] ticked", g.Name())
		}
		b.jobs = append(b.jobs, scheduler.Schedule(task))
	}
}

func (b *Bank) Stop() {
	b.mutex.Lock()
	jobs := b.jobs
	b.jobs = nil
	b.mutex.Unlock()

	for _, j := range jobs {
		j.Stop()
	}
}

func (b *Bank) Running() bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.jobs) > 0
}
