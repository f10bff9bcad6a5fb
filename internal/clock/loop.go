package clock

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

var _ Scheduler = (*Loop)(nil)

// Loop is the wall-clock scheduler. Each job runs on its own goroutine, so a
// slow task (e.g. a network poll) never delays the others.
type Loop struct {
	mutex  sync.Mutex
	jobs   map[*loopJob]struct{}
	closed bool
}

func NewLoop() *Loop {
	return &Loop{
		jobs: map[*loopJob]struct{}{},
	}
}

func (l *Loop) Now() time.Time {
	return time.Now()
}

func (l *Loop) Schedule(task Task) Job {
	validate(task)

	ctx, cancel := context.WithCancel(context.Background())
	j := &loopJob{
		name:   task.Name,
		cancel: cancel,
		done:   make(chan struct{}),
		loop:   l,
	}

	l.mutex.Lock()
	if l.closed {
		l.mutex.Unlock()
		log.Warnf("clock loop closed, task [%s] not scheduled", task.Name)
		cancel()
		close(j.done)
		return j
	}
	l.jobs[j] = struct{}{}
	l.mutex.Unlock()

	go j.run(ctx, task)
	return j
}

// Len returns the number of live jobs.
func (l *Loop) Len() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.jobs)
}

// Close stops every job and rejects new ones.
func (l *Loop) Close() {
	l.mutex.Lock()
	l.closed = true
	jobs := make([]*loopJob, 0, len(l.jobs))
	for j := range l.jobs {
		jobs = append(jobs, j)
	}
	l.mutex.Unlock()

	for _, j := range jobs {
		j.Stop()
	}
}

func (l *Loop) remove(j *loopJob) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	delete(l.jobs, j)
}

type loopJob struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	loop   *Loop
}

func (j *loopJob) Name() string {
	return j.name
}

// Stop waits for a running callback to return. It must not be called from
// the job's own Run func.
func (j *loopJob) Stop() {
	j.once.Do(func() {
		j.cancel()
		<-j.done
		j.loop.remove(j)
		log.Tracef("clock job [%s] stopped", j.name)
	})
}

func (j *loopJob) run(ctx context.Context, task Task) {
	defer close(j.done)

	if task.Immediate {
		task.Run(ctx)
	}

	ticker := time.NewTicker(task.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			task.Run(ctx)
		}
	}
}
