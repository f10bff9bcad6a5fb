package clock

import (
	"context"
	"sync"
	"time"
)

var _ Scheduler = (*Manual)(nil)

// Manual is a virtual-time scheduler. Nothing runs until Advance is called;
// due callbacks then run synchronously on the caller's goroutine, in deadline order.
type Manual struct {
	mutex sync.Mutex
	now   time.Time
	jobs  []*manualJob
	seq   int
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.now
}

func (m *Manual) Schedule(task Task) Job {
	validate(task)

	ctx, cancel := context.WithCancel(context.Background())

	m.mutex.Lock()
	m.seq++
	j := &manualJob{
		name:   task.Name,
		period: task.Period,
		next:   m.now.Add(task.Period),
		run:    task.Run,
		ctx:    ctx,
		cancel: cancel,
		order:  m.seq,
		manual: m,
	}
	m.jobs = append(m.jobs, j)
	m.mutex.Unlock()

	if task.Immediate {
		task.Run(ctx)
	}

	return j
}

// Advance moves virtual time forward by d, firing every callback that falls due.
func (m *Manual) Advance(d time.Duration) {
	m.mutex.Lock()
	target := m.now.Add(d)
	m.mutex.Unlock()

	for {
		m.mutex.Lock()
		j := m.nextDue(target)
		if j == nil {
			m.now = target
			m.mutex.Unlock()
			return
		}
		m.now = j.next
		j.next = j.next.Add(j.period)
		m.mutex.Unlock()

		if j.ctx.Err() == nil {
			j.run(j.ctx)
		}
	}
}

// Pending returns the number of live jobs.
func (m *Manual) Pending() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.jobs)
}

func (m *Manual) nextDue(target time.Time) *manualJob {
	var due *manualJob
	for _, j := range m.jobs {
		if j.next.After(target) {
			continue
		}
		if due == nil || j.next.Before(due.next) || (j.next.Equal(due.next) && j.order < due.order) {
			due = j
		}
	}
	return due
}

func (m *Manual) remove(j *manualJob) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for i, candidate := range m.jobs {
		if candidate == j {
			m.jobs = append(m.jobs[:i], m.jobs[i+1:]...)
			return
		}
	}
}

type manualJob struct {
	name   string
	period time.Duration
	next   time.Time
	run    func(ctx context.Context)
	ctx    context.Context
	cancel context.CancelFunc
	order  int
	once   sync.Once
	manual *Manual
}

func (j *manualJob) Name() string {
	return j.name
}

func (j *manualJob) Stop() {
	j.once.Do(func() {
		j.cancel()
		j.manual.remove(j)
	})
}
