// Package clock schedules the periodic work behind a dashboard view.
//
// Every timer a view owns goes through a Scheduler, so tearing the view down
// is a matter of stopping its jobs, and tests can drive virtual time with
// Manual instead of waiting on real intervals.
package clock

import (
	"context"
	"time"
)

type Task struct {
	Name   string
	Period time.Duration
	// Immediate runs the task once at schedule time, before the first period elapses.
	Immediate bool
	Run       func(ctx context.Context)
}

type Job interface {
	Name() string
	// Stop cancels the job context and prevents further runs. It is safe to call more than once.
	Stop()
}

type Scheduler interface {
	Schedule(task Task) Job
	Now() time.Time
}

func validate(task Task) {
	if task.Period <= 0 {
		panic("clock: non-positive period for task " + task.Name)
	}
	if task.Run == nil {
		panic("clock: nil run func for task " + task.Name)
	}
}
