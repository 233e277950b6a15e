package queue

import (
	"context"
	"time"
)

// Broker stores jobs until a worker pops them.
//
// Jobs are either ready (Push) or delayed until a run-at time (Schedule).
// Delayed jobs become ready once Promote is called with a time at or past
// their run-at.
type Broker interface {
	// Push makes a job immediately available.
	Push(ctx context.Context, job Job) error

	// Schedule stores a job that becomes available at runAt.
	Schedule(ctx context.Context, job Job, runAt time.Time) error

	// Pop blocks up to timeout for a ready job. ok is false on timeout.
	Pop(ctx context.Context, timeout time.Duration) (job Job, ok bool, err error)

	// Promote moves delayed jobs due at now to the ready list and returns
	// how many were moved.
	Promote(ctx context.Context, now time.Time) (int, error)

	// Ping checks if the broker is reachable.
	Ping(ctx context.Context) error

	// Len reports the number of ready and delayed jobs.
	Len(ctx context.Context) (ready, delayed int64, err error)
}
