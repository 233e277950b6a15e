package queue

import (
	"context"
	"sort"
	"sync"
	"time"
)

var _ Broker = (*MemoryBroker)(nil)

type delayedJob struct {
	job   Job
	runAt time.Time
}

// MemoryBroker is an in-process Broker. Jobs are lost when the process exits.
type MemoryBroker struct {
	mu      sync.Mutex
	ready   []Job
	delayed []delayedJob
	notify  chan struct{}

	// Unavailable makes Push and Schedule fail with ErrUnavailable.
	Unavailable bool
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{notify: make(chan struct{}, 1)}
}

func (b *MemoryBroker) Push(ctx context.Context, job Job) error {
	b.mu.Lock()
	if b.Unavailable {
		b.mu.Unlock()
		return ErrUnavailable
	}
	b.ready = append(b.ready, job)
	b.mu.Unlock()

	b.wake()
	return nil
}

func (b *MemoryBroker) Schedule(ctx context.Context, job Job, runAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Unavailable {
		return ErrUnavailable
	}
	b.delayed = append(b.delayed, delayedJob{job: job, runAt: runAt})
	return nil
}

func (b *MemoryBroker) Pop(ctx context.Context, timeout time.Duration) (Job, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		b.mu.Lock()
		if len(b.ready) > 0 {
			job := b.ready[0]
			b.ready = b.ready[1:]
			b.mu.Unlock()
			return job, true, nil
		}
		b.mu.Unlock()

		select {
		case <-b.notify:
		case <-timer.C:
			return Job{}, false, nil
		case <-ctx.Done():
			return Job{}, false, ctx.Err()
		}
	}
}

func (b *MemoryBroker) Promote(ctx context.Context, now time.Time) (int, error) {
	b.mu.Lock()

	sort.SliceStable(b.delayed, func(i, j int) bool {
		return b.delayed[i].runAt.Before(b.delayed[j].runAt)
	})

	n := 0
	for n < len(b.delayed) && !b.delayed[n].runAt.After(now) {
		b.ready = append(b.ready, b.delayed[n].job)
		n++
	}
	b.delayed = b.delayed[n:]
	b.mu.Unlock()

	if n > 0 {
		b.wake()
	}
	return n, nil
}

func (b *MemoryBroker) Ping(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Unavailable {
		return ErrUnavailable
	}
	return nil
}

func (b *MemoryBroker) Len(ctx context.Context) (int64, int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return int64(len(b.ready)), int64(len(b.delayed)), nil
}

// SetUnavailable toggles the failure mode.
func (b *MemoryBroker) SetUnavailable(v bool) {
	b.mu.Lock()
	b.Unavailable = v
	b.mu.Unlock()
}

func (b *MemoryBroker) wake() {
	select {
	case b.notify <- struct{}{}:
	default:
	}
}
