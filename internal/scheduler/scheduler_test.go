package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

// fakeBatchProcessor counts ProcessBatch calls, signals when a batch starts
// and can block until explicitly released.
type fakeBatchProcessor struct {
	callCount int32

	started chan struct{}
	mu      sync.Mutex
	block   chan struct{}
	err     error
}

func newFakeBatchProcessor() *fakeBatchProcessor {
	return &fakeBatchProcessor{
		started: make(chan struct{}, 1),
		block:   make(chan struct{}),
	}
}

func (f *fakeBatchProcessor) ProcessBatch(ctx context.Context) error {
	atomic.AddInt32(&f.callCount, 1)

	select {
	case f.started <- struct{}{}:
	default:
	}

	f.mu.Lock()
	block := f.block
	f.mu.Unlock()

	select {
	case <-block:
	case <-ctx.Done():
	}

	return f.err
}

func (f *fakeBatchProcessor) release() {
	f.mu.Lock()
	close(f.block)
	f.mu.Unlock()
}

func (f *fakeBatchProcessor) rearm() {
	f.mu.Lock()
	f.block = make(chan struct{})
	f.mu.Unlock()
}

func newScheduler(p BatchProcessor, interval, batchTimeout time.Duration) SchedulerService {
	log, _ := test.NewNullLogger()
	return NewSchedulerService(p, Every(interval), batchTimeout, log)
}

func TestScheduler_StartTriggersBatch(t *testing.T) {
	fake := newFakeBatchProcessor()
	s := newScheduler(fake, 10*time.Millisecond, 2*time.Second)

	assert.NoError(t, s.Start())
	defer func() {
		fake.release()
		_ = s.Stop()
	}()

	select {
	case <-fake.started:
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("expected ProcessBatch to be called after Start, but it wasn't")
	}

	assert.True(t, s.IsRunning(), "IsRunning answers while a batch is in flight")
}

func TestScheduler_NotStartedDoesNothing(t *testing.T) {
	fake := newFakeBatchProcessor()
	s := newScheduler(fake, 5*time.Millisecond, time.Second)

	time.Sleep(50 * time.Millisecond)

	assert.False(t, s.IsRunning())
	assert.Zero(t, atomic.LoadInt32(&fake.callCount))
}

func TestScheduler_StopWaitsForBatchCompletion(t *testing.T) {
	fake := newFakeBatchProcessor()
	s := newScheduler(fake, 5*time.Millisecond, 2*time.Second)

	assert.NoError(t, s.Start())

	select {
	case <-fake.started:
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("ProcessBatch was not called in time")
	}

	done := make(chan struct{})
	go func() {
		_ = s.Stop()
		close(done)
	}()

	select {
	case <-done:
		t.Fatalf("Stop() returned before batch finished")
	case <-time.After(50 * time.Millisecond):
	}

	fake.release()

	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("Stop() did not return after batch completion")
	}

	assert.False(t, s.IsRunning())
}

func TestScheduler_StartStopStartFlow(t *testing.T) {
	fake := newFakeBatchProcessor()
	s := newScheduler(fake, 10*time.Millisecond, 2*time.Second)

	assert.NoError(t, s.Start())
	select {
	case <-fake.started:
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("first Start: ProcessBatch was not called")
	}

	fake.release()
	assert.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())

	fake.rearm()

	assert.NoError(t, s.Start())
	assert.True(t, s.IsRunning())

	select {
	case <-fake.started:
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("second Start: ProcessBatch was not called")
	}

	fake.release()
	assert.NoError(t, s.Stop())
}

func TestScheduler_BatchErrorKeepsRunning(t *testing.T) {
	fake := newFakeBatchProcessor()
	fake.err = errors.New("db down")
	fake.release()
	s := newScheduler(fake, 5*time.Millisecond, time.Second)

	assert.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&fake.callCount) >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_RaceStartStop(t *testing.T) {
	fake := newFakeBatchProcessor()
	s := newScheduler(fake, 5*time.Millisecond, 50*time.Millisecond)

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			_ = s.Start()
		}()

		go func() {
			defer wg.Done()
			_ = s.Stop()
		}()
	}

	wg.Wait()
}

func TestEvery_Next(t *testing.T) {
	now := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(time.Minute), Every(time.Minute).Next(now))
	assert.Equal(t, now.Add(DefaultInterval), Every(0).Next(now))
}

func TestDailyAt_Next(t *testing.T) {
	ist, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	s := DailyAt(9, 0, ist)

	// 05:00 UTC is 08:00 in Istanbul: fires later the same day.
	next := s.Next(time.Date(2030, 3, 10, 5, 0, 0, 0, time.UTC))
	assert.True(t, next.Equal(time.Date(2030, 3, 10, 6, 0, 0, 0, time.UTC)))

	// Exactly at the trigger time: fires the next day.
	next = s.Next(time.Date(2030, 3, 10, 6, 0, 0, 0, time.UTC))
	assert.True(t, next.Equal(time.Date(2030, 3, 11, 6, 0, 0, 0, time.UTC)))

	// Month rollover.
	next = DailyAt(9, 30, nil).Next(time.Date(2030, 1, 31, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2030, 2, 1, 9, 30, 0, 0, time.UTC), next)
}
