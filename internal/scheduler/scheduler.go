// Package scheduler triggers a BatchProcessor on a Schedule and exposes
// start/stop controls that wait for an in-flight batch.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// BatchProcessor is the dependency that actually does the work.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context) error
}

// SchedulerService exposes a small control surface for the scheduler.
// Start/Stop are synchronous controls, and IsRunning reports
// whether the scheduler is currently accepting triggers.
type SchedulerService interface {
	Start() error
	Stop() error
	IsRunning() bool
}

// DefaultInterval is used by Every when no positive interval is given.
const DefaultInterval = 2 * time.Minute

// DefaultBatchTimeout bounds a single batch run.
const DefaultBatchTimeout = 30 * time.Second

// controlTimeout is how long we wait for the control loop to
// accept a Start/Stop command and acknowledge it.
const controlTimeout = 2 * time.Second

type controlOp int

const (
	opStart controlOp = iota
	opStop
	opStatus
)

type controlMsg struct {
	op   controlOp
	resp chan bool
}

// schedulerService runs the control loop. All mutable state lives in the
// loop goroutine.
type schedulerService struct {
	processor    BatchProcessor
	schedule     Schedule
	batchTimeout time.Duration
	ctrl         chan controlMsg
	log          logrus.FieldLogger
	now          func() time.Time
}

// NewSchedulerService creates a stopped scheduler. Call Start to begin
// firing batches on sched.
func NewSchedulerService(
	processor BatchProcessor,
	sched Schedule,
	batchTimeout time.Duration,
	log logrus.FieldLogger,
) SchedulerService {
	if sched == nil {
		sched = Every(DefaultInterval)
	}
	if batchTimeout <= 0 {
		batchTimeout = DefaultBatchTimeout
	}

	s := &schedulerService{
		processor:    processor,
		schedule:     sched,
		batchTimeout: batchTimeout,
		ctrl:         make(chan controlMsg),
		log:          log.WithField("component", "scheduler"),
		now:          time.Now,
	}

	go s.loop()

	return s
}

// Start tells the scheduler to begin firing batches.
// It blocks until the internal loop has acknowledged the state change.
func (s *schedulerService) Start() error {
	return s.send(opStart, "Start")
}

// Stop tells the scheduler to stop firing batches. If a batch is running,
// Stop waits until it finishes (or times out) before returning.
func (s *schedulerService) Stop() error {
	return s.send(opStop, "Stop")
}

func (s *schedulerService) send(op controlOp, name string) error {
	resp := make(chan bool, 1)

	select {
	case s.ctrl <- controlMsg{op: op, resp: resp}:
	case <-time.After(controlTimeout):
		return fmt.Errorf("scheduler %s: control loop not responding", name)
	}

	// Stop may wait for a batch, which is bounded by batchTimeout.
	wait := controlTimeout
	if op == opStop {
		wait += s.batchTimeout
	}

	select {
	case <-resp:
		return nil
	case <-time.After(wait):
		return fmt.Errorf("scheduler %s: acknowledgement timeout", name)
	}
}

// IsRunning reports whether the scheduler is in "running" mode. It does not
// mean a batch is executing.
func (s *schedulerService) IsRunning() bool {
	resp := make(chan bool, 1)
	s.ctrl <- controlMsg{op: opStatus, resp: resp}
	return <-resp
}

type batchDone struct {
	err error
}

func (s *schedulerService) loop() {
	timer := time.NewTimer(time.Hour)
	stopTimer(timer)

	running := false
	inBatch := false
	done := make(chan batchDone, 1)

	// pendingStop is answered once the current batch finishes.
	var pendingStop chan bool

	arm := func() {
		next := s.schedule.Next(s.now())
		timer.Reset(time.Until(next))
		s.log.WithField("next_run", next).Debug("next batch scheduled")
	}

	for {
		select {
		case msg := <-s.ctrl:
			switch msg.op {
			case opStart:
				if !running {
					s.log.WithFields(logrus.Fields{
						"schedule":      fmt.Sprint(s.schedule),
						"batch_timeout": s.batchTimeout.String(),
					}).Info("scheduler started")
					running = true
					if !inBatch {
						arm()
					}
				}
				msg.resp <- true

			case opStop:
				if !running && !inBatch {
					s.log.Debug("stop requested, already idle")
					msg.resp <- true
					continue
				}

				running = false
				stopTimer(timer)

				if inBatch {
					s.log.Info("stop requested, waiting for current batch")
					pendingStop = msg.resp
				} else {
					s.log.Info("scheduler stopped")
					msg.resp <- true
				}

			case opStatus:
				msg.resp <- running
			}

		case <-timer.C:
			if !running || inBatch {
				continue
			}

			inBatch = true
			s.log.Info("triggering batch")

			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), s.batchTimeout)
				defer cancel()
				done <- batchDone{err: s.processor.ProcessBatch(ctx)}
			}()

		case res := <-done:
			inBatch = false

			if res.err != nil {
				s.log.WithError(res.err).Error("batch failed")
			} else {
				s.log.Info("batch completed")
			}

			if pendingStop != nil {
				pendingStop <- true
				pendingStop = nil
				s.log.Info("scheduler stopped")
			}
			if running {
				arm()
			}
		}
	}
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
