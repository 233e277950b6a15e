// Package worker runs queued notification jobs.
//
// A Pool pops ready jobs from a queue.Broker with a fixed number of
// goroutines and owns the retry policy: a Retry result is scheduled again
// after a fixed backoff until the job has been attempted MaxAttempts times,
// after which it is abandoned. A separate promoter goroutine moves delayed
// jobs to the ready list.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oggyb/portfolio-backend/internal/queue"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency  = 4
	DefaultMaxAttempts  = 3
	DefaultRetryBackoff = 60 * time.Second
	DefaultJobTimeout   = 30 * time.Second
	DefaultPollInterval = time.Second
)

// Options configures a Pool. Zero values fall back to the defaults above.
type Options struct {
	Concurrency  int
	MaxAttempts  int
	RetryBackoff time.Duration
	JobTimeout   time.Duration
	PollInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = DefaultRetryBackoff
	}
	if o.JobTimeout <= 0 {
		o.JobTimeout = DefaultJobTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	return o
}

// Pool consumes jobs from a broker.
type Pool struct {
	broker  queue.Broker
	handler queue.Handler
	stats   *queue.Stats
	log     logrus.FieldLogger
	opts    Options
	now     func() time.Time
}

func NewPool(
	broker queue.Broker,
	handler queue.Handler,
	stats *queue.Stats,
	log logrus.FieldLogger,
	opts Options,
) *Pool {
	return &Pool{
		broker:  broker,
		handler: handler,
		stats:   stats,
		log:     log.WithField("component", "worker"),
		opts:    opts.withDefaults(),
		now:     time.Now,
	}
}

// Run blocks until ctx is cancelled. Jobs already started when ctx is
// cancelled run to completion (bounded by JobTimeout) before Run returns.
func (p *Pool) Run(ctx context.Context) error {
	p.log.WithFields(logrus.Fields{
		"concurrency":   p.opts.Concurrency,
		"max_attempts":  p.opts.MaxAttempts,
		"retry_backoff": p.opts.RetryBackoff.String(),
	}).Info("worker pool started")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p.promote(gctx)
		return nil
	})
	for i := 0; i < p.opts.Concurrency; i++ {
		workerID := i + 1
		g.Go(func() error {
			p.consume(gctx, workerID)
			return nil
		})
	}

	err := g.Wait()
	p.log.Info("worker pool stopped")
	return err
}

func (p *Pool) promote(ctx context.Context) {
	ticker := time.NewTicker(p.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.broker.Promote(ctx, p.now())
			if err != nil {
				if ctx.Err() == nil {
					p.log.WithError(err).Warn("promote delayed jobs failed")
				}
				continue
			}
			if n > 0 {
				p.log.WithField("count", n).Debug("promoted delayed jobs")
			}
		}
	}
}

func (p *Pool) consume(ctx context.Context, workerID int) {
	log := p.log.WithField("worker_id", workerID)

	for ctx.Err() == nil {
		job, ok, err := p.broker.Pop(ctx, p.opts.PollInterval)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.WithError(err).Warn("pop failed")
			sleep(ctx, p.opts.PollInterval)
			continue
		}
		if !ok {
			continue
		}

		// In-flight jobs are not cut short by shutdown.
		p.Process(context.WithoutCancel(ctx), job)
	}
}

// Process runs one attempt of job and applies the retry policy to its result.
func (p *Pool) Process(ctx context.Context, job queue.Job) queue.Result {
	job.Attempt++
	log := p.log.WithFields(logrus.Fields{
		"job_id":    job.ID.String(),
		"kind":      string(job.Kind),
		"record_id": job.RecordID.String(),
		"attempt":   job.Attempt,
	})

	res := p.run(ctx, job)

	switch res.Outcome {
	case queue.OutcomeOK:
		log.Info("job succeeded")
		p.count(ctx, queue.StatSucceeded)

	case queue.OutcomeFatal:
		log.WithError(res.Err).Error("job failed permanently")
		p.count(ctx, queue.StatFailed)

	case queue.OutcomeRetry:
		if job.Attempt >= p.opts.MaxAttempts {
			log.WithError(res.Err).Error("job abandoned after max attempts")
			p.count(ctx, queue.StatAbandoned)
			break
		}

		job.LastError = errString(res.Err)
		runAt := p.now().Add(p.opts.RetryBackoff)
		if err := p.broker.Schedule(ctx, job, runAt); err != nil {
			log.WithError(errors.Join(res.Err, err)).Error("job abandoned, retry could not be scheduled")
			p.count(ctx, queue.StatAbandoned)
			break
		}
		log.WithError(res.Err).WithField("run_at", runAt).Warn("job scheduled for retry")
		p.count(ctx, queue.StatRetried)
	}

	return res
}

// run calls the handler under JobTimeout. A panic counts as a retryable failure.
func (p *Pool) run(ctx context.Context, job queue.Job) (res queue.Result) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.JobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			res = queue.Retry(fmt.Errorf("handler panic: %v", r))
		}
	}()

	return p.handler.Handle(ctx, job)
}

func (p *Pool) count(ctx context.Context, name string) {
	if err := p.stats.Incr(ctx, name); err != nil {
		p.log.WithError(err).WithField("counter", name).Debug("job counter not updated")
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
