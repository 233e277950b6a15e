package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oggyb/portfolio-backend/internal/queue"
	"github.com/sirupsen/logrus"
)

const (
	DefaultEnqueueTimeout = 2 * time.Second
	DefaultJobTimeout     = 30 * time.Second
)

// Dispatcher queues a notification job per created record. When the broker
// cannot take the job, the handler runs inline exactly once.
type Dispatcher struct {
	broker         queue.Broker
	handler        queue.Handler
	stats          *queue.Stats
	enqueueTimeout time.Duration
	jobTimeout     time.Duration
	log            logrus.FieldLogger
	now            func() time.Time
}

func NewDispatcher(
	broker queue.Broker,
	handler queue.Handler,
	stats *queue.Stats,
	enqueueTimeout time.Duration,
	jobTimeout time.Duration,
	log logrus.FieldLogger,
) *Dispatcher {
	if enqueueTimeout <= 0 {
		enqueueTimeout = DefaultEnqueueTimeout
	}
	if jobTimeout <= 0 {
		jobTimeout = DefaultJobTimeout
	}
	return &Dispatcher{
		broker:         broker,
		handler:        handler,
		stats:          stats,
		enqueueTimeout: enqueueTimeout,
		jobTimeout:     jobTimeout,
		log:            log.WithField("component", "dispatcher"),
		now:            time.Now,
	}
}

// Dispatch never fails the caller: enqueue errors switch to the inline path
// and inline failures are logged.
func (d *Dispatcher) Dispatch(ctx context.Context, kind queue.Kind, recordID uuid.UUID) {
	job := queue.NewJob(kind, recordID, d.now())
	log := d.log.WithFields(logrus.Fields{
		"job_id":    job.ID.String(),
		"kind":      string(kind),
		"record_id": recordID.String(),
	})

	enqCtx, cancel := context.WithTimeout(ctx, d.enqueueTimeout)
	err := d.broker.Push(enqCtx, job)
	cancel()
	if err == nil {
		log.Debug("notification job queued")
		return
	}

	log.WithError(err).Warn("enqueue failed, sending notification inline")
	if err := d.stats.Incr(ctx, queue.StatFallback); err != nil {
		log.WithError(err).Debug("fallback counter not updated")
	}

	// The request may finish before the send does.
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.jobTimeout)
	defer cancel()

	job.Attempt = 1
	res := d.handler.Handle(runCtx, job)
	if res.Outcome != queue.OutcomeOK {
		log.WithError(res.Err).WithField("outcome", res.Outcome.String()).Error("inline notification failed")
		return
	}
	log.Info("inline notification sent")
}
