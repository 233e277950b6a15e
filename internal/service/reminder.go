package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oggyb/portfolio-backend/internal/cache"
	"github.com/oggyb/portfolio-backend/internal/domain/schedule"
	"github.com/sirupsen/logrus"
)

// ReminderSender delivers one reminder email.
type ReminderSender interface {
	SendReminder(ctx context.Context, c *schedule.CallSchedule) error
}

// ReminderService is driven by the scheduler once a day.
type ReminderService interface {
	ProcessBatch(ctx context.Context) error
	// Forget drops the sent marker of a call so a later scan may remind it again.
	Forget(ctx context.Context, id uuid.UUID) error
}

// ReminderOptions configures the scan. A call is due when its scheduled
// instant falls in [now+Lead-Window/2, now+Lead+Window/2).
type ReminderOptions struct {
	Lead              time.Duration
	Window            time.Duration
	MaxWorkers        int
	PerMessageTimeout time.Duration
	// ClaimTTL is how long a sent reminder is remembered.
	ClaimTTL time.Duration
}

type reminderService struct {
	repo   schedule.Repository
	sender ReminderSender
	cache  cache.Cache
	opts   ReminderOptions
	log    logrus.FieldLogger
	now    func() time.Time
}

// NewReminderService creates the daily reminder scan. cache may be nil, in
// which case a re-run of the scan sends reminders again.
func NewReminderService(
	repo schedule.Repository,
	sender ReminderSender,
	c cache.Cache,
	opts ReminderOptions,
	log logrus.FieldLogger,
) ReminderService {
	if opts.Lead <= 0 {
		opts.Lead = 24 * time.Hour
	}
	if opts.Window <= 0 {
		opts.Window = 24 * time.Hour
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 4
	}
	if opts.PerMessageTimeout <= 0 {
		opts.PerMessageTimeout = 15 * time.Second
	}
	if opts.ClaimTTL <= 0 {
		opts.ClaimTTL = 72 * time.Hour
	}

	return &reminderService{
		repo:   repo,
		sender: sender,
		cache:  c,
		opts:   opts,
		log:    log.WithField("component", "reminder"),
		now:    time.Now,
	}
}

// ProcessBatch finds open calls starting about Lead from now and sends each
// one reminder using a small worker pool. Send failures are logged only.
func (s *reminderService) ProcessBatch(ctx context.Context) error {
	due, err := s.dueCalls(ctx)
	if err != nil {
		return err
	}

	if len(due) == 0 {
		s.log.Info("no calls due for a reminder")
		return nil
	}

	workerCount := min(len(due), s.opts.MaxWorkers)
	s.log.WithFields(logrus.Fields{
		"count":   len(due),
		"workers": workerCount,
	}).Info("sending call reminders")

	var wg sync.WaitGroup

	// Worker w handles indices w, w+workerCount, w+2*workerCount, ...
	for w := 0; w < workerCount; w++ {
		wg.Add(1)

		go func(workerID, start int) {
			defer wg.Done()
			log := s.log.WithField("worker_id", workerID)

			for i := start; i < len(due); i += workerCount {
				if ctx.Err() != nil {
					log.Warn("context cancelled, stopping worker")
					return
				}

				callCtx, cancel := context.WithTimeout(ctx, s.opts.PerMessageTimeout)
				s.remind(callCtx, log, due[i])
				cancel()
			}
		}(w+1, w)
	}

	wg.Wait()

	s.log.Info("reminder batch completed")
	return nil
}

func (s *reminderService) dueCalls(ctx context.Context) ([]*schedule.CallSchedule, error) {
	now := s.now()
	from := now.Add(s.opts.Lead - s.opts.Window/2)
	to := now.Add(s.opts.Lead + s.opts.Window/2)

	// Dates are stored without zone; widen by a day on each side so every
	// zone offset is covered, then filter on the exact instant.
	fromDate := dateOnly(from).AddDate(0, 0, -1)
	toDate := dateOnly(to).AddDate(0, 0, 1)

	calls, err := s.repo.List(ctx, schedule.ListFilter{
		Statuses: []schedule.Status{schedule.StatusPending, schedule.StatusConfirmed},
		FromDate: &fromDate,
		ToDate:   &toDate,
	})
	if err != nil {
		return nil, fmt.Errorf("list reminder candidates: %w", err)
	}

	due := calls[:0]
	for _, c := range calls {
		at := c.ScheduledAt()
		if !at.Before(from) && at.Before(to) {
			due = append(due, c)
		}
	}
	return due, nil
}

func (s *reminderService) remind(ctx context.Context, log logrus.FieldLogger, c *schedule.CallSchedule) {
	log = log.WithField("record_id", c.ID.String())

	if s.cache != nil {
		claimed, err := s.cache.SetNX(ctx, cache.ReminderSent.Key(c.ID.String()), s.now().UTC().Format(time.RFC3339), s.opts.ClaimTTL)
		if err != nil {
			log.WithError(err).Warn("reminder claim failed, sending anyway")
		} else if !claimed {
			log.Debug("reminder already sent")
			return
		}
	}

	if err := s.sender.SendReminder(ctx, c); err != nil {
		log.WithError(err).Error("reminder not delivered")
		return
	}
	log.Info("reminder sent")
}

func (s *reminderService) Forget(ctx context.Context, id uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Del(ctx, cache.ReminderSent.Key(id.String())); err != nil {
		return fmt.Errorf("forget reminder for %s: %w", id, err)
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
