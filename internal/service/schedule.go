package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oggyb/portfolio-backend/internal/domain/schedule"
	"github.com/oggyb/portfolio-backend/internal/queue"
	"github.com/sirupsen/logrus"
)

type ScheduleService interface {
	Submit(ctx context.Context, s schedule.Submission) (*schedule.CallSchedule, error)
	List(ctx context.Context, f schedule.ListFilter) ([]*schedule.CallSchedule, error)
	// Upcoming lists pending or confirmed calls dated today or later.
	Upcoming(ctx context.Context, limit, offset int) ([]*schedule.CallSchedule, error)
	Get(ctx context.Context, id uuid.UUID) (*schedule.CallSchedule, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, st schedule.Status) (*schedule.CallSchedule, error)
	// Now is the clock used for validation and is_upcoming.
	Now() time.Time
}

type scheduleService struct {
	repo       schedule.Repository
	dispatcher Dispatcher
	defaultTZ  string
	log        logrus.FieldLogger
	now        func() time.Time
}

func NewScheduleService(
	repo schedule.Repository,
	dispatcher Dispatcher,
	defaultTZ string,
	log logrus.FieldLogger,
) ScheduleService {
	if defaultTZ == "" {
		defaultTZ = "UTC"
	}
	return &scheduleService{
		repo:       repo,
		dispatcher: dispatcher,
		defaultTZ:  defaultTZ,
		log:        log.WithField("component", "schedule"),
		now:        time.Now,
	}
}

func (s *scheduleService) Now() time.Time { return s.now() }

// Submit validates and stores a call request, then triggers its
// notifications. A call whose date and time are not in the future is
// rejected before anything is stored or queued.
func (s *scheduleService) Submit(ctx context.Context, sub schedule.Submission) (*schedule.CallSchedule, error) {
	c, err := schedule.NewCallSchedule(sub, s.defaultTZ, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save call schedule: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"record_id":    c.ID.String(),
		"scheduled_at": c.ScheduledAt().UTC(),
	}).Info("call scheduled")
	s.dispatcher.Dispatch(ctx, queue.KindScheduleCreated, c.ID)

	return c, nil
}

func (s *scheduleService) List(ctx context.Context, f schedule.ListFilter) ([]*schedule.CallSchedule, error) {
	return s.repo.List(ctx, f)
}

func (s *scheduleService) Upcoming(ctx context.Context, limit, offset int) ([]*schedule.CallSchedule, error) {
	today := s.today()
	return s.repo.List(ctx, schedule.ListFilter{
		Statuses: []schedule.Status{schedule.StatusPending, schedule.StatusConfirmed},
		FromDate: &today,
		Limit:    limit,
		Offset:   offset,
	})
}

func (s *scheduleService) Get(ctx context.Context, id uuid.UUID) (*schedule.CallSchedule, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *scheduleService) UpdateStatus(ctx context.Context, id uuid.UUID, st schedule.Status) (*schedule.CallSchedule, error) {
	c, err := s.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"record_id": id.String(), "status": string(st)}).Info("call status updated")
	return c, nil
}

// today is the current calendar date in the default time zone, at 00:00 UTC
// like stored PreferredDate values.
func (s *scheduleService) today() time.Time {
	loc, err := time.LoadLocation(s.defaultTZ)
	if err != nil {
		loc = time.UTC
	}
	n := s.now().In(loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}
