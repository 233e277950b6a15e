package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oggyb/portfolio-backend/internal/domain/contact"
	"github.com/oggyb/portfolio-backend/internal/queue"
	"github.com/sirupsen/logrus"
)

type ContactService interface {
	Submit(ctx context.Context, s contact.Submission) (*contact.Message, error)
	List(ctx context.Context, f contact.ListFilter) ([]*contact.Message, error)
	Get(ctx context.Context, id uuid.UUID) (*contact.Message, error)
	SetRead(ctx context.Context, id uuid.UUID, read bool) (*contact.Message, error)
}

type contactService struct {
	repo       contact.Repository
	dispatcher Dispatcher
	log        logrus.FieldLogger
	now        func() time.Time
}

func NewContactService(repo contact.Repository, dispatcher Dispatcher, log logrus.FieldLogger) ContactService {
	return &contactService{
		repo:       repo,
		dispatcher: dispatcher,
		log:        log.WithField("component", "contact"),
		now:        time.Now,
	}
}

// Submit validates and stores a message, then triggers its notifications.
// Validation failures are returned as validation.Errors and nothing is stored.
func (s *contactService) Submit(ctx context.Context, sub contact.Submission) (*contact.Message, error) {
	msg, err := contact.NewMessage(sub, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, fmt.Errorf("save contact message: %w", err)
	}

	s.log.WithField("record_id", msg.ID.String()).Info("contact message received")
	s.dispatcher.Dispatch(ctx, queue.KindContactCreated, msg.ID)

	return msg, nil
}

func (s *contactService) List(ctx context.Context, f contact.ListFilter) ([]*contact.Message, error) {
	return s.repo.List(ctx, f)
}

func (s *contactService) Get(ctx context.Context, id uuid.UUID) (*contact.Message, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *contactService) SetRead(ctx context.Context, id uuid.UUID, read bool) (*contact.Message, error) {
	msg, err := s.repo.SetRead(ctx, id, read)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"record_id": id.String(), "is_read": read}).Info("contact message updated")
	return msg, nil
}
