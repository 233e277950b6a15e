package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/oggyb/portfolio-backend/internal/domain/contact"
	"github.com/oggyb/portfolio-backend/internal/domain/schedule"
	"github.com/oggyb/portfolio-backend/internal/mail"
)

// ContactRepo is a contact.Repository whose methods delegate to the
// optional func fields.
type ContactRepo struct {
	SaveFunc    func(ctx context.Context, m *contact.Message) error
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*contact.Message, error)
	ListFunc    func(ctx context.Context, f contact.ListFilter) ([]*contact.Message, error)
	SetReadFunc func(ctx context.Context, id uuid.UUID, read bool) (*contact.Message, error)
}

func (r *ContactRepo) Save(ctx context.Context, m *contact.Message) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, m)
	}
	return nil
}

func (r *ContactRepo) GetByID(ctx context.Context, id uuid.UUID) (*contact.Message, error) {
	if r.GetByIDFunc != nil {
		return r.GetByIDFunc(ctx, id)
	}
	return nil, contact.ErrNotFound
}

func (r *ContactRepo) List(ctx context.Context, f contact.ListFilter) ([]*contact.Message, error) {
	if r.ListFunc != nil {
		return r.ListFunc(ctx, f)
	}
	return nil, nil
}

func (r *ContactRepo) SetRead(ctx context.Context, id uuid.UUID, read bool) (*contact.Message, error) {
	if r.SetReadFunc != nil {
		return r.SetReadFunc(ctx, id, read)
	}
	return nil, contact.ErrNotFound
}

// ScheduleRepo is a schedule.Repository whose methods delegate to the
// optional func fields.
type ScheduleRepo struct {
	SaveFunc         func(ctx context.Context, c *schedule.CallSchedule) error
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*schedule.CallSchedule, error)
	ListFunc         func(ctx context.Context, f schedule.ListFilter) ([]*schedule.CallSchedule, error)
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, s schedule.Status) (*schedule.CallSchedule, error)
}

func (r *ScheduleRepo) Save(ctx context.Context, c *schedule.CallSchedule) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, c)
	}
	return nil
}

func (r *ScheduleRepo) GetByID(ctx context.Context, id uuid.UUID) (*schedule.CallSchedule, error) {
	if r.GetByIDFunc != nil {
		return r.GetByIDFunc(ctx, id)
	}
	return nil, schedule.ErrNotFound
}

func (r *ScheduleRepo) List(ctx context.Context, f schedule.ListFilter) ([]*schedule.CallSchedule, error) {
	if r.ListFunc != nil {
		return r.ListFunc(ctx, f)
	}
	return nil, nil
}

func (r *ScheduleRepo) UpdateStatus(ctx context.Context, id uuid.UUID, s schedule.Status) (*schedule.CallSchedule, error) {
	if r.UpdateStatusFunc != nil {
		return r.UpdateStatusFunc(ctx, id, s)
	}
	return nil, schedule.ErrNotFound
}

// Sender records every message. FailFunc, when set, decides per message
// whether the send fails; failed messages are recorded too.
type Sender struct {
	FailFunc func(msg mail.Message) error

	mu   sync.Mutex
	sent []mail.Message
}

func (s *Sender) Send(ctx context.Context, msg mail.Message) error {
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()

	if s.FailFunc != nil {
		if err := s.FailFunc(msg); err != nil {
			return &mail.DeliveryError{To: msg.To, Err: err}
		}
	}
	return nil
}

func (s *Sender) Health(ctx context.Context) error { return nil }

// Sent returns a copy of the recorded messages.
func (s *Sender) Sent() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mail.Message(nil), s.sent...)
}

// SentTo returns the recorded messages whose first recipient is addr.
func (s *Sender) SentTo(addr string) []mail.Message {
	var out []mail.Message
	for _, m := range s.Sent() {
		if len(m.To) > 0 && m.To[0] == addr {
			out = append(out, m)
		}
	}
	return out
}

var (
	_ contact.Repository  = (*ContactRepo)(nil)
	_ schedule.Repository = (*ScheduleRepo)(nil)
	_ mail.Sender         = (*Sender)(nil)
)
