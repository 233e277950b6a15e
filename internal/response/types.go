package response

import (
	"time"

	"github.com/oggyb/portfolio-backend/internal/domain/contact"
	"github.com/oggyb/portfolio-backend/internal/domain/schedule"
)

type IndexPayload struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

type IndexResponse struct {
	Success   bool         `json:"success"`
	Data      IndexPayload `json:"data"`
	Timestamp string       `json:"timestamp"`
}

type HealthPayload struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
	Queue  *QueueHealth      `json:"queue,omitempty"`
}

type QueueHealth struct {
	Ready   int64            `json:"ready"`
	Delayed int64            `json:"delayed"`
	Jobs    map[string]int64 `json:"jobs"`
}

type HealthResponse struct {
	Success   bool          `json:"success"`
	Data      HealthPayload `json:"data"`
	Timestamp string        `json:"timestamp"`
}

type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	Timestamp string    `json:"timestamp"`
}

// ContactMessageDTO is the wire form of a contact message.
type ContactMessageDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Project   string    `json:"project"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactMessageResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message,omitempty"`
	Data      ContactMessageDTO `json:"data"`
	Timestamp string            `json:"timestamp"`
}

type ContactMessagesResponse struct {
	Success    bool                `json:"success"`
	Data       []ContactMessageDTO `json:"data"`
	Pagination Page                `json:"pagination"`
	Timestamp  string              `json:"timestamp"`
}

func FromContactMessage(m *contact.Message) ContactMessageDTO {
	return ContactMessageDTO{
		ID:        m.ID.String(),
		Name:      m.Name,
		Email:     m.Email,
		Project:   m.Project,
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func FromContactMessages(msgs []*contact.Message) []ContactMessageDTO {
	out := make([]ContactMessageDTO, len(msgs))
	for i, m := range msgs {
		out[i] = FromContactMessage(m)
	}
	return out
}

// CallScheduleDTO is the wire form of a call schedule.
type CallScheduleDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	PreferredDate string    `json:"preferred_date" example:"2030-06-16"`
	PreferredTime string    `json:"preferred_time" example:"14:30:00"`
	Timezone      string    `json:"timezone"`
	Topic         string    `json:"topic"`
	Message       string    `json:"message"`
	Status        string    `json:"status" enums:"pending,confirmed,completed,cancelled"`
	IsUpcoming    bool      `json:"is_upcoming"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CallScheduleResponse struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message,omitempty"`
	Data      CallScheduleDTO `json:"data"`
	Timestamp string          `json:"timestamp"`
}

type CallSchedulesResponse struct {
	Success    bool              `json:"success"`
	Data       []CallScheduleDTO `json:"data"`
	Pagination Page              `json:"pagination"`
	Timestamp  string            `json:"timestamp"`
}

// FromCallSchedule converts c; is_upcoming is evaluated against now.
func FromCallSchedule(c *schedule.CallSchedule, now time.Time) CallScheduleDTO {
	return CallScheduleDTO{
		ID:            c.ID.String(),
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		PreferredDate: c.PreferredDate.Format(schedule.DateLayout),
		PreferredTime: c.PreferredTime.String(),
		Timezone:      c.Timezone,
		Topic:         c.Topic,
		Message:       c.Message,
		Status:        string(c.Status),
		IsUpcoming:    c.IsUpcoming(now),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func FromCallSchedules(cs []*schedule.CallSchedule, now time.Time) []CallScheduleDTO {
	out := make([]CallScheduleDTO, len(cs))
	for i, c := range cs {
		out[i] = FromCallSchedule(c, now)
	}
	return out
}
