// Package contact holds the domain model and invariants for contact-form messages.
package contact

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oggyb/portfolio-backend/internal/validation"
)

// ErrNotFound is returned when no message exists for an id.
var ErrNotFound = errors.New("contact message not found")

// Submission is the raw input of the public contact form.
type Submission struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Project string `json:"project" validate:"omitempty,max=300"`
	Message string `json:"message" validate:"required,min=10"`
}

var messages = map[string]string{
	"name.required":    "Name must be at least 2 characters long.",
	"name.min":         "Name must be at least 2 characters long.",
	"email.required":   "Please provide a valid email address.",
	"email.email":      "Please provide a valid email address.",
	"message.required": "Message must be at least 10 characters long.",
	"message.min":      "Message must be at least 10 characters long.",
}

// Message is a stored contact-form submission.
type Message struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Project   string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

// Normalize trims every field and lower-cases the email.
func (s Submission) Normalize() Submission {
	return Submission{
		Name:    strings.TrimSpace(s.Name),
		Email:   validation.NormalizeEmail(s.Email),
		Project: strings.TrimSpace(s.Project),
		Message: strings.TrimSpace(s.Message),
	}
}

// Validate normalizes s and checks it, returning every violated rule.
func (s Submission) Validate() (Submission, error) {
	n := s.Normalize()
	return n, validation.Struct(n, messages).Err()
}

// NewMessage validates a submission and builds an unread Message.
func NewMessage(s Submission, now time.Time) (*Message, error) {
	n, err := s.Validate()
	if err != nil {
		return nil, err
	}

	return &Message{
		ID:        uuid.New(),
		Name:      n.Name,
		Email:     n.Email,
		Project:   n.Project,
		Message:   n.Message,
		IsRead:    false,
		CreatedAt: now,
	}, nil
}
