// Package schedule holds the domain model and invariants for call-scheduling requests.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oggyb/portfolio-backend/internal/validation"
)

// DateLayout is the wire and storage format of PreferredDate.
const DateLayout = time.DateOnly

// TimeOfDay is the wall-clock part of a scheduled call.
type TimeOfDay = validation.TimeOfDay

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var (
	// ErrNotFound is returned when no call schedule exists for an id.
	ErrNotFound = errors.New("call schedule not found")
	// ErrInvalidStatus is returned for a status outside the four known values.
	ErrInvalidStatus = errors.New("invalid call schedule status")
)

// ParseStatus accepts one of the four statuses, case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Open reports whether a call with this status is still expected to happen.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Submission is the raw input of the public scheduling form.
type Submission struct {
	Name          string `json:"name" validate:"required,max=200"`
	Email         string `json:"email" validate:"required,email,max=254"`
	Phone         string `json:"phone" validate:"required,max=20,phone"`
	PreferredDate string `json:"preferred_date" validate:"required,datetime=2006-01-02"`
	PreferredTime string `json:"preferred_time" validate:"required,timeofday"`
	Timezone      string `json:"timezone" validate:"required,max=50,timezone"`
	Topic         string `json:"topic" validate:"required,max=300"`
	Message       string `json:"message"`
}

var messages = map[string]string{
	"email.required": "Please provide a valid email address.",
	"email.email":    "Please provide a valid email address.",
	"phone.phone":    "Please provide a valid phone number. It must contain at least 10 digits.",
}

const (
	msgDateInPast    = "Cannot schedule a call in the past."
	msgInstantInPast = "Cannot schedule a call in the past. Please choose a future date and time."
)

// CallSchedule is a stored request for a call.
type CallSchedule struct {
	ID            uuid.UUID
	Name          string
	Email         string
	Phone         string
	PreferredDate time.Time // calendar date at 00:00 UTC
	PreferredTime TimeOfDay
	Timezone      string
	Topic         string
	Message       string
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Normalize trims every field, lower-cases the email and applies defaultTZ
// when no timezone was given.
func (s Submission) Normalize(defaultTZ string) Submission {
	n := Submission{
		Name:          strings.TrimSpace(s.Name),
		Email:         validation.NormalizeEmail(s.Email),
		Phone:         strings.TrimSpace(s.Phone),
		PreferredDate: strings.TrimSpace(s.PreferredDate),
		PreferredTime: strings.TrimSpace(s.PreferredTime),
		Timezone:      strings.TrimSpace(s.Timezone),
		Topic:         strings.TrimSpace(s.Topic),
		Message:       strings.TrimSpace(s.Message),
	}
	if n.Timezone == "" {
		n.Timezone = defaultTZ
	}
	return n
}

// NewCallSchedule validates a submission against now and builds a pending
// CallSchedule. The combined date and time, read in the submission's time
// zone, must be strictly after now.
func NewCallSchedule(s Submission, defaultTZ string, now time.Time) (*CallSchedule, error) {
	n := s.Normalize(defaultTZ)
	errs := validation.Struct(n, messages)

	var (
		date time.Time
		tod  TimeOfDay
		loc  *time.Location
		err  error
	)
	dateOK := !errs.Has("preferred_date")
	timeOK := !errs.Has("preferred_time")
	zoneOK := !errs.Has("timezone")

	if dateOK {
		date, err = time.Parse(DateLayout, n.PreferredDate)
		dateOK = err == nil
	}
	if timeOK {
		tod, err = validation.ParseTimeOfDay(n.PreferredTime)
		timeOK = err == nil
	}
	if zoneOK {
		loc, err = time.LoadLocation(n.Timezone)
		zoneOK = err == nil
	}

	if dateOK && zoneOK {
		local := now.In(loc)
		today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
		if date.Before(today) {
			errs.Add("preferred_date", msgDateInPast)
		}
	}
	if dateOK && timeOK && zoneOK {
		if !tod.On(date, loc).After(now) {
			errs.Add(validation.NonFieldErrors, msgInstantInPast)
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	return &CallSchedule{
		ID:            uuid.New(),
		Name:          n.Name,
		Email:         n.Email,
		Phone:         n.Phone,
		PreferredDate: date,
		PreferredTime: tod,
		Timezone:      n.Timezone,
		Topic:         n.Topic,
		Message:       n.Message,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Location resolves the record's time zone, falling back to UTC.
func (c *CallSchedule) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ScheduledAt is the instant the call is expected to start.
func (c *CallSchedule) ScheduledAt() time.Time {
	return c.PreferredTime.On(c.PreferredDate, c.Location())
}

// IsUpcoming is true iff the call starts strictly after now and was not cancelled.
func (c *CallSchedule) IsUpcoming(now time.Time) bool {
	return c.ScheduledAt().After(now) && c.Status != StatusCancelled
}

// SetStatus changes the status and refreshes UpdatedAt.
func (c *CallSchedule) SetStatus(s Status, now time.Time) {
	c.Status = s
	c.UpdatedAt = now
}
