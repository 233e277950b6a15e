// Package queue defines notification jobs, their results and the broker
// contract used to hand them to background workers.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind names the handler a job is routed to.
type Kind string

const (
	KindContactCreated  Kind = "contact.created"
	KindScheduleCreated Kind = "schedule.created"
)

// ErrUnavailable is returned when a job cannot be handed to the broker.
var ErrUnavailable = errors.New("queue: broker unavailable")

// Job is a unit of background work referencing a stored record by id.
type Job struct {
	ID         uuid.UUID `json:"id"`
	Kind       Kind      `json:"kind"`
	RecordID   uuid.UUID `json:"record_id"`
	Attempt    int       `json:"attempt"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	LastError  string    `json:"last_error,omitempty"`
}

// NewJob builds a first-attempt job for a record.
func NewJob(kind Kind, recordID uuid.UUID, now time.Time) Job {
	return Job{
		ID:         uuid.New(),
		Kind:       kind,
		RecordID:   recordID,
		Attempt:    0,
		EnqueuedAt: now,
	}
}

func (j Job) String() string {
	return fmt.Sprintf("%s[%s] record=%s attempt=%d", j.Kind, j.ID, j.RecordID, j.Attempt)
}

// Encode serializes a job for the wire.
func Encode(j Job) ([]byte, error) {
	return json.Marshal(j)
}

// Decode parses a job produced by Encode.
func Decode(b []byte) (Job, error) {
	var j Job
	if err := json.Unmarshal(b, &j); err != nil {
		return Job{}, fmt.Errorf("decode job: %w", err)
	}
	return j, nil
}

// Outcome classifies how a job run ended.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeRetry
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeRetry:
		return "retry"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Result is what a handler returns for one run of a job.
type Result struct {
	Outcome Outcome
	Err     error
}

// OK reports success.
func OK() Result { return Result{Outcome: OutcomeOK} }

// Retry asks the pool to run the job again later.
func Retry(err error) Result { return Result{Outcome: OutcomeRetry, Err: err} }

// Fatal ends the job without further attempts.
func Fatal(err error) Result { return Result{Outcome: OutcomeFatal, Err: err} }

// Handler runs one attempt of a job.
type Handler interface {
	Handle(ctx context.Context, job Job) Result
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, job Job) Result

func (f HandlerFunc) Handle(ctx context.Context, job Job) Result { return f(ctx, job) }
