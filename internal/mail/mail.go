// Package mail exposes a minimal interface for sending plain-text email
// and checking the health of the underlying transport.
package mail

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Message is a single outbound email.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Sender is the contract for a mail transport implementation.
type Sender interface {
	// Send delivers msg. Failures are returned as *DeliveryError.
	Send(ctx context.Context, msg Message) error

	// Health checks whether the transport is reachable and usable.
	Health(ctx context.Context) error
}

// DeliveryError reports a failed send to the given recipients.
type DeliveryError struct {
	To  []string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("mail delivery to %s failed: %v", strings.Join(e.To, ","), e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func deliveryErr(to []string, err error) error {
	return &DeliveryError{To: to, Err: err}
}

// withTimeout wraps the context with a timeout if it doesn't already have one.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		// Already has a deadline; no need to wrap again.
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
