package contact

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows a message listing. Zero values mean "no restriction".
type ListFilter struct {
	IsRead *bool
	Limit  int
	Offset int
}

// Repository defines the persistence operations for contact messages.
//
// Listings are ordered newest first.
type Repository interface {
	// Save persists a new message.
	Save(ctx context.Context, m *Message) error

	// GetByID returns ErrNotFound if the message does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)

	// List returns messages matching the filter, newest first.
	List(ctx context.Context, f ListFilter) ([]*Message, error)

	// SetRead flips the read flag and returns the updated message.
	SetRead(ctx context.Context, id uuid.UUID, read bool) (*Message, error)
}
