package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows a listing. Zero values mean "no restriction"; dates
// are compared against PreferredDate and are inclusive.
type ListFilter struct {
	Statuses []Status
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// Repository defines the persistence operations for call schedules.
//
// Listings are ordered by (preferred_date, preferred_time) ascending.
type Repository interface {
	// Save persists a new call schedule.
	Save(ctx context.Context, c *CallSchedule) error

	// GetByID returns ErrNotFound if the call schedule does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*CallSchedule, error)

	// List returns call schedules matching the filter.
	List(ctx context.Context, f ListFilter) ([]*CallSchedule, error)

	// UpdateStatus sets the status, refreshes updated_at and returns the
	// updated record.
	UpdateStatus(ctx context.Context, id uuid.UUID, s Status) (*CallSchedule, error)
}
