package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/oggyb/portfolio-backend/internal/queue"
)

// Dispatcher hands a created record to the notification pipeline.
// Dispatch must not fail the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, kind queue.Kind, recordID uuid.UUID)
}
