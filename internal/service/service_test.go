package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/oggyb/portfolio-backend/internal/queue"
)

type dispatched struct {
	kind queue.Kind
	id   uuid.UUID
}

type mockDispatcher struct {
	mu   sync.Mutex
	jobs []dispatched
}

func (m *mockDispatcher) Dispatch(ctx context.Context, kind queue.Kind, recordID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, dispatched{kind: kind, id: recordID})
}

func (m *mockDispatcher) Jobs() []dispatched {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]dispatched(nil), m.jobs...)
}
