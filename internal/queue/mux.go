package queue

import (
	"context"
	"fmt"
)

// Mux routes jobs to the handler registered for their kind.
type Mux struct {
	handlers map[Kind]Handler
}

func NewMux() *Mux {
	return &Mux{handlers: make(map[Kind]Handler)}
}

// Register sets h as the handler for kind, replacing any previous handler.
func (m *Mux) Register(kind Kind, h Handler) {
	m.handlers[kind] = h
}

// Handle implements Handler. Jobs of an unknown kind are fatal.
func (m *Mux) Handle(ctx context.Context, job Job) Result {
	h, ok := m.handlers[job.Kind]
	if !ok {
		return Fatal(fmt.Errorf("no handler for job kind %q", job.Kind))
	}
	return h.Handle(ctx, job)
}
