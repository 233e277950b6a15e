package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oggyb/portfolio-backend/internal/domain/contact"
	"github.com/oggyb/portfolio-backend/internal/queue"
	"github.com/oggyb/portfolio-backend/internal/testutil"
	"github.com/oggyb/portfolio-backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactService_Submit(t *testing.T) {
	var saved *contact.Message
	repo := &testutil.ContactRepo{SaveFunc: func(ctx context.Context, m *contact.Message) error {
		saved = m
		return nil
	}}
	d := &mockDispatcher{}
	log, _ := testutil.NullLogger()
	svc := NewContactService(repo, d, log)

	msg, err := svc.Submit(context.Background(), contact.Submission{
		Name:    "Jo Lee",
		Email:   "JO@X.COM",
		Message: "Interested in your backend work",
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "jo@x.com", saved.Email)
	assert.Equal(t, "Jo Lee", saved.Name)
	assert.False(t, saved.IsRead)
	assert.Equal(t, time.UTC, msg.CreatedAt.Location())

	require.Len(t, d.Jobs(), 1)
	assert.Equal(t, queue.KindContactCreated, d.Jobs()[0].kind)
	assert.Equal(t, msg.ID, d.Jobs()[0].id)
}

func TestContactService_Submit_ShortMessageNotPersisted(t *testing.T) {
	saves := 0
	repo := &testutil.ContactRepo{SaveFunc: func(ctx context.Context, m *contact.Message) error {
		saves++
		return nil
	}}
	d := &mockDispatcher{}
	log, _ := testutil.NullLogger()

	_, err := NewContactService(repo, d, log).Submit(context.Background(), contact.Submission{
		Name:    "Jo Lee",
		Email:   "jo@x.com",
		Message: "  too short  ",
	})

	_, ok := validation.As(err)
	assert.True(t, ok)
	assert.Zero(t, saves)
	assert.Empty(t, d.Jobs())
}

func TestContactService_Submit_SaveError(t *testing.T) {
	repo := &testutil.ContactRepo{SaveFunc: func(ctx context.Context, m *contact.Message) error {
		return errors.New("connection refused")
	}}
	d := &mockDispatcher{}
	log, _ := testutil.NullLogger()

	_, err := NewContactService(repo, d, log).Submit(context.Background(), contact.Submission{
		Name:    "Jo Lee",
		Email:   "jo@x.com",
		Message: "Interested in your backend work",
	})

	assert.ErrorContains(t, err, "save contact message")
	assert.Empty(t, d.Jobs(), "nothing is dispatched for an unsaved record")
}

func TestContactService_SetRead(t *testing.T) {
	id := uuid.New()
	repo := &testutil.ContactRepo{SetReadFunc: func(ctx context.Context, got uuid.UUID, read bool) (*contact.Message, error) {
		assert.Equal(t, id, got)
		return &contact.Message{ID: got, IsRead: read}, nil
	}}
	log, _ := testutil.NullLogger()

	msg, err := NewContactService(repo, &mockDispatcher{}, log).SetRead(context.Background(), id, true)
	require.NoError(t, err)
	assert.True(t, msg.IsRead)

	_, err = NewContactService(&testutil.ContactRepo{}, &mockDispatcher{}, log).SetRead(context.Background(), id, true)
	assert.ErrorIs(t, err, contact.ErrNotFound)
}
