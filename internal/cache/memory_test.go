package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetNXOnlyOnce(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	ok, err := m.SetNX(ctx, ReminderSent.Key("abc"), "1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.SetNX(ctx, ReminderSent.Key("abc"), "2", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := m.Get(ctx, "reminder_sent:abc")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	ok, err := m.SetNX(ctx, "k", "v", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(time.Minute)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemory_Incr(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for i := int64(1); i <= 3; i++ {
		n, err := m.Incr(ctx, JobStats.Key("succeeded"))
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	require.NoError(t, m.Del(ctx, JobStats.Key("succeeded")))
	_, err := m.Get(ctx, JobStats.Key("succeeded"))
	assert.ErrorIs(t, err, ErrMiss)
}
