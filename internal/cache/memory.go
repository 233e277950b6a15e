package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Memory is an in-process Cache used when Redis is not configured and in tests.
type Memory struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	value   string
	expires time.Time
}

// NewMemory returns an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{items: map[string]memoryItem{}, now: time.Now}
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lookup(key); ok {
		return false, nil
	}
	m.items[key] = m.item(value, ttl)
	return true, nil
}

func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.lookup(key)
	if !ok {
		return "", ErrMiss
	}
	return it.value, nil
}

func (m *Memory) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *Memory) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	it, ok := m.lookup(key)
	if ok {
		v, err := strconv.ParseInt(it.value, 10, 64)
		if err != nil {
			return 0, err
		}
		n = v
	}
	n++
	it.value = strconv.FormatInt(n, 10)
	m.items[key] = it
	return n, nil
}

// lookup must be called with mu held; expired items are dropped.
func (m *Memory) lookup(key string) (memoryItem, bool) {
	it, ok := m.items[key]
	if !ok {
		return memoryItem{}, false
	}
	if !it.expires.IsZero() && !m.now().Before(it.expires) {
		delete(m.items, key)
		return memoryItem{}, false
	}
	return it, true
}

func (m *Memory) item(value string, ttl time.Duration) memoryItem {
	it := memoryItem{value: value}
	if ttl > 0 {
		it.expires = m.now().Add(ttl)
	}
	return it
}

var _ Cache = (*Memory)(nil)
