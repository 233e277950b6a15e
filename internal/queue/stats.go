package queue

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/oggyb/portfolio-backend/internal/cache"
)

// Counter names kept under the cache.JobStats prefix.
const (
	StatSucceeded = "succeeded"
	StatRetried   = "retried"
	StatFailed    = "failed"
	StatAbandoned = "abandoned"
	StatFallback  = "fallback"
)

// StatNames lists every counter in display order.
var StatNames = []string{StatSucceeded, StatRetried, StatFailed, StatAbandoned, StatFallback}

// Stats counts job outcomes in the shared cache so the API process can
// report counters produced by a separate worker process. A nil *Stats is
// valid and counts nothing.
type Stats struct {
	cache cache.Cache
}

func NewStats(c cache.Cache) *Stats {
	return &Stats{cache: c}
}

// Incr bumps one counter. Counting is best effort.
func (s *Stats) Incr(ctx context.Context, name string) error {
	if s == nil || s.cache == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()

	_, err := s.cache.Incr(ctx, cache.JobStats.Key(name))
	return err
}

// Snapshot reads every counter; missing counters read as zero.
func (s *Stats) Snapshot(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(StatNames))
	if s == nil || s.cache == nil {
		return out, nil
	}

	for _, name := range StatNames {
		v, err := s.cache.Get(ctx, cache.JobStats.Key(name))
		if errors.Is(err, cache.ErrMiss) {
			out[name] = 0
			continue
		}
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		out[name] = n
	}
	return out, nil
}
