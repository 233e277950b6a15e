// Package redisq implements queue.Broker on Redis.
//
// Ready jobs live in a LIST (LPUSH / BRPOP, so the oldest job is popped
// first). Delayed jobs live in a sorted set scored by their run-at time in
// milliseconds and are moved to the list by a Lua script, so a job is never
// promoted twice.
package redisq

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/oggyb/portfolio-backend/internal/queue"
	"github.com/redis/go-redis/v9"
)

var _ queue.Broker = (*Broker)(nil)

// promoteBatch caps how many delayed jobs a single Promote call moves.
const promoteBatch = 100

// minPopTimeout is the smallest blocking window BRPOP accepts; zero would
// block forever.
const minPopTimeout = time.Second

var promoteScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, ARGV[2])
for i, payload in ipairs(due) do
	redis.call('ZREM', KEYS[1], payload)
	redis.call('LPUSH', KEYS[2], payload)
end
return #due
`)

// Broker is a Redis-backed queue.Broker.
type Broker struct {
	rdb        *redis.Client
	readyKey   string
	delayedKey string
}

// NewClient returns a go-redis client whose commands give up at the context
// deadline instead of the client's own read and write timeouts.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:                  addr,
		Password:              password,
		DB:                    db,
		ContextTimeoutEnabled: true,
	})
}

// New returns a broker storing its keys under "queue:<name>".
func New(rdb *redis.Client, name string) *Broker {
	return &Broker{
		rdb:        rdb,
		readyKey:   fmt.Sprintf("queue:%s:ready", name),
		delayedKey: fmt.Sprintf("queue:%s:delayed", name),
	}
}

// Push implements queue.Broker.
func (b *Broker) Push(ctx context.Context, job queue.Job) error {
	payload, err := queue.Encode(job)
	if err != nil {
		return err
	}
	if err := b.rdb.LPush(ctx, b.readyKey, payload).Err(); err != nil {
		return fmt.Errorf("%w: %v", queue.ErrUnavailable, err)
	}
	return nil
}

// Schedule implements queue.Broker.
func (b *Broker) Schedule(ctx context.Context, job queue.Job, runAt time.Time) error {
	payload, err := queue.Encode(job)
	if err != nil {
		return err
	}
	z := redis.Z{Score: float64(runAt.UnixMilli()), Member: payload}
	if err := b.rdb.ZAdd(ctx, b.delayedKey, z).Err(); err != nil {
		return fmt.Errorf("%w: %v", queue.ErrUnavailable, err)
	}
	return nil
}

// Pop implements queue.Broker.
func (b *Broker) Pop(ctx context.Context, timeout time.Duration) (queue.Job, bool, error) {
	if timeout < minPopTimeout {
		timeout = minPopTimeout
	}

	res, err := b.rdb.BRPop(ctx, timeout, b.readyKey).Result()
	if errors.Is(err, redis.Nil) {
		return queue.Job{}, false, nil
	}
	if err != nil {
		return queue.Job{}, false, err
	}

	// BRPOP replies with [key, value].
	job, err := queue.Decode([]byte(res[1]))
	if err != nil {
		return queue.Job{}, false, err
	}
	return job, true, nil
}

// Promote implements queue.Broker.
func (b *Broker) Promote(ctx context.Context, now time.Time) (int, error) {
	n, err := promoteScript.Run(
		ctx, b.rdb,
		[]string{b.delayedKey, b.readyKey},
		strconv.FormatInt(now.UnixMilli(), 10), promoteBatch,
	).Int()
	if err != nil {
		return 0, fmt.Errorf("promote delayed jobs: %w", err)
	}
	return n, nil
}

// Ping implements queue.Broker.
func (b *Broker) Ping(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}

// Len implements queue.Broker.
func (b *Broker) Len(ctx context.Context) (int64, int64, error) {
	pipe := b.rdb.Pipeline()
	ready := pipe.LLen(ctx, b.readyKey)
	delayed := pipe.ZCard(ctx, b.delayedKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}
	return ready.Val(), delayed.Val(), nil
}
