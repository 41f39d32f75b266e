package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// VisitCounter counts index page visits per visitor.
type VisitCounter interface {
	// Hit records one visit and returns the number of visits before it.
	Hit(ctx context.Context, visitor string) (int64, error)
}

type redisVisitCounter struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisVisitCounter backs the counter with Redis. A nil client yields a
// counter that records nothing and always reports zero.
func NewRedisVisitCounter(client *redis.Client, ttl time.Duration) VisitCounter {
	return &redisVisitCounter{client: client, ttl: ttl}
}

func visitKey(visitor string) string {
	return fmt.Sprintf("visits:%s", visitor)
}

func (v *redisVisitCounter) Hit(ctx context.Context, visitor string) (int64, error) {
	if v == nil || v.client == nil {
		return 0, nil
	}
	key := visitKey(visitor)

	pipe := v.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	if v.ttl > 0 {
		pipe.Expire(ctx, key, v.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("count visit: %w", err)
	}
	return incr.Val() - 1, nil
}
