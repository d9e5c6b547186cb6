package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter - фиксированное окно на INCR + EXPIRE.
// Без Redis лимит не применяется.
type RateLimiter struct {
	client    *redis.Client
	limit     int
	window    time.Duration
	opTimeout time.Duration
}

func NewRateLimiter(client *redis.Client, limit int, window, opTimeout time.Duration) *RateLimiter {
	if window < time.Second {
		window = time.Second
	}
	return &RateLimiter{client: client, limit: limit, window: window, opTimeout: opTimeout}
}

// Allow увеличивает счетчик для key в текущем окне и сообщает, укладывается ли запрос в лимит
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.client == nil || l.limit <= 0 {
		return true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, l.opTimeout)
	defer cancel()

	windowKey := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(l.window.Seconds()))

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, windowKey)
		pipe.Expire(ctx, windowKey, l.window)
		return nil
	})
	if err != nil {
		return true, err
	}
	return incr.Val() <= int64(l.limit), nil
}

// Window - длина окна, отдается клиенту в Retry-After
func (l *RateLimiter) Window() time.Duration {
	return l.window
}
