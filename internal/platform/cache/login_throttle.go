package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle counts failed logins per username in fixed windows. The
// window starts at the first failure.
type LoginThrottle struct {
	rdb         *redis.Client
	maxAttempts int
	window      time.Duration
	prefix      string
}

func NewLoginThrottle(rdb *redis.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{rdb: rdb, maxAttempts: maxAttempts, window: window, prefix: "login_failures:"}
}

func (t *LoginThrottle) key(username string) string {
	return t.prefix + strings.ToLower(username)
}

// Allow reports whether another attempt may be made for username.
func (t *LoginThrottle) Allow(ctx context.Context, username string) (bool, error) {
	n, err := t.rdb.Get(ctx, t.key(username)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read login failures: %w", err)
	}
	return n < t.maxAttempts, nil
}

func (t *LoginThrottle) RecordFailure(ctx context.Context, username string) error {
	key := t.key(username)
	n, err := t.rdb.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}
	if n == 1 {
		if err := t.rdb.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("set login failure window: %w", err)
		}
	}
	return nil
}

func (t *LoginThrottle) Reset(ctx context.Context, username string) error {
	if err := t.rdb.Del(ctx, t.key(username)).Err(); err != nil {
		return fmt.Errorf("reset login failures: %w", err)
	}
	return nil
}
