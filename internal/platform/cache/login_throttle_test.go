package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newThrottle(t *testing.T, max int, window time.Duration) (*LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewLoginThrottle(rdb, max, window), mr
}

func TestLoginThrottleBlocksAfterMaxFailures(t *testing.T) {
	throttle, _ := newThrottle(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := throttle.Allow(ctx, "alice")
		if err != nil || !ok {
			t.Fatalf("attempt %d: ok=%v err=%v", i+1, ok, err)
		}
		if err := throttle.RecordFailure(ctx, "alice"); err != nil {
			t.Fatal(err)
		}
	}
	ok, err := throttle.Allow(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("fourth attempt should be throttled")
	}

	// Other users are unaffected.
	if ok, _ := throttle.Allow(ctx, "bob"); !ok {
		t.Error("bob should not be throttled")
	}
}

func TestLoginThrottleWindowExpires(t *testing.T) {
	throttle, mr := newThrottle(t, 1, time.Minute)
	ctx := context.Background()

	if err := throttle.RecordFailure(ctx, "alice"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := throttle.Allow(ctx, "alice"); ok {
		t.Fatal("should be throttled inside the window")
	}
	if ttl := mr.TTL("login_failures:alice"); ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	if ok, _ := throttle.Allow(ctx, "alice"); !ok {
		t.Error("should be allowed after the window")
	}
}

func TestLoginThrottleReset(t *testing.T) {
	throttle, _ := newThrottle(t, 1, time.Minute)
	ctx := context.Background()

	if err := throttle.RecordFailure(ctx, "Alice"); err != nil {
		t.Fatal(err)
	}
	if err := throttle.Reset(ctx, "alice"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := throttle.Allow(ctx, "ALICE"); !ok {
		t.Error("reset should clear failures regardless of case")
	}
}
