package service

import (
	"context"
	"sync"
	"time"

	"resource_hub/internal/common/security"
	"resource_hub/internal/domain/repository/memrepo"
	"resource_hub/internal/platform/events"
	"resource_hub/internal/platform/logger"
)

type fakeThrottle struct {
	mu       sync.Mutex
	max      int
	failures map[string]int
	resets   int
}

func newFakeThrottle(max int) *fakeThrottle {
	return &fakeThrottle{max: max, failures: map[string]int{}}
}

func (f *fakeThrottle) Allow(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failures[username] < f.max, nil
}

func (f *fakeThrottle) RecordFailure(_ context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[username]++
	return nil
}

func (f *fakeThrottle) Reset(_ context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, username)
	f.resets++
	return nil
}

type fixture struct {
	store     *memrepo.Store
	tokens    *security.TokenManager
	throttle  *fakeThrottle
	events    *events.Recorder
	auth      *AuthService
	users     *UserService
	resources *ResourceService
	requests  *RequestService
}

func newFixture() *fixture {
	log := logger.Discard()
	store := memrepo.New()
	tokens := security.NewTokenManager([]byte("test-secret"), time.Hour)
	throttle := newFakeThrottle(5)
	rec := &events.Recorder{}
	return &fixture{
		store:     store,
		tokens:    tokens,
		throttle:  throttle,
		events:    rec,
		auth:      NewAuthService(store.Users(), tokens, throttle, log),
		users:     NewUserService(store.Users(), log),
		resources: NewResourceService(store.Resources(), rec, log),
		requests:  NewRequestService(store.Requests(), rec, log),
	}
}

func strPtr(s string) *string { return &s }
