// Package memrepo keeps repository data in process memory. It backs the
// server's "memory" store driver and the handler and service tests.
package memrepo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"resource_hub/internal/common"
	"resource_hub/internal/domain/model"
	"resource_hub/internal/domain/repository"
)

// Store holds ordered collections, mirroring insertion order.
type Store struct {
	mu        sync.RWMutex
	now       func() time.Time
	users     []model.User
	resources []model.Resource
	requests  []model.Request
}

func New() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Users() repository.UserRepository         { return userRepo{s} }
func (s *Store) Resources() repository.ResourceRepository { return resourceRepo{s} }
func (s *Store) Requests() repository.RequestRepository   { return requestRepo{s} }

func window[T any](items []T, limit, offset int) []T {
	out := []T{}
	if offset < 0 || limit <= 0 || offset >= len(items) {
		return out
	}
	end := offset + limit
	if end > len(items) || end < offset {
		end = len(items)
	}
	return append(out, items[offset:end]...)
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return fmt.Errorf("username %w", common.ErrConflict)
		}
	}
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users = append(r.s.users, *user)
	return nil
}

func (r userRepo) find(match func(*model.User) bool) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.users {
		if match(&r.s.users[i]) {
			u := r.s.users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %w", common.ErrNotFound)
}

func (r userRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Username == username })
}

func (r userRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

func (r userRepo) List(context.Context) ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]model.User{}, r.s.users...), nil
}

func (r userRepo) Update(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].ID == user.ID {
			r.s.users[i].Role = user.Role
			r.s.users[i].Status = user.Status
			r.s.users[i].UpdatedAt = r.s.now()
			user.UpdatedAt = r.s.users[i].UpdatedAt
			return nil
		}
	}
	return fmt.Errorf("user %w", common.ErrNotFound)
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].ID == id {
			r.s.users = append(r.s.users[:i], r.s.users[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("user %w", common.ErrNotFound)
}

type resourceRepo struct{ s *Store }

func cloneResource(res model.Resource) model.Resource {
	res.Tags = append([]string{}, res.Tags...)
	return res
}

func (r resourceRepo) Create(_ context.Context, res *model.Resource) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if res.Tags == nil {
		res.Tags = []string{}
	}
	res.CreatedAt = r.s.now()
	res.UpdatedAt = res.CreatedAt
	r.s.resources = append(r.s.resources, cloneResource(*res))
	return nil
}

func (r resourceRepo) FindByID(_ context.Context, id string) (*model.Resource, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, res := range r.s.resources {
		if res.ID == id {
			out := cloneResource(res)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("resource %w", common.ErrNotFound)
}

func (r resourceRepo) Update(_ context.Context, res *model.Resource) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.resources {
		if r.s.resources[i].ID == res.ID {
			res.CreatedAt = r.s.resources[i].CreatedAt
			res.UpdatedAt = r.s.now()
			r.s.resources[i] = cloneResource(*res)
			return nil
		}
	}
	return fmt.Errorf("resource %w", common.ErrNotFound)
}

func (r resourceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.resources {
		if r.s.resources[i].ID == id {
			r.s.resources = append(r.s.resources[:i], r.s.resources[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("resource %w", common.ErrNotFound)
}

func (r resourceRepo) List(_ context.Context, filter model.ResourceFilter) ([]model.Resource, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	matched := []model.Resource{}
	for _, res := range r.s.resources {
		if len(filter.Tags) == 0 || res.HasAnyTag(filter.Tags) {
			matched = append(matched, cloneResource(res))
		}
	}
	return window(matched, filter.Limit, filter.Offset), len(matched), nil
}

type requestRepo struct{ s *Store }

func (r requestRepo) Create(_ context.Context, req *model.Request) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req.CreatedAt = r.s.now()
	req.UpdatedAt = req.CreatedAt
	r.s.requests = append(r.s.requests, *req)
	return nil
}

func (r requestRepo) FindByID(_ context.Context, id string) (*model.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, req := range r.s.requests {
		if req.ID == id {
			out := req
			return &out, nil
		}
	}
	return nil, fmt.Errorf("request %w", common.ErrNotFound)
}

func (r requestRepo) Update(_ context.Context, req *model.Request) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.requests {
		if r.s.requests[i].ID == req.ID {
			req.CreatedAt = r.s.requests[i].CreatedAt
			req.UpdatedAt = r.s.now()
			r.s.requests[i] = *req
			return nil
		}
	}
	return fmt.Errorf("request %w", common.ErrNotFound)
}

func (r requestRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.requests {
		if r.s.requests[i].ID == id {
			r.s.requests = append(r.s.requests[:i], r.s.requests[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("request %w", common.ErrNotFound)
}

func (r requestRepo) List(_ context.Context, limit, offset int) ([]model.Request, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return window(r.s.requests, limit, offset), len(r.s.requests), nil
}
